// Package ui holds the terminal presentation of the weather widget: the query
// input, the view renderer and the interactive console host.
package ui

import (
	"context"
	"strings"
)

// SearchFunc receives the city submitted through a QueryInput.
type SearchFunc func(ctx context.Context, city string)

// QueryInput is the search box. It does no validation of its own, what an
// empty submission means is up to the SearchFunc.
type QueryInput struct {
	onSearch SearchFunc
}

func NewQueryInput(onSearch SearchFunc) *QueryInput {
	return &QueryInput{onSearch: onSearch}
}

// Submit hands the trimmed text to the search handler.
func (q *QueryInput) Submit(ctx context.Context, text string) {
	q.onSearch(ctx, strings.TrimSpace(text))
}
