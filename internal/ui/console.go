package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bobby-s-dev/weather-lookup/internal/models"
	"go.uber.org/zap"
)

// Controller is the part of the adapter the console drives.
type Controller interface {
	FetchCurrent(ctx context.Context, city string) models.View
	ToggleForecast(ctx context.Context) models.View
	View() models.View
	OnChange(fn func(models.View))
}

// Console reads commands line by line and re-renders whenever the
// controller reports a change.
type Console struct {
	ctrl   Controller
	input  *QueryInput
	out    io.Writer
	logger *zap.Logger
}

func NewConsole(ctrl Controller, out io.Writer, logger *zap.Logger) *Console {
	c := &Console{
		ctrl:   ctrl,
		out:    out,
		logger: logger,
	}
	c.input = NewQueryInput(func(ctx context.Context, city string) {
		// Blank lines are ignored, like an empty search box.
		if city == "" {
			return
		}
		ctrl.FetchCurrent(ctx, city)
	})
	ctrl.OnChange(c.render)
	return c
}

// Search submits city as if it had been typed.
func (c *Console) Search(ctx context.Context, city string) {
	c.input.Submit(ctx, city)
}

// Run processes commands from in until EOF, "q" or ctx is done. Lines are
// read on a separate goroutine so a cancelled ctx returns at once, even while
// in is blocked.
//
//	<city>  search
//	f       toggle the forecast
//	q       quit
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out, "Enter a city name, f to toggle the forecast, q to quit.")

	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, "> ")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle runs one command line and reports whether the console should exit.
func (c *Console) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	case "f", "forecast":
		if !c.ctrl.View().ShowResults() {
			fmt.Fprintln(c.out, "Search for a city first.")
			return false
		}
		c.ctrl.ToggleForecast(ctx)
	default:
		c.input.Submit(ctx, line)
	}
	return false
}

func (c *Console) render(v models.View) {
	if err := Render(c.out, v); err != nil {
		c.logger.Error("Failed to render view", zap.Error(err))
	}
}
