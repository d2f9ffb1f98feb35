package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-lookup/internal/models"
	"github.com/bobby-s-dev/weather-lookup/pkg/client"
	"go.uber.org/zap"
)

// Locale-style timestamp used for forecast rows, e.g. "11/14/2023, 10:13:20 PM".
const forecastTimeLayout = "1/2/2006, 3:04:05 PM"

type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, city string) (*client.CurrentResponse, error)
	GetForecast(ctx context.Context, city string) (*client.ForecastResponse, error)
}

// Adapter owns the presentation state of one search session. All mutations go
// through it and are serialised, observers only ever see copies.
type Adapter struct {
	client   WeatherClient
	logger   *zap.Logger
	location *time.Location

	mu           sync.Mutex
	view         models.View
	forecastCity string // city the forecast rows belong to, "" when absent

	observersMu sync.RWMutex
	observers   []func(models.View)
}

func NewAdapter(c WeatherClient, location *time.Location, logger *zap.Logger) *Adapter {
	if location == nil {
		location = time.Local
	}
	return &Adapter{
		client:   c,
		logger:   logger,
		location: location,
		view: models.View{
			Panel: models.PanelCollapsed,
		},
	}
}

// OnChange registers fn to receive a copy of the view after every change.
// fn runs outside the adapter lock and may read the adapter again.
func (a *Adapter) OnChange(fn func(models.View)) {
	a.observersMu.Lock()
	a.observers = append(a.observers, fn)
	a.observersMu.Unlock()
}

// View returns a copy of the current presentation state.
func (a *Adapter) View() models.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// FetchCurrent looks up current conditions for city. Any failure clears the
// conditions, the forecast and collapses the panel.
func (a *Adapter) FetchCurrent(ctx context.Context, city string) models.View {
	city = strings.TrimSpace(city)

	a.mu.Lock()
	if city == "" {
		a.clearLocked(models.OutcomeNotFound)
		view := a.snapshot()
		a.mu.Unlock()
		a.notify(view)
		return view
	}

	a.logger.Info("Fetching current weather", zap.String("city", city))

	resp, err := a.client.GetCurrentWeather(ctx, city)
	if err != nil {
		outcome := classify(err)
		a.logger.Warn("Failed to fetch current weather",
			zap.String("city", city),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		a.clearLocked(outcome)
	} else {
		a.view.City = city
		a.view.Current = adaptCurrent(resp)
		a.view.CurrentStatus = models.OutcomeOK

		// A new successful search always invalidates the forecast so rows
		// never belong to a different city.
		a.resetForecastLocked()
		if a.view.Panel == models.PanelExpanded {
			a.fetchForecastLocked(ctx, city)
		}
	}

	view := a.snapshot()
	a.mu.Unlock()
	a.notify(view)
	return view
}

// FetchForecast loads the forecast rows for city regardless of the panel state.
func (a *Adapter) FetchForecast(ctx context.Context, city string) models.View {
	city = strings.TrimSpace(city)

	a.mu.Lock()
	a.fetchForecastLocked(ctx, city)
	view := a.snapshot()
	a.mu.Unlock()
	a.notify(view)
	return view
}

// ToggleForecast flips the forecast panel. Expanding fetches the forecast only
// when none is held for the current city.
func (a *Adapter) ToggleForecast(ctx context.Context) models.View {
	a.mu.Lock()
	switch a.view.Panel {
	case models.PanelExpanded:
		a.view.Panel = models.PanelCollapsed
	default:
		if !a.hasForecastLocked() && a.view.City != "" {
			a.fetchForecastLocked(ctx, a.view.City)
		}
		a.view.Panel = models.PanelExpanded
	}
	view := a.snapshot()
	a.mu.Unlock()
	a.notify(view)
	return view
}

func (a *Adapter) hasForecastLocked() bool {
	return a.forecastCity != "" &&
		a.forecastCity == a.view.City &&
		a.view.ForecastStatus == models.OutcomeOK
}

func (a *Adapter) fetchForecastLocked(ctx context.Context, city string) {
	a.resetForecastLocked()
	if city == "" {
		a.logger.Debug("Skipping forecast, no city selected")
		return
	}

	a.logger.Info("Fetching forecast", zap.String("city", city))

	resp, err := a.client.GetForecast(ctx, city)
	if err != nil {
		outcome := classify(err)
		a.logger.Warn("Failed to fetch forecast",
			zap.String("city", city),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		a.view.ForecastStatus = outcome
		return
	}

	entries, err := adaptForecast(resp, a.location)
	if err != nil {
		a.logger.Warn("Discarding forecast",
			zap.String("city", city),
			zap.Error(err))
		a.view.ForecastStatus = models.OutcomeInvalidResponse
		return
	}

	a.view.Forecast = entries
	a.view.ForecastStatus = models.OutcomeOK
	a.forecastCity = city
}

func (a *Adapter) clearLocked(outcome models.Outcome) {
	a.view.City = ""
	a.view.Current = models.CurrentConditions{}
	a.view.CurrentStatus = outcome
	a.view.Panel = models.PanelCollapsed
	a.resetForecastLocked()
}

func (a *Adapter) resetForecastLocked() {
	a.view.Forecast = nil
	a.view.ForecastStatus = models.OutcomeNone
	a.forecastCity = ""
}

func (a *Adapter) snapshot() models.View {
	view := a.view
	if a.view.Forecast != nil {
		view.Forecast = append([]models.ForecastEntry(nil), a.view.Forecast...)
	}
	return view
}

func (a *Adapter) notify(view models.View) {
	a.observersMu.RLock()
	observers := append([]func(models.View){}, a.observers...)
	a.observersMu.RUnlock()

	for _, fn := range observers {
		fn(view)
	}
}

func classify(err error) models.Outcome {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return models.OutcomeNotFound
	case errors.Is(err, client.ErrInvalidResponse):
		return models.OutcomeInvalidResponse
	default:
		return models.OutcomeNetworkError
	}
}

func adaptCurrent(resp *client.CurrentResponse) models.CurrentConditions {
	conditions := models.CurrentConditions{
		Summary:     models.CityNotFound,
		Description: models.MissingDescription,
	}

	if len(resp.Weather) > 0 {
		if resp.Weather[0].Main != "" {
			conditions.Summary = resp.Weather[0].Main
		}
		if resp.Weather[0].Description != "" {
			conditions.Description = resp.Weather[0].Description
		}
	}
	if resp.Main.Temp != nil {
		temp := roundHalfUp(*resp.Main.Temp)
		conditions.TemperatureC = &temp
	}
	if resp.Wind.Speed != nil {
		speed := roundHalfUp(*resp.Wind.Speed)
		conditions.WindSpeedMs = &speed
	}

	return conditions
}

// adaptForecast keeps the first ForecastLimit entries in upstream order. An
// entry missing any reading fails the whole forecast.
func adaptForecast(resp *client.ForecastResponse, location *time.Location) ([]models.ForecastEntry, error) {
	items := resp.List
	if len(items) > models.ForecastLimit {
		items = items[:models.ForecastLimit]
	}

	entries := make([]models.ForecastEntry, 0, len(items))
	for i, item := range items {
		if item.Main.Temp == nil || item.Main.TempMin == nil || item.Main.TempMax == nil || item.Wind.Speed == nil {
			return nil, fmt.Errorf("%w: forecast entry %d has no readings", client.ErrInvalidResponse, i)
		}

		description := models.MissingDescription
		if len(item.Weather) > 0 && item.Weather[0].Description != "" {
			description = item.Weather[0].Description
		}

		entries = append(entries, models.ForecastEntry{
			Timestamp:    time.Unix(item.Dt, 0).In(location).Format(forecastTimeLayout),
			TemperatureC: *item.Main.Temp,
			MinTempC:     *item.Main.TempMin,
			MaxTempC:     *item.Main.TempMax,
			WindSpeedMs:  *item.Wind.Speed,
			Description:  description,
		})
	}

	return entries, nil
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
