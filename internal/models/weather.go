package models

import (
	"strconv"
)

const (
	// ForecastLimit is the number of forecast steps shown. At 3 hours a step
	// this covers roughly the next 15 hours, not five days.
	ForecastLimit = 5

	CityNotFound       = "City not found"
	MissingDescription = "n/a"
	NoForecastMessage  = "No forecast data available. Please try another city."
	ShowForecastLabel  = "See Forecast"
	CloseForecastLabel = "Close Forecast"
)

// CurrentConditions is either fully populated or the zero value.
type CurrentConditions struct {
	Summary      string `json:"summary" msgpack:"summary"`
	Description  string `json:"description" msgpack:"description"`
	TemperatureC *int   `json:"temperature_c" msgpack:"temperature_c"`
	WindSpeedMs  *int   `json:"wind_speed_ms" msgpack:"wind_speed_ms"`
}

func (c CurrentConditions) IsEmpty() bool {
	return c.Summary == "" && c.Description == "" && c.TemperatureC == nil && c.WindSpeedMs == nil
}

// TemperatureLabel renders the temperature as "15 °C".
func (c CurrentConditions) TemperatureLabel() string {
	if c.TemperatureC == nil {
		return MissingDescription
	}
	return strconv.Itoa(*c.TemperatureC) + " °C"
}

// WindLabel renders the wind speed as "3 m/sec".
func (c CurrentConditions) WindLabel() string {
	if c.WindSpeedMs == nil {
		return MissingDescription
	}
	return strconv.Itoa(*c.WindSpeedMs) + " m/sec"
}

type ForecastEntry struct {
	Timestamp    string  `json:"timestamp" msgpack:"timestamp"`
	TemperatureC float64 `json:"temperature_c" msgpack:"temperature_c"`
	MinTempC     float64 `json:"min_temp_c" msgpack:"min_temp_c"`
	MaxTempC     float64 `json:"max_temp_c" msgpack:"max_temp_c"`
	WindSpeedMs  float64 `json:"wind_speed_ms" msgpack:"wind_speed_ms"`
	Description  string  `json:"description" msgpack:"description"`
}

// Outcome tags the result of one upstream lookup.
type Outcome string

const (
	OutcomeNone            Outcome = ""
	OutcomeOK              Outcome = "ok"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeNetworkError    Outcome = "network_error"
	OutcomeInvalidResponse Outcome = "invalid_response"
)

// Message is the user-facing text for a failed lookup.
func (o Outcome) Message() string {
	switch o {
	case OutcomeNotFound:
		return "City not found. Check the spelling and try again."
	case OutcomeNetworkError:
		return "The weather service could not be reached. Please try again later."
	case OutcomeInvalidResponse:
		return "The weather service sent an unexpected response."
	default:
		return ""
	}
}

type PanelState string

const (
	PanelCollapsed PanelState = "collapsed"
	PanelExpanded  PanelState = "expanded"
)

// View is a snapshot of one session's presentation state.
type View struct {
	City           string            `json:"city" msgpack:"city"`
	Current        CurrentConditions `json:"current" msgpack:"current"`
	CurrentStatus  Outcome           `json:"current_status" msgpack:"current_status"`
	Panel          PanelState        `json:"panel" msgpack:"panel"`
	Forecast       []ForecastEntry   `json:"forecast" msgpack:"forecast"`
	ForecastStatus Outcome           `json:"forecast_status" msgpack:"forecast_status"`
}

// ShowResults reports whether the results panel and its toggle are visible.
func (v View) ShowResults() bool {
	return v.Current.Summary != ""
}

func (v View) ToggleLabel() string {
	if v.Panel == PanelExpanded {
		return CloseForecastLabel
	}
	return ShowForecastLabel
}

// ForecastVisible reports whether the forecast area (table or fallback) is shown.
func (v View) ForecastVisible() bool {
	return v.Panel == PanelExpanded
}
