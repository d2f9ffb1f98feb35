package models

import "testing"

func TestCurrentConditionsLabels(t *testing.T) {
	temp, wind := 15, 3
	c := CurrentConditions{Summary: "Clouds", Description: "overcast clouds", TemperatureC: &temp, WindSpeedMs: &wind}

	if got := c.TemperatureLabel(); got != "15 °C" {
		t.Errorf("TemperatureLabel = %q", got)
	}
	if got := c.WindLabel(); got != "3 m/sec" {
		t.Errorf("WindLabel = %q", got)
	}
	if c.IsEmpty() {
		t.Error("populated conditions reported empty")
	}
	if !(CurrentConditions{}).IsEmpty() {
		t.Error("zero conditions not reported empty")
	}
}

func TestViewToggleLabel(t *testing.T) {
	v := View{Panel: PanelCollapsed}
	if v.ToggleLabel() != ShowForecastLabel || v.ForecastVisible() {
		t.Errorf("collapsed: label=%q visible=%v", v.ToggleLabel(), v.ForecastVisible())
	}

	v.Panel = PanelExpanded
	if v.ToggleLabel() != CloseForecastLabel || !v.ForecastVisible() {
		t.Errorf("expanded: label=%q visible=%v", v.ToggleLabel(), v.ForecastVisible())
	}
}

func TestOutcomeMessage(t *testing.T) {
	for _, o := range []Outcome{OutcomeNotFound, OutcomeNetworkError, OutcomeInvalidResponse} {
		if o.Message() == "" {
			t.Errorf("%q has no message", o)
		}
	}
	if OutcomeOK.Message() != "" || OutcomeNone.Message() != "" {
		t.Error("successful outcomes should have no message")
	}
}
