package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-lookup/internal/models"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func londonView() models.View {
	return models.View{
		City: "London",
		Current: models.CurrentConditions{
			Summary:      "Clouds",
			Description:  "overcast clouds",
			TemperatureC: intPtr(15),
			WindSpeedMs:  intPtr(3),
		},
		CurrentStatus: models.OutcomeOK,
		Panel:         models.PanelCollapsed,
	}
}

func TestQueryInputSubmit(t *testing.T) {
	var got []string
	q := NewQueryInput(func(ctx context.Context, city string) {
		got = append(got, city)
	})

	q.Submit(context.Background(), "  London ")
	q.Submit(context.Background(), "")

	if len(got) != 2 || got[0] != "London" || got[1] != "" {
		t.Errorf("handler received %q", got)
	}
}

func TestRenderCurrent(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, londonView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"London: Clouds", "overcast clouds", "15 °C", "wind speed: 3 m/sec", "See Forecast"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Date/Time") {
		t.Errorf("collapsed view rendered the forecast table:\n%s", out)
	}
}

func TestRenderForecastTable(t *testing.T) {
	v := londonView()
	v.Panel = models.PanelExpanded
	v.Forecast = []models.ForecastEntry{
		{Timestamp: "11/14/2023, 10:13:20 PM", TemperatureC: 10.5, MinTempC: 9, MaxTempC: 11, WindSpeedMs: 4.1, Description: "light rain"},
		{Timestamp: "11/15/2023, 1:13:20 AM", TemperatureC: 9.5, MinTempC: 8, MaxTempC: 10, WindSpeedMs: 3.9, Description: "n/a"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Close Forecast") || !strings.Contains(out, "Date/Time") {
		t.Errorf("expected expanded table:\n%s", out)
	}
	first := strings.Index(out, "light rain")
	second := strings.Index(out, "1:13:20 AM")
	if first < 0 || second < 0 || first > second {
		t.Errorf("rows missing or out of order:\n%s", out)
	}
}

func TestRenderEmptyForecast(t *testing.T) {
	v := londonView()
	v.Panel = models.PanelExpanded

	var buf bytes.Buffer
	Render(&buf, v)

	if !strings.Contains(buf.String(), models.NoForecastMessage) {
		t.Errorf("expected fallback message:\n%s", buf.String())
	}
}

func TestRenderFailure(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, models.View{CurrentStatus: models.OutcomeNotFound, Panel: models.PanelCollapsed})

	out := buf.String()
	if !strings.Contains(out, models.OutcomeNotFound.Message()) {
		t.Errorf("expected not found message:\n%s", out)
	}
	if strings.Contains(out, "wind speed") {
		t.Errorf("failed search rendered results:\n%s", out)
	}
}

type fakeController struct {
	view      models.View
	searches  []string
	toggles   int
	observers []func(models.View)
}

func (f *fakeController) FetchCurrent(ctx context.Context, city string) models.View {
	f.searches = append(f.searches, city)
	f.view = londonView()
	f.view.City = city
	f.emit()
	return f.view
}

func (f *fakeController) ToggleForecast(ctx context.Context) models.View {
	f.toggles++
	if f.view.Panel == models.PanelExpanded {
		f.view.Panel = models.PanelCollapsed
	} else {
		f.view.Panel = models.PanelExpanded
	}
	f.emit()
	return f.view
}

func (f *fakeController) View() models.View { return f.view }

func (f *fakeController) OnChange(fn func(models.View)) {
	f.observers = append(f.observers, fn)
}

func (f *fakeController) emit() {
	for _, fn := range f.observers {
		fn(f.view)
	}
}

func TestConsoleRun(t *testing.T) {
	ctrl := &fakeController{view: models.View{Panel: models.PanelCollapsed}}
	var out bytes.Buffer
	c := NewConsole(ctrl, &out, zap.NewNop())

	in := strings.NewReader("f\n\nLondon\nf\nf\nq\nParis\n")
	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ctrl.searches) != 1 || ctrl.searches[0] != "London" {
		t.Errorf("searches = %q, expected [London]", ctrl.searches)
	}
	if ctrl.toggles != 2 {
		t.Errorf("toggles = %d, expected 2", ctrl.toggles)
	}
	text := out.String()
	if !strings.Contains(text, "Search for a city first.") {
		t.Errorf("expected hint before the first search:\n%s", text)
	}
	if !strings.Contains(text, "Close Forecast") {
		t.Errorf("expected a re-render after toggling:\n%s", text)
	}
}

func TestConsoleSearch(t *testing.T) {
	ctrl := &fakeController{}
	var out bytes.Buffer
	c := NewConsole(ctrl, &out, zap.NewNop())

	c.Search(context.Background(), " Oslo ")

	if len(ctrl.searches) != 1 || ctrl.searches[0] != "Oslo" {
		t.Errorf("searches = %q", ctrl.searches)
	}
	if !strings.Contains(out.String(), "Oslo: Clouds") {
		t.Errorf("expected rendered view:\n%s", out.String())
	}
}

func TestConsoleRunStopsOnCancelWhileWaitingForInput(t *testing.T) {
	ctrl := &fakeController{}
	var out bytes.Buffer
	c := NewConsole(ctrl, &out, zap.NewNop())

	// Nothing is ever written to the pipe, so reads block forever.
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- c.Run(ctx, in)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked on input after ctx was cancelled")
	}
}
