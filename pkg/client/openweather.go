package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentResponse is the subset of /weather the widget reads. Measurements are
// pointers so a missing field can be told apart from a zero reading.
type CurrentResponse struct {
	Weather []WeatherCondition `json:"weather"`
	Main    struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}

// ForecastItem is one 3 hour step. Measurements are pointers so an entry
// without readings is not mistaken for 0 °C and calm wind.
type ForecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    *float64 `json:"temp"`
		TempMin *float64 `json:"temp_min"`
		TempMax *float64 `json:"temp_max"`
	} `json:"main"`
	Weather []WeatherCondition `json:"weather"`
	Wind    struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	DtTxt string `json:"dt_txt"`
}

type ForecastResponse struct {
	Cnt  int            `json:"cnt"`
	List []ForecastItem `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	baseClient := NewBaseClient("openweather", config, logger)
	baseClient.RedactParams("appid")
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *OpenWeatherClient) query(city string) url.Values {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	return values
}

// GetCurrentWeather fetches /weather for city in metric units.
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, city string) (*CurrentResponse, error) {
	data, err := c.Get(ctx, c.baseURL+"/weather", c.query(city))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response *CurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w: %v", ErrInvalidResponse, err)
	}
	if response == nil {
		return nil, fmt.Errorf("failed to parse response: %w: empty body", ErrInvalidResponse)
	}

	return response, nil
}

// GetForecast fetches the 5 day / 3 hour /forecast feed for city.
func (c *OpenWeatherClient) GetForecast(ctx context.Context, city string) (*ForecastResponse, error) {
	data, err := c.Get(ctx, c.baseURL+"/forecast", c.query(city))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response *ForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w: %v", ErrInvalidResponse, err)
	}
	if response == nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w: empty body", ErrInvalidResponse)
	}

	return response, nil
}
