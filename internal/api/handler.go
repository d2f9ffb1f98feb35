package api

import (
	"time"

	"github.com/bobby-s-dev/weather-lookup/internal/models"
	"github.com/bobby-s-dev/weather-lookup/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// StatusReporter is implemented by background jobs that report on /health.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type Handler struct {
	sessions *services.SessionStore
	sweeper  StatusReporter
	logger   *zap.Logger
}

func NewHandler(sessions *services.SessionStore, sweeper StatusReporter, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		sweeper:  sweeper,
		logger:   logger,
	}
}

type searchRequest struct {
	City string `json:"city" form:"city" query:"city" validate:"required,max=200"`
}

type displayFields struct {
	ShowResults     bool   `json:"show_results" msgpack:"show_results"`
	Temperature     string `json:"temperature" msgpack:"temperature"`
	Wind            string `json:"wind" msgpack:"wind"`
	ToggleLabel     string `json:"toggle_label" msgpack:"toggle_label"`
	ForecastVisible bool   `json:"forecast_visible" msgpack:"forecast_visible"`
	Message         string `json:"message,omitempty" msgpack:"message,omitempty"`
	ForecastMessage string `json:"forecast_message,omitempty" msgpack:"forecast_message,omitempty"`
}

type viewResponse struct {
	SessionID string        `json:"session_id" msgpack:"session_id"`
	View      models.View   `json:"view" msgpack:"view"`
	Display   displayFields `json:"display" msgpack:"display"`
}

func newViewResponse(id string, v models.View) viewResponse {
	display := displayFields{
		ShowResults:     v.ShowResults(),
		ToggleLabel:     v.ToggleLabel(),
		ForecastVisible: v.ForecastVisible(),
		Message:         v.CurrentStatus.Message(),
	}
	if display.ShowResults {
		display.Temperature = v.Current.TemperatureLabel()
		display.Wind = v.Current.WindLabel()
	}
	if display.ForecastVisible && len(v.Forecast) == 0 {
		display.ForecastMessage = models.NoForecastMessage
	}
	return viewResponse{SessionID: id, View: v, Display: display}
}

func (h *Handler) session(c *fiber.Ctx) (string, *services.Adapter, error) {
	id := c.Params("id")
	adapter, ok := h.sessions.Get(id)
	if !ok {
		return id, nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return id, adapter, nil
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(c *fiber.Ctx) error {
	id, adapter := h.sessions.Create()
	h.logger.Info("Session started", zap.String("session_id", id))
	return respond(c, fiber.StatusCreated, newViewResponse(id, adapter.View()))
}

// GetSession handles GET /api/v1/sessions/:id
func (h *Handler) GetSession(c *fiber.Ctx) error {
	id, adapter, err := h.session(c)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, newViewResponse(id, adapter.View()))
}

// Search handles POST /api/v1/sessions/:id/search
func (h *Handler) Search(c *fiber.Ctx) error {
	id, adapter, err := h.session(c)
	if err != nil {
		return err
	}

	var req searchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid search body")
		}
	}
	if req.City == "" {
		req.City = c.Query("city")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "city is required")
	}

	view := adapter.FetchCurrent(c.UserContext(), req.City)
	return respond(c, fiber.StatusOK, newViewResponse(id, view))
}

// ToggleForecast handles POST /api/v1/sessions/:id/forecast/toggle
func (h *Handler) ToggleForecast(c *fiber.Ctx) error {
	id, adapter, err := h.session(c)
	if err != nil {
		return err
	}

	if !adapter.View().ShowResults() {
		return fiber.NewError(fiber.StatusConflict, "search for a city first")
	}

	view := adapter.ToggleForecast(c.UserContext())
	return respond(c, fiber.StatusOK, newViewResponse(id, view))
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *Handler) DeleteSession(c *fiber.Ctx) error {
	if !h.sessions.Delete(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"sessions":  h.sessions.GetStats(),
	}
	if h.sweeper != nil {
		health["sweeper"] = h.sweeper.GetStatus()
	}
	return c.JSON(health)
}

var startTime = time.Now()
