package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/http/middleware"
	"github.com/ticketlens/backend/internal/models"
	"github.com/ticketlens/backend/internal/service"
	"github.com/ticketlens/backend/internal/warehouse"
)

type Answerer interface {
	Answer(ctx context.Context, query string) (models.QueryResponse, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Service        Answerer
	Warehouse      Pinger
	Models         ai.ModelLister
	Validator      *validator.Validate
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	// Dev exposes internal error detail in response text.
	Dev bool
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
	Count  int      `json:"count"`
}

// TestResponse is the fixed payload of the connectivity check endpoint.
type TestResponse struct {
	Text  string        `json:"text"`
	Chart *models.Chart `json:"chart"`
}

// @Summary Service status
// @Tags system
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "Ticket insights API running"})
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := h.Warehouse.Ping(ctx); err != nil {
		h.Logger.Error().Err(err).Msg("warehouse ping failed")
		writeError(c, http.StatusServiceUnavailable, "WAREHOUSE_UNAVAILABLE", "Warehouse unavailable", h.detail("Warehouse unavailable", err))
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// @Summary Echo test
// @Description Echoes the submitted query with a static chart
// @Tags query
// @Accept json
// @Produce json
// @Param request body models.QueryRequest false "query"
// @Success 200 {object} TestResponse
// @Router /api/test [post]
func (h *Handler) Test(c *gin.Context) {
	var req models.QueryRequest
	_ = c.ShouldBindJSON(&req)
	q := strings.TrimSpace(req.Query)
	if q == "" {
		q = "sin query"
	}
	c.JSON(http.StatusOK, TestResponse{
		Text: "Backend funcionando. Recibí: " + q,
		Chart: &models.Chart{
			Labels: []string{"Tickets Abiertos", "Tickets Cerrados", "En Proceso"},
			Values: []float64{25, 45, 8},
		},
	})
}

// @Summary Ask a question about tickets
// @Description Classifies the question, runs SQL against the warehouse and returns a narrated answer with chart data
// @Tags query
// @Accept json
// @Produce json
// @Param request body models.QueryRequest true "question"
// @Success 200 {object} models.QueryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 408 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/query [post]
func (h *Handler) Query(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", "La solicitud no es válida.")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Query too long", "La consulta es demasiado larga.")
		return
	}

	ctx := c.Request.Context()
	if h.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RequestTimeout)
		defer cancel()
	}

	resp, err := h.Service.Answer(ctx, req.Query)
	if err != nil {
		h.Logger.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Str("query", req.Query).Msg("query failed")
		h.writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List generative models
// @Tags system
// @Produce json
// @Param X-Admin-Key header string false "admin key"
// @Success 200 {object} ModelsResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/list-models [get]
func (h *Handler) ListModels(c *gin.Context) {
	if h.Models == nil {
		writeError(c, http.StatusServiceUnavailable, "GENAI_DISABLED", "Generative model is not configured", "El modelo generativo no está configurado.")
		return
	}
	ids, err := h.Models.ListModels(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("list models failed")
		writeError(c, http.StatusBadGateway, "GENAI_ERROR", "Failed to list models", h.detail("No se pudieron listar los modelos.", err))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ModelsResponse{Models: ids, Count: len(ids)})
}

func (h *Handler) writeQueryError(c *gin.Context, err error) {
	switch {
	// a deadline hit while generating SQL also wraps ErrNoSQL
	case errors.Is(err, warehouse.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusRequestTimeout, "TIMEOUT", "Query timed out",
			h.detail("La consulta tardó demasiado. Intenta con una pregunta más específica.", err))
	case errors.Is(err, service.ErrNoSQL):
		writeError(c, http.StatusBadRequest, "NO_SQL", "Could not build a query for the question",
			h.detail("No pude generar una consulta válida para tu pregunta.", err))
	default:
		writeError(c, http.StatusInternalServerError, "QUERY_FAILED", "Query failed",
			h.detail("Error consultando datos.", err))
	}
}

func (h *Handler) detail(text string, err error) string {
	if h.Dev && err != nil {
		return text + " (" + err.Error() + ")"
	}
	return text
}

func writeError(c *gin.Context, status int, code string, message string, text string) {
	c.JSON(status, models.ErrorResponse{
		Text:  text,
		Chart: nil,
		Error: models.ErrorBody{Code: code, Message: message},
	})
}
