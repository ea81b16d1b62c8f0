package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"AutoPublisher/internal/metrics"
	"AutoPublisher/internal/ports"
)

// PromptRequest is the body accepted by the generation routes.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// ErrorResponse is returned with 4xx/5xx codes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateHandler forwards prompts to the text generator.
type GenerateHandler struct {
	generator ports.TextGenerator
	logger    *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(gen ports.TextGenerator, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{generator: gen, logger: logger}
}

// GenerateText handles POST /generate-text and answers {generatedText}.
func (h *GenerateHandler) GenerateText(c *gin.Context) {
	h.forward(c, "/generate-text", "generatedText")
}

// Chat handles POST /chat and answers {response}.
func (h *GenerateHandler) Chat(c *gin.Context) {
	h.forward(c, "/chat", "response")
}

func (h *GenerateHandler) forward(c *gin.Context, route, key string) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		h.respondError(c, route, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("generation request failed", "route", route, "error", err)
		h.respondError(c, route, http.StatusInternalServerError, "generation failed")
		return
	}

	metrics.GenerateRequestsTotal.WithLabelValues(route, strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, gin.H{key: text})
}

func (h *GenerateHandler) respondError(c *gin.Context, route string, status int, msg string) {
	metrics.GenerateRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.JSON(status, ErrorResponse{Error: msg})
}
