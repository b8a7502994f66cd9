package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bizon-consulting/backend/internal/codes"
	"github.com/bizon-consulting/backend/internal/models"
)

type Analyzer interface {
	Analyze(ctx context.Context, address, industry string) models.AnalysisResult
}

type Consultant interface {
	Consult(ctx context.Context, in models.ConsultingInput) models.ConsultingResult
	Reply(ctx context.Context, messages []models.ChatMessage, c models.ConsultingInput) string
}

type UpstreamProbe interface {
	Call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// CodeResolver is satisfied by *codes.Resolver.
type CodeResolver interface {
	Menu() []codes.IndustryEntry
	ResolveLocation(text string) codes.Location
	ResolveIndustry(text string) codes.Industry
}

type Handler struct {
	Analysis     Analyzer
	Consulting   Consultant
	Upstream     UpstreamProbe
	Codes        CodeResolver
	Validator    *validator.Validate
	Logger       zerolog.Logger
	MapWidgetKey string
	Now          func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Public configuration for the presentation layer
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/public-config [get]
func (h *Handler) PublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mapWidgetKey": h.MapWidgetKey})
}

// @Summary Industry menu with provider codes
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/industries [get]
func (h *Handler) IndustriesList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"industries": h.Codes.Menu()})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
