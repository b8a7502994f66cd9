package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/bizon-consulting/backend/internal/sbiz"
)

// UpstreamProbeRequest names one endpoint. Address and industry are
// resolved into that endpoint's default parameters; Params override them.
type UpstreamProbeRequest struct {
	Endpoint string            `json:"endpoint" validate:"required"`
	Address  string            `json:"address"`
	Industry string            `json:"industry"`
	AnalyNo  string            `json:"analyNo"`
	Params   map[string]string `json:"params"`
}

// @Summary Probe one open-data endpoint
// @Tags debug
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Param body body UpstreamProbeRequest true "endpoint key and query parameters"
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/debug/upstream [post]
func (h *Handler) DebugUpstream(c *gin.Context) {
	var req UpstreamProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	target := sbiz.Target{
		Location: h.Codes.ResolveLocation(req.Address),
		Industry: h.Codes.ResolveIndustry(req.Industry).IndustryCodes,
		AnalyNo:  req.AnalyNo,
	}
	params, ok := sbiz.DefaultParams(req.Endpoint, target, h.now())
	if !ok {
		params = url.Values{}
	}
	for k, v := range req.Params {
		params.Set(k, v)
	}
	raw, err := h.Upstream.Call(c.Request.Context(), req.Endpoint, params)
	if err != nil {
		details := gin.H{"endpoint": req.Endpoint, "params": params}
		var se *sbiz.StatusError
		if errors.As(err, &se) {
			details["status"] = se.Status
			details["url"] = se.URL
		}
		h.Logger.Warn().Err(err).Str("endpoint", req.Endpoint).Msg("upstream probe failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"endpoint": req.Endpoint,
			"success":  false,
			"error": gin.H{
				"code":    "UPSTREAM_ERROR",
				"message": err.Error(),
				"details": details,
			},
		})
		return
	}

	var data any = json.RawMessage(raw)
	if !json.Valid(raw) {
		data = string(raw)
	}
	c.JSON(http.StatusOK, gin.H{
		"endpoint": req.Endpoint,
		"success":  true,
		"params":   params,
		"data":     data,
	})
}
