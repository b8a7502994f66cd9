package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type AnalysisRequest struct {
	Address  string `json:"address" validate:"required"`
	Industry string `json:"industry" validate:"required"`
}

// @Summary Commercial-district analysis
// @Description Resolves the address and industry, queries the open-data provider and falls back to synthesized data.
// @Tags analysis
// @Accept json
// @Produce json
// @Param body body AnalysisRequest true "address and industry"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/analysis [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "주소와 업종을 입력해주세요", err.Error())
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Industry = strings.TrimSpace(req.Industry)
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "주소와 업종을 입력해주세요", err.Error())
		return
	}

	res := h.Analysis.Analyze(c.Request.Context(), req.Address, req.Industry)
	c.JSON(http.StatusOK, res)
}
