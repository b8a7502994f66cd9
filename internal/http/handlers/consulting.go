package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bizon-consulting/backend/internal/models"
)

type ConsultingRequest struct {
	Budget     string `json:"budget" validate:"required"`
	Location   string `json:"location" validate:"required"`
	Industry   string `json:"industry" validate:"required"`
	Experience string `json:"experience"`
	Goals      string `json:"goals"`
}

type ChatRequest struct {
	Messages []models.ChatMessage   `json:"messages" validate:"required,min=1"`
	Context  models.ConsultingInput `json:"context"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

// @Summary Startup consulting
// @Tags consulting
// @Accept json
// @Produce json
// @Param body body ConsultingRequest true "consulting form"
// @Success 200 {object} models.ConsultingResult
// @Failure 400 {object} ErrorResponse
// @Router /api/consulting [post]
func (h *Handler) Consult(c *gin.Context) {
	var req ConsultingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "필수 항목을 입력해주세요", err.Error())
		return
	}
	req.Budget = strings.TrimSpace(req.Budget)
	req.Location = strings.TrimSpace(req.Location)
	req.Industry = strings.TrimSpace(req.Industry)
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "필수 항목을 입력해주세요", err.Error())
		return
	}

	res := h.Consulting.Consult(c.Request.Context(), models.ConsultingInput{
		Budget:     req.Budget,
		Location:   req.Location,
		Industry:   req.Industry,
		Experience: strings.TrimSpace(req.Experience),
		Goals:      strings.TrimSpace(req.Goals),
	})
	c.JSON(http.StatusOK, res)
}

// @Summary Consulting chat
// @Tags consulting
// @Accept json
// @Produce json
// @Param body body ChatRequest true "conversation and consulting context"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/consulting/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "메시지를 입력해주세요", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "메시지를 입력해주세요", err.Error())
		return
	}

	msg := h.Consulting.Reply(c.Request.Context(), req.Messages, req.Context)
	c.JSON(http.StatusOK, ChatResponse{Message: msg})
}
