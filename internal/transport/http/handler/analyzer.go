package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medichat/internal/app"
	"medichat/internal/transport/http/middleware"
	"medichat/internal/transport/http/response"
)

type AnalyzerHandler struct {
	analyzerService *app.AnalyzerService
}

type PredictRequest struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
}

func NewAnalyzerHandler(analyzerService *app.AnalyzerService) *AnalyzerHandler {
	return &AnalyzerHandler{analyzerService: analyzerService}
}

func (h *AnalyzerHandler) Predict(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	record, err := h.analyzerService.Predict(c.Request.Context(), userID, req.Symptoms)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSymptomsEmpty):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "analyze symptoms failed")
		}
		return
	}

	response.OK(c, record)
}

func (h *AnalyzerHandler) ListPredictions(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	predictions, err := h.analyzerService.ListPredictions(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list predictions failed")
		return
	}

	response.OK(c, predictions)
}

func (h *AnalyzerHandler) ListAllPredictions(c *gin.Context) {
	predictions, err := h.analyzerService.ListAllPredictions()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list predictions failed")
		return
	}

	response.OK(c, predictions)
}

func (h *AnalyzerHandler) GetPrediction(c *gin.Context) {
	userID, predictionID, ok := h.callerAndID(c)
	if !ok {
		return
	}

	prediction, err := h.analyzerService.GetPrediction(predictionID, userID, c.GetString(middleware.ContextRoleKey))
	if err != nil {
		h.renderPredictionError(c, err)
		return
	}

	response.OK(c, prediction)
}

func (h *AnalyzerHandler) GetPredictionPDF(c *gin.Context) {
	userID, predictionID, ok := h.callerAndID(c)
	if !ok {
		return
	}

	pdfBytes, err := h.analyzerService.PredictionPDF(predictionID, userID, c.GetString(middleware.ContextRoleKey))
	if err != nil {
		h.renderPredictionError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=prediction-%d.pdf", predictionID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *AnalyzerHandler) Health(c *gin.Context) {
	response.OK(c, h.analyzerService.Health(c.Request.Context()))
}

func (h *AnalyzerHandler) callerAndID(c *gin.Context) (userID, predictionID uint, ok bool) {
	userID, idOK := getUserIDFromContext(c)
	if !idOK {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return 0, 0, false
	}

	predictionID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || predictionID64 == 0 {
		response.Error(c, http.StatusBadRequest, "invalid prediction id")
		return 0, 0, false
	}
	return userID, uint(predictionID64), true
}

func (h *AnalyzerHandler) renderPredictionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrPredictionNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "fetch prediction failed")
	}
}
