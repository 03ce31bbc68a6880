package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docmanager/internal/app"
	"docmanager/internal/transport/http/response"
)

type IngestionHandler struct {
	ingestionService *app.IngestionService
}

type FailIngestionRequest struct {
	Error string `json:"error" binding:"max=512"`
}

func NewIngestionHandler(ingestionService *app.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestionService: ingestionService}
}

func (h *IngestionHandler) Trigger(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	ing, err := h.ingestionService.Trigger(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "trigger ingestion failed")
		}
		return
	}
	response.OK(c, ing)
}

func (h *IngestionHandler) Status(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	ing, err := h.ingestionService.GetStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "no ingestion record for document")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch ingestion status failed")
		}
		return
	}
	response.OK(c, ing)
}

func (h *IngestionHandler) AllStatus(c *gin.Context) {
	list, err := h.ingestionService.GetAllStatus()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list ingestion status failed")
		return
	}
	response.OK(c, list)
}

func (h *IngestionHandler) Complete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	ing, err := h.ingestionService.Complete(c.Request.Context(), id)
	if err != nil {
		h.writeTransitionError(c, err, "complete ingestion failed")
		return
	}
	response.OK(c, ing)
}

func (h *IngestionHandler) Fail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	// The body is optional; only a malformed one is rejected.
	var req FailIngestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
			return
		}
	}

	ing, err := h.ingestionService.Fail(c.Request.Context(), id, req.Error)
	if err != nil {
		h.writeTransitionError(c, err, "fail ingestion failed")
		return
	}
	response.OK(c, ing)
}

// writeTransitionError maps the state-machine failure taxonomy. A terminal
// record rejecting a transition is a caller defect, surfaced as a server
// error rather than a client one.
func (h *IngestionHandler) writeTransitionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "no ingestion record for document")
	case errors.Is(err, app.ErrInvalidTransition):
		response.Error(c, http.StatusInternalServerError, response.CodeInvalidTransition, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
