package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/dto"
)

type JobHandler struct {
	service domain.JobService
}

func NewJobHandler(service domain.JobService) *JobHandler {
	return &JobHandler{service: service}
}

func (h *JobHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.GET("/jobs/:media_id", h.GetJob)
}

// GetJob GET /jobs/:media_id
func (h *JobHandler) GetJob(c *ginext.Context) {
	mediaID := strings.TrimSpace(c.Param("media_id"))
	if mediaID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "media_id is required",
		})
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), mediaID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MapJobToResponse(job))
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "no job recorded for media " + mediaID,
		})
	case errors.Is(err, domain.ErrLedgerDisabled):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "ledger_disabled",
			Message: "job ledger is not configured",
		})
	default:
		zlog.Logger.Error().Err(err).Str("media_id", mediaID).Msg("failed to load job")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to load job",
		})
	}
}
