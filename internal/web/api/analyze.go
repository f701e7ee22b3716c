package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/analysis"
	"github.com/chandas-creator/chandas/internal/web/middleware"
	"github.com/chandas-creator/chandas/internal/web/response"
)

// CacheHeader reports whether an analysis came from the cache
const CacheHeader = "X-Cache"

type analyzeRequest struct {
	Shloka string `json:"shloka"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RenderBadRequest(w, err.Error())
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), req.Shloka)
	if err != nil {
		if analysis.IsInvalidInput(err) {
			response.RenderBadRequest(w, err.Error())
			return
		}
		h.logger.Error("analysis failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		response.RenderInternalError(w)
		return
	}

	if report.Cached {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
	response.RenderSuccess(w, "Chandas analysis successful", response.Envelope{"analysis": report})
}
