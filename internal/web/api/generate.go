package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/verify"
	"github.com/chandas-creator/chandas/internal/web/middleware"
	"github.com/chandas-creator/chandas/internal/web/response"
)

// generateAndVerify returns the outcome with 200 even when no attempt
// passed; Success and Error in the body say how the run ended.
func (h *Handler) generateAndVerify(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil || !h.verifier.Available() {
		response.RenderServiceUnavailable(w, "Verse generation is not configured")
		return
	}

	var req verify.Request
	if err := decodeJSON(w, r, &req); err != nil {
		response.RenderBadRequest(w, err.Error())
		return
	}

	outcome, err := h.verifier.Run(r.Context(), req)
	switch {
	case errors.Is(err, verify.ErrMissingMeter):
		response.RenderBadRequest(w, "Field 'chandas' is required")
		return
	case errors.Is(err, verify.ErrNoGenerator):
		response.RenderServiceUnavailable(w, "Verse generation is not configured")
		return
	case err != nil:
		h.logger.Error("generate-and-verify failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		response.RenderInternalError(w)
		return
	}

	response.RenderJSON(w, http.StatusOK, outcome)
}
