package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/matcher"
	"github.com/chandas-creator/chandas/internal/web/middleware"
	"github.com/chandas-creator/chandas/internal/web/response"
)

func (h *Handler) listChandas(w http.ResponseWriter, r *http.Request) {
	snap := h.catalogue.Snapshot()
	response.RenderSuccess(w, "Fetched all Chandas successfully", response.Envelope{
		"data":     snap.Entries(),
		"count":    snap.Len(),
		"source":   snap.Source(),
		"fallback": snap.Fallback(),
	})
}

func (h *Handler) showChandas(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap := h.catalogue.Snapshot()

	entry, ok := snap.Lookup(name)
	if !ok {
		response.RenderErrorWithDetails(w, http.StatusNotFound,
			fmt.Errorf("Unknown chandas %q", name),
			map[string]any{"suggestions": matcher.Suggest(name, snap.Names(), 0, 0)},
		)
		return
	}

	response.RenderSuccess(w, "Fetched Chandas successfully", response.Envelope{"data": entry})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.catalogue.Reload(r.Context())
	if err != nil {
		h.logger.Error("catalogue reload failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		response.RenderErrorWithDetails(w, http.StatusInternalServerError,
			errors.New("Chandas DB reload failed"),
			map[string]any{"count": snap.Len(), "source": snap.Source(), "fallback": snap.Fallback()},
		)
		return
	}

	h.logger.Info("catalogue reloaded",
		zap.String("subject", middleware.GetSubject(r.Context())),
		zap.Int("entries", snap.Len()),
	)
	response.RenderSuccess(w, "Chandas DB reloaded", response.Envelope{
		"count":    snap.Len(),
		"source":   snap.Source(),
		"fallback": snap.Fallback(),
	})
}
