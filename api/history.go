package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prasetyowira/qrstudio/constant"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// ListHistory handles GET /api/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context())
	if err != nil {
		h.writeError(w, r, constant.CtxHandleHistory, err)
		return
	}

	WriteJSON(w, entries, http.StatusOK)
}

// GetHistory handles GET /api/history/{id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, constant.RouteParamID)

	entry, err := h.service.HistoryEntry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleHistory, err)
		return
	}

	WriteJSON(w, entry, http.StatusOK)
}

// HistoryPreview handles GET /api/history/{id}/preview
func (h *Handler) HistoryPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, constant.RouteParamID)

	png, err := h.service.HistoryPreview(r.Context(), id)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleHistory, err)
		return
	}

	w.Header().Set(constant.ContentTypeHeaderKey, constant.ContentTypePNG)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// RestoreHistory handles POST /api/history/{id}/restore. The body may be
// a multipart form carrying a logo; everything else comes from the entry.
func (h *Handler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, constant.RouteParamID)

	format, ok := h.requestedFormat(w, r, constant.CtxHandleHistory)
	if !ok {
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.badRequest(w, r, constant.CtxHandleHistory, err)
		return
	}

	res, err := h.service.RestoreHistory(ctx, id, req.Logo)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleHistory, err)
		return
	}

	h.writeResult(w, r, res, format, http.StatusCreated)
}

// ClearHistory handles DELETE /api/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.ClearHistory(ctx); err != nil {
		h.writeError(w, r, constant.CtxHandleHistory, err)
		return
	}

	appLogger.CtxInfo(ctx, "History cleared via API", appLogger.LoggerInfo{
		ContextFunction: constant.CtxHandleHistory,
	})
	w.WriteHeader(http.StatusNoContent)
}
