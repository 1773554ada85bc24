package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prasetyowira/qrstudio/constant"
)

// ListTemplates handles GET /api/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.service.Templates(r.Context())
	if err != nil {
		h.writeError(w, r, constant.CtxHandleTemplates, err)
		return
	}

	WriteJSON(w, tpls, http.StatusOK)
}

// SaveTemplate handles POST /api/templates
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, constant.CtxHandleTemplates, err)
		return
	}

	tpl, err := h.service.SaveTemplate(r.Context(), req.Name, req.Customization)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleTemplates, err)
		return
	}

	WriteJSON(w, tpl, http.StatusCreated)
}

// GetTemplate handles GET /api/templates/{id}
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.Template(r.Context(), chi.URLParam(r, constant.RouteParamID))
	if err != nil {
		h.writeError(w, r, constant.CtxHandleTemplates, err)
		return
	}

	WriteJSON(w, tpl, http.StatusOK)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTemplate(r.Context(), chi.URLParam(r, constant.RouteParamID)); err != nil {
		h.writeError(w, r, constant.CtxHandleTemplates, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
