package api

import (
	"net/http"
	"strings"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/studio"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// GenerateQR handles POST /api/qr
func (h *Handler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, ok := h.requestedFormat(w, r, constant.CtxHandleGenerate)
	if !ok {
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.badRequest(w, r, constant.CtxHandleGenerate, err)
		return
	}

	appLogger.CtxDebug(ctx, "Handling generate request", appLogger.LoggerInfo{
		ContextFunction: constant.CtxHandleGenerate,
		Data: map[string]interface{}{
			constant.DataKind:  string(req.Kind),
			constant.DataBytes: len(req.Logo),
		},
	})

	res, err := h.service.Generate(ctx, req)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleGenerate, err)
		return
	}

	h.writeResult(w, r, res, format, http.StatusCreated)
}

// SharedQR handles GET /api/qr, regenerating a code from share link
// parameters.
func (h *Handler) SharedQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, ok := h.requestedFormat(w, r, constant.CtxHandleShared)
	if !ok {
		return
	}

	req, err := studio.ParseShareQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, constant.CtxHandleShared, err)
		return
	}

	res, err := h.service.Generate(ctx, req)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleShared, err)
		return
	}

	h.writeResult(w, r, res, format, http.StatusOK)
}

// CurrentQR handles GET /api/qr/current
func (h *Handler) CurrentQR(w http.ResponseWriter, r *http.Request) {
	format, ok := h.requestedFormat(w, r, constant.CtxHandleCurrent)
	if !ok {
		return
	}

	snap, err := h.service.Current(r.Context())
	if err != nil {
		h.writeError(w, r, constant.CtxHandleCurrent, err)
		return
	}

	w.Header().Set(constant.HeaderDisplay, snap.Payload.Display)
	h.writeImage(w, r, format, snap.PNG, snap.Surface, snap.Customization.Background, http.StatusOK)
}

// ShareLink handles POST /api/qr/share
func (h *Handler) ShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeRequest(r)
	if err != nil {
		h.badRequest(w, r, constant.CtxHandleShareLink, err)
		return
	}

	link, err := h.service.ShareLink(ctx, h.shareBase(r), req)
	if err != nil {
		h.writeError(w, r, constant.CtxHandleShareLink, err)
		return
	}

	WriteJSON(w, ShareLinkResponse{URL: link}, http.StatusOK)
}

// Stats handles GET /api/stats, reporting render cache usage.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.service.CacheStats(), http.StatusOK)
}

// shareBase is the configured base URL, or the address the request came
// in on.
func (h *Handler) shareBase(r *http.Request) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + constant.RouteQR
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + constant.RouteQR
}
