package api

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/studio"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
	"github.com/prasetyowira/qrstudio/infrastructure/export"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Studio is the service behind the HTTP handlers.
type Studio interface {
	Generate(ctx context.Context, req studio.Request) (*studio.Result, error)
	Current(ctx context.Context) (*studio.Snapshot, error)
	ShareLink(ctx context.Context, base string, req studio.Request) (string, error)

	History(ctx context.Context) ([]studio.HistoryEntry, error)
	HistoryEntry(ctx context.Context, id string) (*studio.HistoryEntry, error)
	HistoryPreview(ctx context.Context, id string) ([]byte, error)
	RestoreHistory(ctx context.Context, id string, logo []byte) (*studio.Result, error)
	ClearHistory(ctx context.Context) error

	SaveTemplate(ctx context.Context, name string, custom studio.Customization) (*studio.Template, error)
	Templates(ctx context.Context) ([]studio.Template, error)
	Template(ctx context.Context, id string) (*studio.Template, error)
	DeleteTemplate(ctx context.Context, id string) error

	CacheStats() cache.Stats
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service      Studio
	baseURL      string
	maxLogoBytes int64
}

// ShareLinkResponse is the response object for the share endpoint
type ShareLinkResponse struct {
	URL string `json:"url"`
}

// SaveTemplateRequest is the request object for the save template endpoint
type SaveTemplateRequest struct {
	Name          string               `json:"name"`
	Customization studio.Customization `json:"customization"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler. baseURL may be empty, in which
// case share links are built from the request host.
func NewHandler(service Studio, baseURL string, maxLogoBytes int) *Handler {
	return &Handler{
		service:      service,
		baseURL:      baseURL,
		maxLogoBytes: int64(maxLogoBytes),
	}
}

// decodeRequest reads a generation request from a JSON body, or from a
// multipart form carrying the JSON in the "request" field and an
// optional "logo" file.
func (h *Handler) decodeRequest(r *http.Request) (studio.Request, error) {
	var req studio.Request

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(constant.ContentTypeHeaderKey))
	if mediaType != "multipart/form-data" {
		if r.Body == nil || r.ContentLength == 0 {
			return req, nil
		}
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, err
	}

	if err := r.ParseMultipartForm(h.maxLogoBytes + 1<<20); err != nil {
		return req, err
	}
	if raw := r.FormValue(constant.FormRequest); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return req, err
		}
	}

	file, _, err := r.FormFile(constant.FormLogo)
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return req, err
	}
	defer file.Close()

	// one byte over the limit lets the decoder reject oversize logos
	req.Logo, err = io.ReadAll(io.LimitReader(file, h.maxLogoBytes+1))
	return req, err
}

// requestedFormat parses the "format" query parameter. On failure it
// writes the error response and returns false.
func (h *Handler) requestedFormat(w http.ResponseWriter, r *http.Request, fn string) (export.Format, bool) {
	format, err := export.ParseFormat(r.URL.Query().Get(constant.QueryFormat))
	if err != nil {
		h.writeError(w, r, fn, err)
		return "", false
	}
	return format, true
}

// writeResult sends a generation result as format.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, res *studio.Result, format export.Format, status int) {
	w.Header().Set(constant.HeaderToken, strconv.FormatUint(res.Token, 10))
	w.Header().Set(constant.HeaderDisplay, res.Payload.Display)
	w.Header().Set(constant.HeaderScannable, strconv.FormatBool(res.Scannable))
	if res.Cached {
		w.Header().Set(constant.HeaderCache, constant.CacheHit)
	} else {
		w.Header().Set(constant.HeaderCache, constant.CacheMiss)
	}
	if res.HistoryID != "" {
		w.Header().Set(constant.HeaderHistoryID, res.HistoryID)
	}
	if res.LogoFailed {
		w.Header().Set(constant.HeaderLogo, constant.LogoFailed)
	}

	h.writeImage(w, r, format, res.PNG, res.Surface, res.Customization.Background, status)
}

func (h *Handler) writeImage(w http.ResponseWriter, r *http.Request, format export.Format, png []byte, surface *image.RGBA, background string, status int) {
	w.Header().Set(constant.ContentTypeHeaderKey, format.ContentType())
	if format == export.FormatPNG && len(png) > 0 {
		w.WriteHeader(status)
		_, _ = w.Write(png)
		return
	}

	var bg color.Color = color.White
	if c, err := stylepipe.ParseHexColor(background); err == nil {
		bg = c
	}

	w.WriteHeader(status)
	if err := export.Write(w, format, surface, bg); err != nil {
		// headers are gone already, only log
		appLogger.CtxError(r.Context(), "Failed to write export", appLogger.LoggerInfo{
			ContextFunction: constant.CtxExport,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIExport,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataFormat: string(format),
			},
		})
	}
}

// writeError maps a domain error to a status code and writes it as JSON.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status, message := statusFor(err)

	info := appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIServiceError,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
		Data: map[string]interface{}{
			constant.DataStatus: status,
			constant.DataPath:   r.URL.Path,
		},
	}
	if status >= http.StatusInternalServerError {
		appLogger.CtxError(r.Context(), "Request failed", info)
	} else {
		appLogger.CtxInfo(r.Context(), "Request rejected", info)
	}

	WriteJSONError(w, message, status)
}

func statusFor(err error) (int, string) {
	var invalid *payload.ValidationError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case errors.Is(err, studio.ErrTemplateName),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, studio.ErrHistoryNotFound),
		errors.Is(err, studio.ErrTemplateNotFound),
		errors.Is(err, studio.ErrNoSurface):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, studio.ErrStaleRequest):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, constant.MsgInternalError
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, fn string, err error) {
	appLogger.CtxError(r.Context(), "Error decoding request body", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIDecodeRequest,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
	})
	WriteJSONError(w, constant.MsgInvalidRequest, http.StatusBadRequest)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(constant.ContentTypeHeaderKey, constant.ContentTypeJSON)
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
