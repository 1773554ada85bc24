package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"github.com/prasetyowira/qrstudio/constant"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// RequestLogger tags each request with an id, echoes it in the
// X-Request-ID header and logs the request and its outcome. Image
// responses are logged with their format and the generation headers
// instead of a plain byte count.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ctx := appLogger.WithRequestID(r.Context(), requestID)
			w.Header().Set(constant.HeaderRequestID, requestID)

			appLogger.CtxInfo(ctx, constant.MsgRequestReceived, appLogger.LoggerInfo{
				ContextFunction: constant.CtxAPI,
				Data: map[string]interface{}{
					constant.DataMethod:     r.Method,
					constant.DataPath:       r.URL.Path,
					constant.DataRemoteAddr: r.RemoteAddr,
					constant.DataUserAgent:  r.UserAgent(),
				},
			})

			ww := newStatusResponseWriter(w)

			startTime := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			latency := time.Since(startTime)

			info := appLogger.LoggerInfo{
				ContextFunction: constant.CtxAPI,
				Data:            completionData(r, ww, latency),
			}
			switch completionLevel(ww.status) {
			case zapcore.ErrorLevel:
				appLogger.CtxError(ctx, constant.MsgRequestCompleted, info)
			case zapcore.WarnLevel:
				appLogger.CtxWarn(ctx, constant.MsgRequestCompleted, info)
			default:
				appLogger.CtxInfo(ctx, constant.MsgRequestCompleted, info)
			}
		})
	}
}

// completionLevel maps a response status to a log level. A 409 only
// means a newer generation replaced this one, so it stays at info.
func completionLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusConflict:
		return zapcore.InfoLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

func completionData(r *http.Request, ww *statusResponseWriter, latency time.Duration) map[string]interface{} {
	contentType := ww.Header().Get(constant.ContentTypeHeaderKey)
	data := map[string]interface{}{
		constant.DataStatus:      ww.status,
		constant.DataLatency:     latency.String(),
		constant.DataMethod:      r.Method,
		constant.DataPath:        r.URL.Path,
		constant.DataContentType: contentType,
	}

	if !isRendered(contentType) {
		data[constant.DataBytes] = ww.size
		return data
	}

	data[constant.DataImageBytes] = ww.size
	if format := r.URL.Query().Get(constant.QueryFormat); format != "" {
		data[constant.DataFormat] = format
	}
	headers := map[string]string{
		constant.DataToken: constant.HeaderToken,
		constant.DataCache: constant.HeaderCache,
		constant.DataLogo:  constant.HeaderLogo,
	}
	for field, header := range headers {
		if v := ww.Header().Get(header); v != "" {
			data[field] = v
		}
	}
	return data
}

// isRendered reports whether contentType is one of the QR exports.
func isRendered(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == constant.ContentTypeHTML
}

// statusResponseWriter captures the status code and response size
type statusResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// WriteHeader captures the status code
func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write captures the response size
func (w *statusResponseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.size += size
	return size, err
}
