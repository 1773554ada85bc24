package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appMiddleware "github.com/prasetyowira/qrstudio/api/middleware"
	"github.com/prasetyowira/qrstudio/constant"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Router represents the application router
type Router struct {
	handler  *Handler
	router   *chi.Mux
	username string
	password string
}

// NewRouter creates a new router
func NewRouter(handler *Handler, username, password string) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler:  handler,
		router:   r,
		username: username,
		password: password,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	creds := map[string]string{
		r.username: r.password,
	}
	protected := r.router.With(middleware.BasicAuth(constant.BasicAuthRealm, creds))

	// Generation
	r.router.Post(constant.RouteQR, r.handler.GenerateQR)
	r.router.Get(constant.RouteQR, r.handler.SharedQR)
	r.router.Get(constant.RouteQRCurrent, r.handler.CurrentQR)
	r.router.Post(constant.RouteQRShare, r.handler.ShareLink)

	// History
	r.router.Get(constant.RouteHistory, r.handler.ListHistory)
	r.router.Get(constant.RouteHistoryItem, r.handler.GetHistory)
	r.router.Get(constant.RouteHistoryPreview, r.handler.HistoryPreview)
	r.router.Post(constant.RouteHistoryRestore, r.handler.RestoreHistory)
	protected.Delete(constant.RouteHistory, r.handler.ClearHistory)

	// Templates
	r.router.Get(constant.RouteTemplates, r.handler.ListTemplates)
	r.router.Post(constant.RouteTemplates, r.handler.SaveTemplate)
	r.router.Get(constant.RouteTemplateItem, r.handler.GetTemplate)
	protected.Delete(constant.RouteTemplateItem, r.handler.DeleteTemplate)

	// Diagnostics
	r.router.Get(constant.RouteStats, r.handler.Stats)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
