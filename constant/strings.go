package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
	HeaderDisplay   = "X-QR-Display"
	HeaderScannable = "X-QR-Scannable"
	HeaderCache     = "X-QR-Cache"
	HeaderToken     = "X-QR-Token"
	HeaderLogo      = "X-QR-Logo"
	HeaderHistoryID = "X-QR-History-ID"
)

// Function/Context names
const (
	// Domain context names
	CtxPipeline      = "Pipeline"
	CtxExtractGrid   = "ExtractGrid"
	CtxComposite     = "Composite"
	CtxOverlayLogo   = "OverlayLogo"
	CtxStudio        = "studio"
	CtxGenerate      = "Generate"
	CtxHistory       = "History"
	CtxTemplates     = "Templates"
	CtxShareLink     = "ShareLink"
	CtxCurrent       = "Current"
	CtxRestore       = "RestoreHistory"
	CtxRender        = "Render"
	CtxDecodeLogo    = "DecodeLogo"
	CtxVerify        = "Verify"
	CtxExport        = "Export"
	CtxPayload       = "Payload"
	CtxDB            = "db"
	CtxAddHistory    = "AddHistory"
	CtxListHistory   = "ListHistory"
	CtxGetHistory    = "GetHistory"
	CtxClearHistory  = "ClearHistory"
	CtxSaveTemplate  = "SaveTemplate"
	CtxListTemplates = "ListTemplates"
	CtxGetTemplate   = "GetTemplate"
	CtxDelTemplate   = "DeleteTemplate"
	CtxClose         = "Close"
	CtxAPI           = "api"

	// Handler context names
	CtxHandleGenerate  = "HandleGenerate"
	CtxHandleShared    = "HandleSharedQR"
	CtxHandleCurrent   = "HandleCurrent"
	CtxHandleShareLink = "HandleShareLink"
	CtxHandleHistory   = "HandleHistory"
	CtxHandleTemplates = "HandleTemplates"

	// General context names
	CtxRouter = "Router"
	CtxMain   = "Main"
)

// Data field keys
const (
	// Pipeline data fields
	DataSide      = "side"
	DataCellSize  = "cell_size"
	DataStyle     = "style"
	DataGradient  = "gradient"
	DataModules   = "modules"
	DataState     = "state"
	DataLogoSide  = "logo_side"
	DataLogoRatio = "logo_ratio"

	// Studio data fields
	DataService    = "service"
	DataKind       = "kind"
	DataDisplay    = "display"
	DataToken      = "token"
	DataLatest     = "latest"
	DataCacheKey   = "cache_key"
	DataCacheHit   = "cache_hit"
	DataScannable  = "scannable"
	DataSize       = "size"
	DataErrorLevel = "error_level"
	DataHistoryID  = "history_id"
	DataTemplateID = "template_id"
	DataName       = "name"
	DataFormat     = "format"
	DataBytes      = "bytes"
	DataLimit      = "limit"
	DataField      = "field"

	// Database data fields
	DataPath         = "path"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// API data fields
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
	DataContentType = "content_type"
	DataImageBytes  = "image_bytes"
	DataCache       = "cache"
	DataLogo        = "logo"
)

// Error message constants
const (
	ErrInvalidDimension = "symbol too small to derive a module grid"
	ErrSourceNotReady   = "rendered symbol has no pixel buffer"
	ErrLogoDecode       = "logo image failed to decode"
	ErrPipelineUsed     = "pipeline has already run"
	ErrStaleRequest     = "request superseded by a newer generation"
	ErrHistoryNotFound  = "history entry not found"
	ErrTemplateNotFound = "template not found"
	ErrTemplateName     = "template name cannot be empty"
	ErrNoSurface        = "no QR code has been generated yet"
	ErrUnknownFormat    = "unsupported export format"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIExport         = "API003"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types
const (
	ErrTypeDomain = "domain"
	ErrTypeAPI    = "api"
	ErrTypeApp    = "application"
)

// API routes
const (
	RouteQR              = "/api/qr"
	RouteQRCurrent       = "/api/qr/current"
	RouteQRShare         = "/api/qr/share"
	RouteHistory         = "/api/history"
	RouteHistoryItem     = "/api/history/{id}"
	RouteHistoryPreview  = "/api/history/{id}/preview"
	RouteHistoryRestore  = "/api/history/{id}/restore"
	RouteTemplates       = "/api/templates"
	RouteTemplateItem    = "/api/templates/{id}"
	RouteStats           = "/api/stats"
	RouteHealthcheck     = "/health"
	RouteParamID         = "id"
	BasicAuthRealm       = "qrstudio"
	QueryFormat          = "format"
	FormRequest          = "request"
	FormLogo             = "logo"
	CacheHit             = "HIT"
	CacheMiss            = "MISS"
	LogoApplied          = "applied"
	LogoFailed           = "failed"
	DefaultExportFormat  = "png"
	ContentTypeJSON      = "application/json"
	ContentTypePNG       = "image/png"
	ContentTypeJPEG      = "image/jpeg"
	ContentTypeSVG       = "image/svg+xml"
	ContentTypeHTML      = "text/html; charset=utf-8"
	ContentTypeHeaderKey = "Content-Type"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Message constants for application
const (
	MsgApplicationStarting = "Application starting"
	MsgFailedToInitDB      = "Failed to initialize database"
	MsgServerStarting      = "Server starting"
	MsgServerFailedToStart = "Server failed to start"
	MsgServerShuttingDown  = "Server shutting down"
	MsgServerShutdownError = "Error during server shutdown"
	MsgServerStopped       = "Server stopped"
	MsgRequestReceived     = "Request received"
	MsgRequestCompleted    = "Request completed"
	MsgSettingUpRoutes     = "Setting up API routes"
	MsgHealthcheckRequest  = "Handling healthcheck request"
	MsgHealthy             = "Healthy"
	MsgInvalidRequest      = "Invalid request format"
	MsgInternalError       = "Internal server error"
)

// Cache Namespace
const (
	RenderNamespace  = "RENDER"
	PreviewNamespace = "PREVIEW"
)
