package constant

// Style pipeline error codes
const (
	// Pipeline - Input errors (0xx)
	ErrCodeInvalidDimension = "STY001"
	ErrCodeSourceNotReady   = "STY002"

	// Pipeline - Logo errors (1xx)
	ErrCodeLogoDecode = "STY101"

	// Pipeline - Lifecycle errors (2xx)
	ErrCodePipelineUsed = "STY201"
)

// Studio service error codes
const (
	// Studio - Validation errors (1xx)
	ErrCodeInvalidPayload = "SVC101"
	ErrCodeInvalidColor   = "SVC102"

	// Studio - Render errors (2xx)
	ErrCodeRenderFailure = "SVC201"
	ErrCodeStaleRequest  = "SVC202"
	ErrCodeEncodeFailure = "SVC203"
	ErrCodeNotScannable  = "SVC204"

	// Studio - Storage errors (3xx)
	ErrCodeHistoryStore    = "SVC301"
	ErrCodeHistoryNotFound = "SVC302"
	ErrCodeTemplateStore   = "SVC303"
	ErrCodeTemplateMissing = "SVC304"
	ErrCodeNoSurface       = "SVC305"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// History errors (1xx)
	ErrCodeDBHistoryInsert = "DB101"
	ErrCodeDBHistoryLookup = "DB102"
	ErrCodeDBHistoryTrim   = "DB103"
	ErrCodeDBHistoryClear  = "DB104"

	// Template errors (2xx)
	ErrCodeDBTemplateInsert = "DB201"
	ErrCodeDBTemplateLookup = "DB202"
	ErrCodeDBTemplateDelete = "DB203"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeRender     = "render"
	ErrTypeStorage    = "storage"
	ErrTypeRetrieval  = "retrieval"
	ErrTypePipeline   = "pipeline"

	// Infrastructure error types
	ErrTypeDB = "db"
)
