// Package studio generates styled QR codes and keeps the generation
// history and style templates.
package studio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

var (
	ErrStaleRequest     = errors.New(constant.ErrStaleRequest)
	ErrHistoryNotFound  = errors.New(constant.ErrHistoryNotFound)
	ErrTemplateNotFound = errors.New(constant.ErrTemplateNotFound)
	ErrTemplateName     = errors.New(constant.ErrTemplateName)
	ErrNoSurface        = errors.New(constant.ErrNoSurface)
)

// RenderRequest is what a RenderSource needs to draw a plain symbol.
type RenderRequest struct {
	Content    string
	Size       int
	Level      ErrorLevel
	Foreground color.RGBA
	Background color.RGBA
}

// RenderResult is the completion signal of an asynchronous render.
type RenderResult struct {
	Symbol *stylepipe.RenderedSymbol
	Err    error
}

// RenderSource draws plain QR symbols. The returned channel yields exactly
// one result and is then closed.
type RenderSource interface {
	Render(ctx context.Context, req RenderRequest) <-chan RenderResult
}

// LogoDecoder decodes uploaded logo bytes. The returned channel yields
// exactly one result and is then closed.
type LogoDecoder interface {
	Decode(ctx context.Context, data []byte) <-chan stylepipe.DecodedImage
}

// Verifier reads QR symbols back out of a finished surface.
type Verifier interface {
	Verify(img image.Image) ([]string, error)
}

// Repository persists history entries and templates.
type Repository interface {
	// AddHistory stores entry newest-first, replacing any entry with the
	// same kind and data and keeping at most limit entries.
	AddHistory(ctx context.Context, entry *HistoryEntry, limit int) error
	ListHistory(ctx context.Context) ([]HistoryEntry, error)
	GetHistory(ctx context.Context, id string) (*HistoryEntry, error)
	ClearHistory(ctx context.Context) error

	SaveTemplate(ctx context.Context, tpl *Template) error
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// HistoryEntry is one past generation.
type HistoryEntry struct {
	ID            string        `json:"id"`
	Kind          payload.Kind  `json:"type"`
	Data          string        `json:"data"`
	Display       string        `json:"display"`
	Preview       []byte        `json:"-"`
	Customization Customization `json:"customization"`
	CreatedAt     time.Time     `json:"timestamp"`
}

// Template is a named customization preset. Logos are never stored.
type Template struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Customization Customization `json:"customization"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Request asks for one generation. When Data is set it is encoded as is
// and Input is ignored.
type Request struct {
	Kind          payload.Kind  `json:"type"`
	Input         payload.Input `json:"input"`
	Data          string        `json:"data,omitempty"`
	Customization Customization `json:"customization"`
	Logo          []byte        `json:"-"`
}

// Rendering is a finished, encoded generation.
type Rendering struct {
	PNG        []byte
	Surface    *image.RGBA
	Scannable  bool
	LogoFailed bool
}

// Result is returned by Generate.
type Result struct {
	Token         uint64          `json:"token"`
	Payload       payload.Payload `json:"payload"`
	Customization Customization   `json:"customization"`
	PNG           []byte          `json:"-"`
	Surface       *image.RGBA     `json:"-"`
	Scannable     bool            `json:"scannable"`
	Cached        bool            `json:"cached"`
	LogoFailed    bool            `json:"logo_failed"`
	HistoryID     string          `json:"history_id,omitempty"`
}

// Snapshot is the most recently published generation.
type Snapshot struct {
	Token         uint64
	Payload       payload.Payload
	Customization Customization
	Surface       *image.RGBA
	PNG           []byte
	PublishedAt   time.Time
}

// Options tunes the service.
type Options struct {
	MaxHistory       int
	DefaultSize      int
	MinSize          int
	MaxSize          int
	LogoPadding      int
	LogoCornerRadius int
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		MaxHistory:       15,
		DefaultSize:      256,
		MinSize:          128,
		MaxSize:          512,
		LogoPadding:      stylepipe.DefaultLogoPadding,
		LogoCornerRadius: stylepipe.DefaultLogoCornerRadius,
	}
}

// Service is the QR studio. Only one generation is active at a time: a
// new Generate call cancels the one in flight, whose result is dropped.
type Service struct {
	repo     Repository
	source   RenderSource
	logos    LogoDecoder
	verifier Verifier
	cache    *cache.NamespaceLRU[*Rendering]
	opts     Options

	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	latest  uint64
	cancel  context.CancelFunc
	current *Snapshot
}

// NewService creates a new studio service. verifier may be nil, in which
// case results are never marked scannable.
func NewService(repo Repository, source RenderSource, logos LogoDecoder, verifier Verifier, lru *cache.NamespaceLRU[*Rendering], opts Options) *Service {
	ctx := logger.NewRequestContext()

	logger.CtxDebug(ctx, "Creating studio service", logger.LoggerInfo{
		ContextFunction: constant.CtxStudio,
		Data: map[string]interface{}{
			constant.DataService: "studio",
			constant.DataLimit:   opts.MaxHistory,
		},
	})

	return &Service{
		repo:     repo,
		source:   source,
		logos:    logos,
		verifier: verifier,
		cache:    lru,
		opts:     opts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Current returns the latest published generation.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()

	if snap == nil {
		logger.CtxDebug(ctx, "No surface published yet", logger.LoggerInfo{
			ContextFunction: constant.CtxCurrent,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeNoSurface,
				Message: constant.ErrNoSurface,
				Type:    constant.ErrTypeRetrieval,
			},
		})
		return nil, ErrNoSurface
	}
	return snap, nil
}

// CacheStats reports render cache usage.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// begin issues a new request token and cancels the request in flight.
func (s *Service) begin(ctx context.Context) (context.Context, uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.latest++
	token := s.latest

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	return runCtx, token, func() {
		s.mu.Lock()
		if s.latest == token {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

func (s *Service) stale(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != s.latest
}

// publish makes snap current unless a newer request has started.
func (s *Service) publish(token uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest {
		return false
	}
	s.current = snap
	return true
}
