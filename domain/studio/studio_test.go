package studio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
)

// Mock repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddHistory(ctx context.Context, entry *HistoryEntry, limit int) error {
	args := m.Called(ctx, entry, limit)
	return args.Error(0)
}

func (m *MockRepository) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func (m *MockRepository) GetHistory(ctx context.Context, id string) (*HistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HistoryEntry), args.Error(1)
}

func (m *MockRepository) ClearHistory(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) SaveTemplate(ctx context.Context, tpl *Template) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockRepository) ListTemplates(ctx context.Context) ([]Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Template), args.Error(1)
}

func (m *MockRepository) GetTemplate(ctx context.Context, id string) (*Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Template), args.Error(1)
}

func (m *MockRepository) DeleteTemplate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock verifier for testing
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(img image.Image) ([]string, error) {
	args := m.Called(img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// fakeSource renders a fixed symbol. With blockFirst, the first call
// waits for its context to be cancelled.
type fakeSource struct {
	mu         sync.Mutex
	calls      int
	blockFirst bool
	started    chan int
	sym        *stylepipe.RenderedSymbol
	err        error
}

func (f *fakeSource) Render(ctx context.Context, _ RenderRequest) <-chan RenderResult {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	out := make(chan RenderResult, 1)
	go func() {
		defer close(out)
		if f.started != nil {
			f.started <- n
		}
		if f.blockFirst && n == 1 {
			<-ctx.Done()
			out <- RenderResult{Err: ctx.Err()}
			return
		}
		out <- RenderResult{Symbol: f.sym, Err: f.err}
	}()
	return out
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDecoder struct {
	img image.Image
	err error
}

func (f fakeDecoder) Decode(_ context.Context, _ []byte) <-chan stylepipe.DecodedImage {
	out := make(chan stylepipe.DecodedImage, 1)
	out <- stylepipe.DecodedImage{Image: f.img, Err: f.err}
	close(out)
	return out
}

// blockingDecoder holds its first decode until the context is cancelled
// and then reports the cancellation as a decode failure.
type blockingDecoder struct {
	mu      sync.Mutex
	calls   int
	img     image.Image
	started chan struct{}
}

func (b *blockingDecoder) Decode(ctx context.Context, _ []byte) <-chan stylepipe.DecodedImage {
	b.mu.Lock()
	b.calls++
	n := b.calls
	b.mu.Unlock()

	out := make(chan stylepipe.DecodedImage, 1)
	if n > 1 {
		out <- stylepipe.DecodedImage{Image: b.img}
		close(out)
		return out
	}

	b.started <- struct{}{}
	go func() {
		defer close(out)
		<-ctx.Done()
		out <- stylepipe.DecodedImage{Err: ctx.Err()}
	}()
	return out
}

func testSymbol(t *testing.T) *stylepipe.RenderedSymbol {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 264, 264))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	for row := 0; row < 33; row++ {
		for col := 0; col < 33; col++ {
			if (row+col)%3 == 0 {
				r := image.Rect(col*8, row*8, col*8+8, row*8+8)
				draw.Draw(img, r, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
			}
		}
	}
	sym, err := stylepipe.NewRenderedSymbol(img)
	require.NoError(t, err)
	return sym
}

type fixture struct {
	svc      *Service
	repo     *MockRepository
	verifier *MockVerifier
	source   *fakeSource
}

func newFixture(t *testing.T, decoder LogoDecoder) *fixture {
	t.Helper()
	repo := new(MockRepository)
	verifier := new(MockVerifier)
	source := &fakeSource{sym: testSymbol(t), started: make(chan int, 8)}

	svc := NewService(repo, source, decoder, verifier, cache.NewNamespaceLRU[*Rendering](16), DefaultOptions())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "entry-1" }

	return &fixture{svc: svc, repo: repo, verifier: verifier, source: source}
}

func urlRequest(u string) Request {
	return Request{Kind: payload.KindURL, Input: payload.Input{URL: u}}
}

func TestNewService(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)

	// Act
	service := NewService(mockRepo, &fakeSource{}, nil, nil, cache.NewNamespaceLRU[*Rendering](4), DefaultOptions())

	// Assert
	assert.NotNil(t, service)
	assert.Equal(t, mockRepo, service.repo)
	assert.NotNil(t, service.now)
	assert.NotNil(t, service.newID)
}

func TestGenerate_Success(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://example.com"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.MatchedBy(func(e *HistoryEntry) bool {
		return e.ID == "entry-1" && e.Kind == payload.KindURL && e.Data == "https://example.com" && len(e.Preview) > 0
	}), 15).Return(nil)

	req := urlRequest("example.com")
	req.Customization = Customization{Pattern: "dots"}

	// Act
	res, err := f.svc.Generate(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Token)
	assert.Equal(t, "https://example.com", res.Payload.Data)
	assert.Equal(t, "dots", res.Customization.Pattern)
	assert.Equal(t, 256, res.Customization.Size)
	assert.True(t, res.Scannable)
	assert.False(t, res.Cached)
	assert.NotEmpty(t, res.PNG)
	assert.Equal(t, "entry-1", res.HistoryID)

	snap, err := f.svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Token, snap.Token)
	assert.Equal(t, res.PNG, snap.PNG)
	f.repo.AssertExpectations(t)
}

func TestGenerate_CacheHit(t *testing.T) {
	f := newFixture(t, nil)
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://example.com"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	first, err := f.svc.Generate(context.Background(), urlRequest("example.com"))
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), urlRequest("example.com"))
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.PNG, second.PNG)
	assert.Equal(t, uint64(2), second.Token)
	assert.Equal(t, 1, f.source.callCount())
	f.verifier.AssertNumberOfCalls(t, "Verify", 1)

	stats := f.svc.CacheStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestGenerate_LogoFailureIsNotCached(t *testing.T) {
	// Arrange
	f := newFixture(t, fakeDecoder{err: errors.New("unknown format")})
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://example.com"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	req := urlRequest("example.com")
	req.Logo = []byte("not an image")

	// Act
	first, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	// Assert
	assert.True(t, first.LogoFailed)
	assert.True(t, second.LogoFailed)
	assert.False(t, second.Cached)
	assert.Equal(t, 2, f.source.callCount())
}

func TestGenerate_CancelledRenderIsNotCached(t *testing.T) {
	// Arrange
	decoder := &blockingDecoder{img: image.NewRGBA(image.Rect(0, 0, 8, 8)), started: make(chan struct{}, 1)}
	f := newFixture(t, decoder)
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://example.com"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	withLogo := urlRequest("example.com")
	withLogo.Logo = []byte{1}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(context.Background(), withLogo)
		firstErr <- err
	}()
	<-decoder.started

	_, err := f.svc.Generate(context.Background(), urlRequest("other.example"))
	require.NoError(t, err)
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, ErrStaleRequest)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request did not return")
	}

	// Act
	again, err := f.svc.Generate(context.Background(), withLogo)

	// Assert
	require.NoError(t, err)
	assert.False(t, again.Cached)
	assert.False(t, again.LogoFailed)
	assert.Equal(t, 3, f.source.callCount())
}

func TestGenerate_InvalidPayload(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Generate(context.Background(), Request{Kind: payload.KindEmail, Input: payload.Input{Address: "nope"}})

	var ve *payload.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "address", ve.Field)
	assert.Nil(t, res)
	assert.Equal(t, 0, f.source.callCount())

	_, err = f.svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestGenerate_InvalidColour(t *testing.T) {
	f := newFixture(t, nil)
	req := urlRequest("example.com")
	req.Customization.Foreground = "#zzz"

	_, err := f.svc.Generate(context.Background(), req)

	var ve *payload.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "fgColor", ve.Field)
	assert.Equal(t, 0, f.source.callCount())
}

func TestGenerate_RenderFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.source.err = errors.New("data too long")

	_, err := f.svc.Generate(context.Background(), urlRequest("example.com"))

	assert.ErrorContains(t, err, "data too long")
	f.repo.AssertNotCalled(t, "AddHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_LogoFailureKeepsQR(t *testing.T) {
	// Arrange
	f := newFixture(t, fakeDecoder{err: errors.New("unknown format")})
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://example.com"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	req := urlRequest("example.com")
	req.Customization.Pattern = "rounded"
	req.Logo = []byte("not an image")

	// Act
	res, err := f.svc.Generate(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.True(t, res.LogoFailed)
	assert.NotEmpty(t, res.PNG)
}

func TestGenerate_WithLogo(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 8, 8))
	f := newFixture(t, fakeDecoder{img: logo})
	f.verifier.On("Verify", mock.Anything).Return(nil, errors.New("no symbol"))
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	req := urlRequest("example.com")
	req.Logo = []byte{1}

	res, err := f.svc.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, res.LogoFailed)
	assert.False(t, res.Scannable)
}

func TestGenerate_HistoryFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, nil)
	f.verifier.On("Verify", mock.Anything).Return([]string{"hello"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(errors.New("disk full"))

	res, err := f.svc.Generate(context.Background(), Request{Kind: payload.KindText, Input: payload.Input{Text: "hello"}})

	require.NoError(t, err)
	assert.Empty(t, res.HistoryID)
}

func TestGenerate_SupersededRequestIsDiscarded(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)
	f.source.blockFirst = true
	f.verifier.On("Verify", mock.Anything).Return([]string{"https://second.example"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(context.Background(), urlRequest("first.example"))
		firstErr <- err
	}()
	require.Equal(t, 1, <-f.source.started)

	// Act
	second, err := f.svc.Generate(context.Background(), urlRequest("second.example"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Token)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrStaleRequest)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request did not return")
	}

	snap, err := f.svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Token)
	assert.Equal(t, "https://second.example", snap.Payload.Data)
	f.repo.AssertNumberOfCalls(t, "AddHistory", 1)
}

func TestGenerate_FromData(t *testing.T) {
	f := newFixture(t, nil)
	f.verifier.On("Verify", mock.Anything).Return([]string{"tel:555"}, nil)
	f.repo.On("AddHistory", mock.Anything, mock.Anything, 15).Return(nil)

	res, err := f.svc.Generate(context.Background(), Request{Kind: payload.KindPhone, Data: "tel:555"})

	require.NoError(t, err)
	assert.Equal(t, "555", res.Payload.Display)
}

func TestCustomization_Normalize(t *testing.T) {
	opts := DefaultOptions()

	got := Customization{Size: 4000, ErrorLevel: "q", Pattern: "brutal", LogoSizePercent: 90}.Normalize(opts)

	assert.Equal(t, 512, got.Size)
	assert.Equal(t, LevelQuartile, got.ErrorLevel)
	assert.Equal(t, "thickBorder", got.Pattern)
	assert.Equal(t, MaxLogoPercent, got.LogoSizePercent)
	assert.Equal(t, DefaultForeground, got.Foreground)
	assert.Equal(t, DefaultBackground, got.Background)
	assert.Equal(t, DefaultGradientColor, got.GradientColor)

	got = Customization{Size: 10, ErrorLevel: "X", LogoSizePercent: 1}.Normalize(opts)
	assert.Equal(t, 128, got.Size)
	assert.Equal(t, LevelHigh, got.ErrorLevel)
	assert.Equal(t, "classic", got.Pattern)
	assert.Equal(t, MinLogoPercent, got.LogoSizePercent)

	got = Customization{}.Normalize(opts)
	assert.Equal(t, 256, got.Size)
	assert.Equal(t, DefaultLogoPercent, got.LogoSizePercent)
}
