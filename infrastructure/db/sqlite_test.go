package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/studio"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// Helper function to create a test repository
func createTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func entry(id string, kind payload.Kind, data string, minute int) *studio.HistoryEntry {
	return &studio.HistoryEntry{
		ID:      id,
		Kind:    kind,
		Data:    data,
		Display: data,
		Preview: []byte("png-" + id),
		Customization: studio.Customization{
			Size:       256,
			Foreground: "#1a1a2e",
			Background: "#ffffff",
			ErrorLevel: studio.LevelHigh,
			Pattern:    "dots",
		},
		CreatedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func TestNewSQLiteRepository(t *testing.T) {
	// Act
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "qr.db"))

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, repo.db)
	assert.NoError(t, repo.Close())
}

func TestNewSQLiteRepository_InvalidPath(t *testing.T) {
	// Act - Try to create a repository with an invalid path
	repo, err := NewSQLiteRepository("/invalid/path/db.sqlite")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestAddHistory_RoundTrip(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	ctx := context.Background()
	e := entry("a", payload.KindURL, "https://example.com", 0)

	// Act
	err := repo.AddHistory(ctx, e, 15)
	require.NoError(t, err)
	got, err := repo.GetHistory(ctx, "a")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, e.Kind, got.Kind)
	assert.Equal(t, e.Data, got.Data)
	assert.Equal(t, e.Preview, got.Preview)
	assert.Equal(t, e.Customization, got.Customization)
	assert.True(t, e.CreatedAt.Equal(got.CreatedAt))
}

func TestAddHistory_NewestFirstAndDeduplicated(t *testing.T) {
	repo := createTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddHistory(ctx, entry("1", payload.KindText, "hello", 0), 15))
	require.NoError(t, repo.AddHistory(ctx, entry("2", payload.KindText, "world", 1), 15))
	// same kind and data as "1": replaces it at the top
	require.NoError(t, repo.AddHistory(ctx, entry("3", payload.KindText, "hello", 2), 15))
	// same data, different kind: kept separately
	require.NoError(t, repo.AddHistory(ctx, entry("4", payload.KindURL, "hello", 3), 15))

	list, err := repo.ListHistory(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"4", "3", "2"}, ids)

	_, err = repo.GetHistory(ctx, "1")
	assert.ErrorIs(t, err, studio.ErrHistoryNotFound)
}

func TestAddHistory_TrimsToLimit(t *testing.T) {
	repo := createTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, repo.AddHistory(ctx, entry(fmt.Sprint(i), payload.KindText, fmt.Sprintf("item %d", i), i), 15))
	}

	list, err := repo.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, 15)
	assert.Equal(t, "19", list[0].ID)
	assert.Equal(t, "5", list[14].ID)
}

func TestClearHistory(t *testing.T) {
	repo := createTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.AddHistory(ctx, entry("a", payload.KindText, "x", 0), 15))

	require.NoError(t, repo.ClearHistory(ctx))

	list, err := repo.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTemplates_CRUD(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	ctx := context.Background()
	custom := studio.Customization{Size: 300, Foreground: "#000000", Background: "#ffffff", Pattern: "rounded", Gradient: true, GradientColor: "#667eea"}

	// Act
	require.NoError(t, repo.SaveTemplate(ctx, &studio.Template{ID: "t1", Name: "Brand", Customization: custom, CreatedAt: baseTime}))
	require.NoError(t, repo.SaveTemplate(ctx, &studio.Template{ID: "t2", Name: "Mono", CreatedAt: baseTime.Add(time.Minute)}))

	list, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	got, err := repo.GetTemplate(ctx, "t1")
	require.NoError(t, err)

	// Assert
	require.Len(t, list, 2)
	assert.Equal(t, "Brand", list[0].Name)
	assert.Equal(t, "Mono", list[1].Name)
	assert.Equal(t, custom, got.Customization)

	require.NoError(t, repo.DeleteTemplate(ctx, "t1"))
	_, err = repo.GetTemplate(ctx, "t1")
	assert.ErrorIs(t, err, studio.ErrTemplateNotFound)
	assert.ErrorIs(t, repo.DeleteTemplate(ctx, "t1"), studio.ErrTemplateNotFound)
}
