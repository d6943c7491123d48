package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"product-catalog/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleProducts() []catalog.Product {
	created := time.Date(2026, 2, 24, 12, 0, 0, 0, time.UTC)
	return []catalog.Product{
		{
			ID:          "a",
			Name:        "Tee",
			Description: "Cotton tee",
			Price:       29.99,
			Category:    catalog.CategoryReadyToWear,
			ImageURL:    "https://example.com/a.jpg",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:          "b",
			Name:        "Boot",
			Description: "Leather boot",
			Price:       120,
			Category:    catalog.CategoryShoes,
			ImageURL:    "https://example.com/b.jpg",
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
		},
	}
}

func TestFileStore_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file reads as empty", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "products.json"), true, discardLogger())

		items, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("blank file reads as empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

		items, err := NewFile(path, true, discardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("malformed file fails in strict mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := NewFile(path, true, discardLogger()).LoadAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrMalformedStore)
	})

	t.Run("malformed file reads as empty in lenient mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		items, err := NewFile(path, false, discardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unreadable path fails in strict mode", func(t *testing.T) {
		// A directory where the file should be cannot be read as a document.
		path := t.TempDir()

		_, err := NewFile(path, true, discardLogger()).LoadAll(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, catalog.ErrMalformedStore)
	})

	t.Run("unreadable path reads as empty in lenient mode", func(t *testing.T) {
		items, err := NewFile(t.TempDir(), false, discardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestFileStore_SaveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps content and order", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "products.json"), true, discardLogger())
		want := sampleProducts()

		require.NoError(t, s.SaveAll(ctx, want))
		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID)
			assert.Equal(t, want[i].Name, got[i].Name)
			assert.InDelta(t, want[i].Price, got[i].Price, 1e-9)
			assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
			assert.True(t, want[i].UpdatedAt.Equal(got[i].UpdatedAt))
		}

		// Saving what was loaded leaves the document unchanged.
		before, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		require.NoError(t, s.SaveAll(ctx, got))
		after, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("nil collection is written as an empty array", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "products.json"), true, discardLogger())

		require.NoError(t, s.SaveAll(ctx, nil))
		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "nested", "products.json")
		s := NewFile(path, true, discardLogger())

		require.NoError(t, s.SaveAll(ctx, sampleProducts()))
		assert.FileExists(t, path)
	})

	t.Run("uses the documented field names", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "products.json"), true, discardLogger())
		require.NoError(t, s.SaveAll(ctx, sampleProducts()[:1]))

		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.JSONEq(t, `[{
			"id": "a",
			"name": "Tee",
			"description": "Cotton tee",
			"price": 29.99,
			"category": "READY TO WEAR",
			"imageUrl": "https://example.com/a.jpg",
			"createdAt": "2026-02-24T12:00:00Z",
			"updatedAt": "2026-02-24T12:00:00Z"
		}]`, string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFile(filepath.Join(dir, "products.json"), true, discardLogger())

		require.NoError(t, s.SaveAll(ctx, sampleProducts()))
		require.NoError(t, s.SaveAll(ctx, sampleProducts()[:1]))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "products.json", entries[0].Name())
	})
}

func TestFileStore_Health(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "products.json"), true, discardLogger())
		assert.NoError(t, s.Health())
	})

	t.Run("directory not created yet", func(t *testing.T) {
		s := NewFile(filepath.Join(t.TempDir(), "later", "products.json"), true, discardLogger())
		assert.NoError(t, s.Health())
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "plain")
		require.NoError(t, os.WriteFile(parent, nil, 0o644))

		s := NewFile(filepath.Join(parent, "products.json"), true, discardLogger())
		assert.Error(t, s.Health())
	})
}
