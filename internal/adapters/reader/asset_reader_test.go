package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

func TestAssetReader_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "img.jpg")
	require.NoError(t, os.WriteFile(imgPath, []byte{1, 2, 3}, 0644))

	r := NewAssetReader(dir, 0)
	ctx := context.Background()

	tests := []struct {
		name string
		path string
	}{
		{"absolute", imgPath},
		{"relative", "img.jpg"},
		{"file prefix", "file:" + filepath.ToSlash(imgPath)},
		{"file url", "file://" + filepath.ToSlash(imgPath)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.GetAssetArray(ctx, domain.Asset{ID: "1", Name: "img.jpg", Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, data)
		})
	}
}

func TestAssetReader_MissingFile(t *testing.T) {
	r := NewAssetReader(t.TempDir(), 0)

	_, err := r.GetAssetArray(context.Background(), domain.Asset{ID: "1", Name: "gone.jpg", Path: "gone.jpg"})
	assert.Error(t, err)

	_, err = r.GetAssetArray(context.Background(), domain.Asset{ID: "2"})
	assert.Error(t, err)
}

func TestAssetReader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/missing.jpg" {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	r := NewAssetReader("", 0)

	data, err := r.GetAssetArray(context.Background(), domain.Asset{ID: "1", Path: srv.URL + "/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))

	_, err = r.GetAssetArray(context.Background(), domain.Asset{ID: "2", Path: srv.URL + "/missing.jpg"})
	assert.Error(t, err)
}

func TestAssetReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssetReader("", 0).GetAssetArray(ctx, domain.Asset{ID: "1", Path: "x.jpg"})
	assert.ErrorIs(t, err, context.Canceled)
}
