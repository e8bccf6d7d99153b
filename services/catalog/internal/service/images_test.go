package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/images"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngUpload(t *testing.T, name string) []*multipart.FileHeader {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 20))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

func localPath(store *images.Store, url string) string {
	rel := strings.TrimPrefix(url, store.URLPrefix+"/")
	return filepath.Join(store.Dir, filepath.FromSlash(rel))
}

func TestImageFilesFollowProduct(t *testing.T) {
	svc, _ := newTestService(t)
	store := &images.Store{Dir: t.TempDir(), URLPrefix: "/uploads"}
	svc.Images = store
	ctx := context.Background()
	in := transport.ProductInput{Name: "Pallet", Price: "12.000", StockQuantity: 2}

	created, err := svc.CreateProduct(ctx, in, pngUpload(t, "front.png"))
	require.NoError(t, err)
	require.Len(t, created.Images, 1)
	first := []string{localPath(store, created.Images[0]), localPath(store, created.Thumbnails[0])}
	for _, f := range first {
		assert.FileExists(t, f)
	}

	// Without files the current images stay in place.
	kept, err := svc.UpdateProduct(ctx, created.ID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Images, kept.Images)
	for _, f := range first {
		assert.FileExists(t, f)
	}

	replaced, err := svc.UpdateProduct(ctx, created.ID, in, pngUpload(t, "side.png"))
	require.NoError(t, err)
	require.Len(t, replaced.Images, 1)
	assert.NotEqual(t, created.Images, replaced.Images)
	for _, f := range first {
		assert.NoFileExists(t, f)
	}
	second := []string{localPath(store, replaced.Images[0]), localPath(store, replaced.Thumbnails[0])}
	for _, f := range second {
		assert.FileExists(t, f)
	}

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	for _, f := range second {
		assert.NoFileExists(t, f)
	}
}
