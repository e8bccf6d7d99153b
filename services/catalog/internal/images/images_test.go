package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_SaveAllWritesThumbnail(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir, URLPrefix: "/uploads/"}

	saved, err := s.SaveAll(multipartFiles(t, map[string][]byte{"box.png": pngBytes(t, 640, 480)}))
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, strings.HasPrefix(saved[0].URL, "/uploads/"))
	assert.True(t, strings.HasPrefix(saved[0].ThumbURL, "/uploads/thumbs/"))

	name := strings.TrimPrefix(saved[0].URL, "/uploads/")
	thumb, err := imaging.Open(filepath.Join(dir, "thumbs", name))
	require.NoError(t, err)
	assert.Equal(t, ThumbSize, thumb.Bounds().Dx())
	assert.Equal(t, ThumbSize, thumb.Bounds().Dy())

	s.Remove(saved)
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RejectsNonImages(t *testing.T) {
	s := &Store{Dir: t.TempDir(), URLPrefix: "/uploads"}

	_, err := s.SaveAll(multipartFiles(t, map[string][]byte{"notes.txt": []byte("hello")}))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = s.SaveAll(multipartFiles(t, map[string][]byte{"fake.png": []byte("not a png")}))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestStore_NoFiles(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	saved, err := s.SaveAll(nil)
	require.NoError(t, err)
	assert.Nil(t, saved)
}
