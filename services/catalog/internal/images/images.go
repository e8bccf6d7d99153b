// Package images stores uploaded product photos and their square previews.
package images

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ThumbSize   = 300
	MaxFileSize = 8 << 20
)

var ErrUnsupported = errors.New("unsupported image")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Store writes originals under Dir and previews under Dir/thumbs. URLs are
// built from URLPrefix, which is where Dir is served.
type Store struct {
	Dir       string
	URLPrefix string
}

type Saved struct {
	URL      string
	ThumbURL string
}

func (s *Store) init() error {
	return os.MkdirAll(filepath.Join(s.Dir, "thumbs"), 0o755)
}

// SaveAll stores every file and returns their URLs in order. Files already
// written are removed if a later one fails.
func (s *Store) SaveAll(files []*multipart.FileHeader) ([]Saved, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := s.init(); err != nil {
		return nil, err
	}

	out := make([]Saved, 0, len(files))
	for _, fh := range files {
		saved, err := s.save(fh)
		if err != nil {
			s.Remove(out)
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *Store) save(fh *multipart.FileHeader) (Saved, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return Saved{}, fmt.Errorf("%s: %w", fh.Filename, ErrUnsupported)
	}
	if fh.Size > MaxFileSize {
		return Saved{}, fmt.Errorf("%s is larger than %d bytes: %w", fh.Filename, MaxFileSize, ErrUnsupported)
	}

	src, err := fh.Open()
	if err != nil {
		return Saved{}, err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return Saved{}, fmt.Errorf("%s: %w", fh.Filename, ErrUnsupported)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Saved{}, err
	}

	name := uuid.NewString() + ext
	origPath := filepath.Join(s.Dir, name)
	dst, err := os.Create(origPath)
	if err != nil {
		return Saved{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return Saved{}, err
	}
	if err := dst.Close(); err != nil {
		return Saved{}, err
	}

	thumb := imaging.Fill(img, ThumbSize, ThumbSize, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(s.Dir, "thumbs", name)); err != nil {
		_ = os.Remove(origPath)
		return Saved{}, err
	}

	prefix := strings.TrimRight(s.URLPrefix, "/")
	return Saved{
		URL:      prefix + "/" + name,
		ThumbURL: prefix + "/thumbs/" + name,
	}, nil
}

// Remove deletes previously saved files. Missing files are ignored.
func (s *Store) Remove(saved []Saved) {
	prefix := strings.TrimRight(s.URLPrefix, "/") + "/"
	for _, sv := range saved {
		for _, u := range []string{sv.URL, sv.ThumbURL} {
			rel := strings.TrimPrefix(u, prefix)
			if rel == u {
				continue
			}
			_ = os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
		}
	}
}
