package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage keeps uploaded files on local disk under Root, split by kind.
// Stored names are timestamp- and uuid-prefixed so writes never collide;
// deletes are best-effort because a missing file is not an error.
type Storage struct {
	Root string
}

const (
	CourseFolder = "courses"
	VideoFolder  = "videos"
	PdfFolder    = "pdfs"
)

var (
	AllowedImageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
	AllowedVideoExtensions = map[string]bool{".mp4": true, ".mov": true, ".avi": true}
	AllowedPdfExtensions   = map[string]bool{".pdf": true}
)

func NewStorage(root string) (*Storage, error) {
	for _, folder := range []string{"", CourseFolder, VideoFolder, PdfFolder} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, err
		}
	}
	return &Storage{Root: root}, nil
}

// AllowedFile reports whether the file name carries one of the allowed extensions.
func AllowedFile(filename string, allowed map[string]bool) bool {
	return allowed[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the uploaded file into the given folder and returns the stored
// path relative to the storage root.
func (s *Storage) Save(file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s_%s",
		time.Now().UTC().Format("20060102_150405"),
		uuid.New().String()[:8],
		sanitizeFilename(file.Filename),
	)
	relPath := filepath.Join(folder, name)

	dst, err := os.Create(filepath.Join(s.Root, relPath))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filepath.Join(s.Root, relPath))
		return "", err
	}

	return relPath, nil
}

// Delete removes a stored file. Missing files and empty paths are ignored.
func (s *Storage) Delete(relPath string) {
	if relPath == "" || isRemoteURL(relPath) {
		return
	}
	os.Remove(filepath.Join(s.Root, relPath))
}

// Abs resolves a stored path against the storage root.
func (s *Storage) Abs(relPath string) string {
	return filepath.Join(s.Root, relPath)
}

// Contains reports whether the resolved path stays inside the storage root.
// Guards the static file route against path traversal.
func (s *Storage) Contains(relPath string) bool {
	abs, err := filepath.Abs(filepath.Join(s.Root, relPath))
	if err != nil {
		return false
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return false
	}
	return abs == root || strings.HasPrefix(abs, root+string(os.PathSeparator))
}

func isRemoteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
