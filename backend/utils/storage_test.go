package utils

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}

func TestStorageSaveAndDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	file := uploadHeader(t, "pdf", "lecture notes.pdf", "%PDF-1.4 fake")
	relPath, err := storage.Save(file, PdfFolder)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, PdfFolder+string(os.PathSeparator)))
	assert.True(t, strings.HasSuffix(relPath, "lecture_notes.pdf"))

	content, err := os.ReadFile(storage.Abs(relPath))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(content))

	storage.Delete(relPath)
	_, err = os.Stat(storage.Abs(relPath))
	assert.True(t, os.IsNotExist(err))

	// Deleting again (or deleting nothing) must not blow up.
	storage.Delete(relPath)
	storage.Delete("")
	storage.Delete("https://example.com/remote.png")
}

func TestStorageUniqueNames(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.Save(uploadHeader(t, "pdf", "same.pdf", "one"), PdfFolder)
	require.NoError(t, err)
	second, err := storage.Save(uploadHeader(t, "pdf", "same.pdf", "two"), PdfFolder)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStorageContains(t *testing.T) {
	root := t.TempDir()
	storage, err := NewStorage(root)
	require.NoError(t, err)

	assert.True(t, storage.Contains(filepath.Join(PdfFolder, "doc.pdf")))
	assert.False(t, storage.Contains("../outside.txt"))
	assert.False(t, storage.Contains(filepath.Join(PdfFolder, "..", "..", "etc", "passwd")))
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("slides.PDF", AllowedPdfExtensions))
	assert.False(t, AllowedFile("slides.pdf.exe", AllowedPdfExtensions))
	assert.True(t, AllowedFile("cover.jpeg", AllowedImageExtensions))
	assert.False(t, AllowedFile("cover", AllowedImageExtensions))
	assert.True(t, AllowedFile("intro.mp4", AllowedVideoExtensions))
	assert.False(t, AllowedFile("intro.mkv", AllowedVideoExtensions))
}
