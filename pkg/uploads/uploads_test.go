package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[field][0]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore(t.TempDir())
	require.NoError(t, s.Init())
	return s
}

func TestInit(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	require.NoError(t, s.Init())

	for _, folder := range []string{"covers", "qrcodes", "manuscripts", "samples"} {
		info, err := os.Stat(filepath.Join(root, folder))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveAll(t *testing.T) {
	s := newTestStore(t)

	files := map[string]*multipart.FileHeader{
		"frontCover": fileHeader(t, "frontCover", "cover.png", pngBytes),
		"manuscript": fileHeader(t, "manuscript", "book.pdf", pdfBytes),
	}

	stored, err := s.SaveAll(files)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	assert.True(t, strings.HasPrefix(stored["frontCover"].Path, "/uploads/covers/"))
	assert.True(t, strings.HasSuffix(stored["frontCover"].Path, ".png"))
	assert.True(t, strings.HasPrefix(stored["manuscript"].Path, "/uploads/manuscripts/"))
	assert.Equal(t, int64(len(pdfBytes)), stored["manuscript"].Size)

	_, err = os.Stat(s.DiskPath(stored["frontCover"].Path))
	require.NoError(t, err)
}

func TestSaveAllUnexpectedField(t *testing.T) {
	s := newTestStore(t)

	files := map[string]*multipart.FileHeader{
		"avatar": fileHeader(t, "avatar", "a.png", pngBytes),
	}

	_, err := s.SaveAll(files)
	require.Error(t, err)
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.HTTPCode)
	assert.Contains(t, cerr.Message, "Unexpected file field")
}

func TestSaveAllWrongType(t *testing.T) {
	s := newTestStore(t)

	// a PNG where a PDF is required
	files := map[string]*multipart.FileHeader{
		"manuscript": fileHeader(t, "manuscript", "book.pdf", pngBytes),
	}

	_, err := s.SaveAll(files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a PDF")
}

func TestSaveAllCleansUpOnFailure(t *testing.T) {
	s := newTestStore(t)

	// frontCover is valid, manuscript is not. The cover written before the
	// failure must not survive.
	files := map[string]*multipart.FileHeader{
		"frontCover": fileHeader(t, "frontCover", "cover.png", pngBytes),
		"manuscript": fileHeader(t, "manuscript", "book.pdf", []byte("not a pdf")),
	}

	_, err := s.SaveAll(files)
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(s.root, "covers"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.SaveAll(map[string]*multipart.FileHeader{
		"qrCode": fileHeader(t, "qrCode", "qr.png", pngBytes),
	})
	require.NoError(t, err)

	path := stored["qrCode"].Path
	s.Remove(path)

	_, err = os.Stat(s.DiskPath(path))
	assert.True(t, os.IsNotExist(err))

	// removing again is a no-op
	s.Remove(path)
	s.Remove("not-a-stored-path")
}
