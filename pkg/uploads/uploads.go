package uploads

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// MaxFilesPerRequest caps how many files a single submission may carry.
const MaxFilesPerRequest = 5

const (
	kindImage = "image"
	kindPDF   = "pdf"
)

type rule struct {
	folder  string
	maxSize int64
	kind    string
	label   string
}

// Rules are keyed by form field name. Anything else is rejected.
var fieldRules = map[string]rule{
	"frontCover": {folder: "covers", maxSize: 5 << 20, kind: kindImage, label: "5MB"},
	"backCover":  {folder: "covers", maxSize: 5 << 20, kind: kindImage, label: "5MB"},
	"qrCode":     {folder: "qrcodes", maxSize: 2 << 20, kind: kindImage, label: "2MB"},
	"manuscript": {folder: "manuscripts", maxSize: 500 << 20, kind: kindPDF, label: "500MB"},
	"samplePdf":  {folder: "samples", maxSize: 20 << 20, kind: kindPDF, label: "20MB"},
}

var imageMIMETypes = []string{"image/jpeg", "image/png", "image/webp", "image/svg+xml"}

type StoredFile struct {
	Path string
	Size int64
}

type Store struct {
	root string
	log  logger.Logger
}

func NewStore(root string) *Store {
	return &Store{root: root, log: logger.New()}
}

// Init creates the category subfolders and verifies the root is writable.
func (s *Store) Init() error {
	folders := map[string]bool{}
	for _, r := range fieldRules {
		folders[r.folder] = true
	}

	for folder := range folders {
		dir := filepath.Join(s.root, folder)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create upload directory: %s", dir)
		}
	}

	// Verify write permissions by creating and removing a temp file
	testFile := filepath.Join(s.root, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return errors.Wrapf(err, "upload directory is not writable: %s", s.root)
	}
	f.Close()

	if err := os.Remove(testFile); err != nil {
		return errors.Wrapf(err, "failed to clean up write test file: %s", testFile)
	}

	return nil
}

// SaveAll validates and stores every uploaded file. On any failure, files
// already written for this request are removed before returning.
func (s *Store) SaveAll(files map[string]*multipart.FileHeader) (map[string]StoredFile, error) {
	if len(files) > MaxFilesPerRequest {
		return nil, errcodes.BadRequest("Too many files uploaded.")
	}

	stored := map[string]StoredFile{}

	for field, fh := range files {
		sf, err := s.save(field, fh)
		if err != nil {
			s.Cleanup(stored)
			return nil, err
		}
		stored[field] = sf
	}

	return stored, nil
}

func (s *Store) save(field string, fh *multipart.FileHeader) (StoredFile, error) {
	r, ok := fieldRules[field]
	if !ok {
		return StoredFile{}, errcodes.BadRequest("Unexpected file field: " + field)
	}

	if fh.Size > r.maxSize {
		return StoredFile{}, errcodes.BadRequest(field + " exceeds the " + r.label + " size limit.")
	}

	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, errors.WithStack(err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return StoredFile{}, errors.WithStack(err)
	}
	if err := checkMIMEType(field, r.kind, mtype.String()); err != nil {
		return StoredFile{}, err
	}

	// DetectReader consumed a prefix of the stream.
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return StoredFile{}, errors.WithStack(err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := uuid.New().String() + ext

	destPath := filepath.Join(s.root, r.folder, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return StoredFile{}, errors.WithStack(err)
	}
	defer dest.Close()

	size, err := io.Copy(dest, src)
	if err != nil {
		os.Remove(destPath)
		return StoredFile{}, errors.WithStack(err)
	}

	return StoredFile{Path: "/uploads/" + r.folder + "/" + name, Size: size}, nil
}

func checkMIMEType(field, kind, detected string) error {
	switch kind {
	case kindPDF:
		if detected != "application/pdf" {
			return errcodes.BadRequest(field + " must be a PDF file.")
		}
	case kindImage:
		for _, m := range imageMIMETypes {
			if detected == m {
				return nil
			}
		}
		return errcodes.BadRequest(field + " must be a JPEG, PNG, WebP, or SVG image.")
	}
	return nil
}

// Remove deletes a stored file by its returned URL path. Best-effort: a
// missing file is not an error worth surfacing.
func (s *Store) Remove(urlPath string) {
	rel := strings.TrimPrefix(urlPath, "/uploads/")
	if rel == urlPath || rel == "" {
		return
	}
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return
	}

	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !os.IsNotExist(err) {
		s.log.Debug("upload remove failed", logger.Data{"path": urlPath, "error": err.Error()})
	}
}

// Cleanup removes every file written for a request that ultimately failed.
func (s *Store) Cleanup(stored map[string]StoredFile) {
	for _, sf := range stored {
		s.Remove(sf.Path)
	}
}

// DiskPath maps a stored URL path back to its location on disk.
func (s *Store) DiskPath(urlPath string) string {
	return filepath.Join(s.root, filepath.Clean(strings.TrimPrefix(urlPath, "/uploads/")))
}
