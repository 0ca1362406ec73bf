package books

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mebookmeta/backend/pkg/binder"
	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/mebookmeta/backend/pkg/migrations"
	"github.com/mebookmeta/backend/pkg/uploads"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/time/rate"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func setupTestService(t *testing.T) (*Service, string) {
	t.Helper()

	db := setupTestDB(t)
	uploadDir := t.TempDir()
	store := uploads.NewStore(uploadDir)
	require.NoError(t, store.Init())

	return NewService(db, store), uploadDir
}

func setupTestServer(t *testing.T) (*echo.Echo, *Service, string) {
	t.Helper()

	db := setupTestDB(t)
	uploadDir := t.TempDir()
	store := uploads.NewStore(uploadDir)
	require.NoError(t, store.Init())

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(1000)))
	RegisterRoutes(e.Group("/api/books"), db, store, limiter)

	return e, NewService(db, store), uploadDir
}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[field][0]
}

func validPayload(t *testing.T) *BookFormPayload {
	t.Helper()

	return &BookFormPayload{
		Title:           "My Book!",
		Description:     "A thrilling tale of software and suspense.",
		Author:          "Jane Writer",
		Category:        "fiction",
		RightsConfirmed: "true",
		TermsAccepted:   "true",
		FormFiles: map[string]*multipart.FileHeader{
			"frontCover": fileHeader(t, "frontCover", "cover.png", pngBytes),
			"manuscript": fileHeader(t, "manuscript", "book.pdf", pdfBytes),
		},
	}
}

func diskPath(uploadDir, urlPath string) string {
	return uploadDir + "/" + strings.TrimPrefix(urlPath, "/uploads/")
}

type mpFile struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]mpFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for field, f := range files {
		fw, err := w.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func submitFields() map[string]string {
	return map[string]string{
		"title":           "My Book!",
		"description":     "A thrilling tale of software and suspense.",
		"author":          "Jane Writer",
		"category":        "fiction",
		"rightsConfirmed": "true",
		"termsAccepted":   "true",
	}
}

func submitFiles() map[string]mpFile {
	return map[string]mpFile{
		"frontCover": {name: "cover.png", data: pngBytes},
		"manuscript": {name: "book.pdf", data: pdfBytes},
	}
}

func TestCreateEndpoint(t *testing.T) {
	t.Parallel()
	e, _, _ := setupTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/api/books", submitFields(), submitFiles())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Book submitted successfully for review", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "my-book", data["slug"])
	assert.Equal(t, "pending_review", data["status"])
}

func TestCreateEndpoint_MissingFiles(t *testing.T) {
	t.Parallel()
	e, _, _ := setupTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/api/books", submitFields(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Front cover image is required", body["message"])
}

func TestCreateEndpoint_UnknownField(t *testing.T) {
	t.Parallel()
	e, _, _ := setupTestServer(t)

	fields := submitFields()
	fields["sneaky"] = "value"
	req := multipartRequest(t, http.MethodPost, "/api/books", fields, submitFiles())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "sneaky")
}

func TestListEndpoint_Pagination(t *testing.T) {
	t.Parallel()
	e, svc, _ := setupTestServer(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		payload := validPayload(t)
		payload.Title = title
		_, err := svc.CreateBook(ctx, payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/books?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]interface{})
	assert.Len(t, data, 1)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(2), pagination["limit"])
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["pages"])
	assert.Equal(t, false, pagination["hasNext"])
	assert.Equal(t, true, pagination["hasPrev"])
}

func TestUpdateStatusEndpoint(t *testing.T) {
	t.Parallel()
	e, svc, _ := setupTestServer(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, validPayload(t))
	require.NoError(t, err)

	// reject without a reason
	req := httptest.NewRequest(http.MethodPatch, "/api/books/"+strconv.Itoa(book.ID)+"/status", strings.NewReader(`{"status":"rejected"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// approve
	req = httptest.NewRequest(http.MethodPatch, "/api/books/"+strconv.Itoa(book.ID)+"/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, `Book status updated to "approved"`, body["message"])

	data := body["data"].(map[string]interface{})
	assert.NotNil(t, data["approvedAt"])
}

func TestRetrieveEndpoint_MalformedID(t *testing.T) {
	t.Parallel()
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/books/not-a-number", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Book not found.", body["message"])
}

func TestDeleteEndpoint(t *testing.T) {
	t.Parallel()
	e, svc, uploadDir := setupTestServer(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, validPayload(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/books/"+strconv.Itoa(book.ID), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Book deleted successfully", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "My Book!", data["title"])

	assert.Zero(t, countFiles(t, uploadDir))

	// gone by id and by slug
	req = httptest.NewRequest(http.MethodGet, "/api/books/"+strconv.Itoa(book.ID), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/books/slug/my-book", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

