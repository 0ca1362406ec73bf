package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/mebookmeta/backend/pkg/models"
	"github.com/mebookmeta/backend/pkg/uploads"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	Slug *string
}

type DeletedBook struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatsTotals struct {
	TotalBooks     int     `json:"totalBooks"`
	TotalViews     int     `json:"totalViews"`
	TotalDownloads int     `json:"totalDownloads"`
	AvgPrice       float64 `json:"avgPrice"`
}

type Stats struct {
	StatusCounts  map[string]int  `json:"statusCounts"`
	TopCategories []CategoryCount `json:"topCategories"`
	Totals        StatsTotals     `json:"totals"`
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"title":         "title",
	"price":         "price",
	"viewCount":     "view_count",
	"downloadCount": "download_count",
}

type Service struct {
	db    *bun.DB
	store *uploads.Store
	log   logger.Logger
}

func NewService(db *bun.DB, store *uploads.Store) *Service {
	return &Service{db: db, store: store, log: logger.New()}
}

// CreateBook validates and persists a full submission. Both the front cover
// and the manuscript must be present; the record enters review immediately.
func (svc *Service) CreateBook(ctx context.Context, payload *BookFormPayload) (*models.Book, error) {
	files := payload.FormFiles
	if files["frontCover"] == nil {
		return nil, errcodes.BadRequest("Front cover image is required")
	}
	if files["manuscript"] == nil {
		return nil, errcodes.BadRequest("Manuscript PDF is required")
	}

	book := newBookWithDefaults()
	msgs := applyPayload(book, payload)
	book.Status = models.BookStatusPendingReview

	msgs = append(msgs, validateBook(book)...)
	if len(msgs) > 0 {
		return nil, errcodes.ValidationFailed(msgs)
	}

	// Files are only written once the record is known to be valid, so a
	// rejected submission leaves nothing on disk.
	stored, err := svc.store.SaveAll(files)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	attachStoredFiles(book, stored)

	if err := svc.insertBook(ctx, book); err != nil {
		svc.store.Cleanup(stored)
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// SaveDraft persists a submission without required-field validation. Files
// are optional and the record stays in draft.
func (svc *Service) SaveDraft(ctx context.Context, payload *BookFormPayload) (*models.Book, error) {
	book := newBookWithDefaults()
	applyPayload(book, payload)
	book.Status = models.BookStatusDraft

	stored, err := svc.store.SaveAll(payload.FormFiles)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	attachStoredFiles(book, stored)

	if err := svc.insertBook(ctx, book); err != nil {
		svc.store.Cleanup(stored)
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) insertBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	applyDerivedFields(book)

	if err := svc.assignSlug(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("b.slug = ?", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// IncrementViewCount bumps the view counter without blocking the read path.
// The count is best-effort and never read back in the same request.
func (svc *Service) IncrementViewCount(id int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := svc.db.
			NewUpdate().
			Model((*models.Book)(nil)).
			Set("view_count = view_count + 1").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			svc.log.Warn("view count increment failed", logger.Data{"book_id": id, "error": err.Error()})
		}
	}()
}

func (svc *Service) ListBooks(ctx context.Context, query ListBooksQuery) ([]*models.Book, int, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books)

	if query.Status != nil {
		q = q.Where("b.status = ?", *query.Status)
	}
	if query.Category != nil {
		q = q.Where("b.category = ?", *query.Category)
	}
	if query.Language != nil {
		q = q.Where("b.language = ?", *query.Language)
	}
	if query.Author != nil {
		q = q.Where("LOWER(b.author) LIKE ?", "%"+strings.ToLower(*query.Author)+"%")
	}
	if query.MinPrice != nil {
		q = q.Where("b.price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("b.price <= ?", *query.MaxPrice)
	}
	if query.Search != nil && *query.Search != "" {
		pattern := "%" + strings.ToLower(*query.Search) + "%"
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("LOWER(b.title) LIKE ?", pattern).
				WhereOr("LOWER(b.description) LIKE ?", pattern).
				WhereOr("LOWER(b.author) LIKE ?", pattern)
		})
	}

	column := sortColumns[query.SortBy]
	if column == "" {
		column = "created_at"
	}
	direction := "DESC"
	if query.Order == "asc" {
		direction = "ASC"
	}
	q = q.OrderExpr("b." + column + " " + direction)

	q = q.Limit(query.Limit).Offset((query.Page - 1) * query.Limit)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// UpdateBook applies a partial update. Only fields present and non-empty in
// the payload overwrite existing values; replaced files are deleted from
// disk.
func (svc *Service) UpdateBook(ctx context.Context, id int, payload *BookFormPayload) (*models.Book, error) {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	origTitle := book.Title

	msgs := applyPayload(book, payload)
	msgs = append(msgs, validateBook(book)...)
	if len(msgs) > 0 {
		return nil, errcodes.ValidationFailed(msgs)
	}

	stored, err := svc.store.SaveAll(payload.FormFiles)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	replaceStoredFiles(book, stored, svc.store)

	applyDerivedFields(book)

	if book.Title != origTitle {
		if err := svc.assignSlug(ctx, book); err != nil {
			svc.store.Cleanup(stored)
			return nil, errors.WithStack(err)
		}
	}

	book.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(book).
		WherePK().
		Exec(ctx)
	if err != nil {
		svc.store.Cleanup(stored)
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// UpdateStatus transitions a book through the review workflow. Approval
// stamps the time and clears any rejection reason; rejection requires a
// reason and clears the approval timestamp.
func (svc *Service) UpdateStatus(ctx context.Context, id int, status, rejectionReason string) (*models.Book, error) {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// A record cannot leave draft without its required assets; the whole
	// record is re-validated on the way out.
	if status != models.BookStatusDraft {
		msgs := []string{}
		if book.FrontCover == nil || *book.FrontCover == "" {
			msgs = append(msgs, "Front cover image is required")
		}
		if book.Manuscript == nil || *book.Manuscript == "" {
			msgs = append(msgs, "Manuscript PDF is required")
		}
		msgs = append(msgs, validateBook(book)...)
		if len(msgs) > 0 {
			return nil, errcodes.ValidationFailed(msgs)
		}
	}

	book.Status = status

	switch status {
	case models.BookStatusApproved:
		now := time.Now()
		book.ApprovedAt = &now
		book.RejectionReason = nil
	case models.BookStatusRejected:
		if strings.TrimSpace(rejectionReason) == "" {
			return nil, errcodes.BadRequest("Rejection reason is required when rejecting a book")
		}
		book.RejectionReason = &rejectionReason
		book.ApprovedAt = nil
	default:
		book.RejectionReason = nil
		book.ApprovedAt = nil
	}

	book.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(book).
		Column("status", "rejection_reason", "approved_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// DeleteBook removes the record and, best-effort, every file it references.
func (svc *Service) DeleteBook(ctx context.Context, id int) (*DeletedBook, error) {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, path := range book.FilePaths() {
		svc.store.Remove(path)
	}

	_, err = svc.db.
		NewDelete().
		Model(book).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &DeletedBook{ID: book.ID, Title: book.Title}, nil
}

func (svc *Service) Stats(ctx context.Context) (*Stats, error) {
	statusRows := []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}{}
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.status").
		ColumnExpr("COUNT(*) AS count").
		Group("b.status").
		Scan(ctx, &statusRows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	statusCounts := map[string]int{}
	for _, row := range statusRows {
		statusCounts[row.Status] = row.Count
	}

	topCategories := []CategoryCount{}
	err = svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.category").
		ColumnExpr("COUNT(*) AS count").
		Where("b.status != ?", models.BookStatusDraft).
		Group("b.category").
		OrderExpr("count DESC").
		Limit(10).
		Scan(ctx, &topCategories)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	totals := StatsTotals{}
	err = svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("COUNT(*) AS total_books").
		ColumnExpr("COALESCE(SUM(b.view_count), 0) AS total_views").
		ColumnExpr("COALESCE(SUM(b.download_count), 0) AS total_downloads").
		ColumnExpr("COALESCE(AVG(b.price), 0) AS avg_price").
		Scan(ctx, &totals)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Stats{
		StatusCounts:  statusCounts,
		TopCategories: topCategories,
		Totals:        totals,
	}, nil
}
