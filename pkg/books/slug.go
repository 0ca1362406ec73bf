package books

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/mebookmeta/backend/pkg/models"
	"github.com/pkg/errors"
)

// assignSlug derives a URL-safe slug from the title and resolves collisions
// with a numeric suffix. The read-check-write loop is not atomic under
// concurrent identical titles; the unique index on the column is the
// backstop.
func (svc *Service) assignSlug(ctx context.Context, book *models.Book) error {
	base := slug.Make(book.Title)
	if base == "" {
		// untitled drafts still need a unique slug
		base = "untitled"
	}

	candidate := base
	counter := 1

	for {
		q := svc.db.
			NewSelect().
			Model((*models.Book)(nil)).
			Where("slug = ?", candidate)
		if book.ID != 0 {
			q = q.Where("id != ?", book.ID)
		}

		exists, err := q.Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			break
		}

		candidate = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}

	book.Slug = candidate

	return nil
}
