package books

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/mebookmeta/backend/pkg/respond"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := BookFormPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.CreateBook(ctx, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.Created(c, "Book submitted successfully for review", book))
}

func (h *handler) saveDraft(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := BookFormPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.SaveDraft(ctx, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.Created(c, "Draft saved successfully", book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooks(ctx, params)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.Paginated(c, "Books retrieved successfully", books, params.Page, params.Limit, int64(total)))
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.bookService.Stats(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.OK(c, "Stats retrieved successfully", stats))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	h.bookService.IncrementViewCount(book.ID)

	return errors.WithStack(respond.OK(c, "Book retrieved successfully", book))
}

func (h *handler) retrieveBySlug(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{Slug: &slug})
	if err != nil {
		return errors.WithStack(err)
	}

	h.bookService.IncrementViewCount(book.ID)

	return errors.WithStack(respond.OK(c, "Book retrieved successfully", book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// Bind params.
	params := BookFormPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateBook(ctx, id, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.OK(c, "Book updated successfully", book))
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// Bind params.
	params := UpdateStatusPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateStatus(ctx, id, params.Status, params.RejectionReason)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.OK(c, fmt.Sprintf("Book status updated to %q", params.Status), book))
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	deleted, err := h.bookService.DeleteBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.OK(c, "Book deleted successfully", deleted))
}
