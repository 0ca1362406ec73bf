package books

import (
	"strings"
	"time"

	"github.com/mebookmeta/backend/pkg/models"
	"github.com/mebookmeta/backend/pkg/uploads"
)

func newBookWithDefaults() *models.Book {
	return &models.Book{
		Language:      "en",
		Edition:       "1st Edition",
		CopyrightType: "standard",
		CopyrightYear: time.Now().Year(),
		Currency:      "INR",
		AllowDownload: true,
		AllowPreview:  true,
		CoAuthors:     models.StringSlice{},
		GenreTags:     models.StringSlice{},
		CustomTags:    models.StringSlice{},
	}
}

// applyPayload overwrites book fields with values present and non-empty in
// the payload. It returns coercion problems (non-numeric numbers, bad
// dates) as user-facing messages.
func applyPayload(book *models.Book, p *BookFormPayload) []string {
	msgs := []string{}

	if p.Title != "" {
		book.Title = strings.TrimSpace(p.Title)
	}
	if p.Subtitle != "" {
		s := strings.TrimSpace(p.Subtitle)
		book.Subtitle = &s
	}
	if p.Description != "" {
		book.Description = strings.TrimSpace(p.Description)
	}
	if p.Author != "" {
		book.Author = strings.TrimSpace(p.Author)
	}
	if p.CoAuthors != "" {
		book.CoAuthors = parseStringSlice(p.CoAuthors)
	}
	if p.Language != "" {
		book.Language = strings.TrimSpace(p.Language)
	}
	if p.PageCount != "" {
		if n, ok := parseIntField(p.PageCount); ok {
			book.PageCount = &n
		} else {
			msgs = append(msgs, "Page count must be a number")
		}
	}
	if p.PublicationDate != "" {
		if t, ok := parseDateField(p.PublicationDate); ok {
			book.PublicationDate = &t
		} else {
			msgs = append(msgs, "Publication date must be a valid date")
		}
	}
	if p.ISBN != "" {
		s := strings.TrimSpace(p.ISBN)
		book.ISBN = &s
	}
	if p.Edition != "" {
		book.Edition = p.Edition
	}
	if p.Publisher != "" {
		s := strings.TrimSpace(p.Publisher)
		book.Publisher = &s
	}
	if p.Category != "" {
		book.Category = strings.TrimSpace(p.Category)
	}
	if p.GenreTags != "" {
		book.GenreTags = parseStringSlice(p.GenreTags)
	}
	if p.TargetAudience != "" {
		book.TargetAudience = p.TargetAudience
	}
	if p.CustomTags != "" {
		book.CustomTags = parseStringSlice(p.CustomTags)
	}
	if p.CopyrightType != "" {
		book.CopyrightType = p.CopyrightType
	}
	if p.CopyrightYear != "" {
		if n, ok := parseIntField(p.CopyrightYear); ok {
			book.CopyrightYear = n
		} else {
			msgs = append(msgs, "Copyright year must be a number")
		}
	}
	if p.CopyrightHolder != "" {
		s := strings.TrimSpace(p.CopyrightHolder)
		book.CopyrightHolder = &s
	}
	if p.Price != "" {
		if f, ok := parseFloatField(p.Price); ok {
			book.Price = f
		} else {
			msgs = append(msgs, "Price must be a number")
		}
	}
	if p.Currency != "" {
		book.Currency = p.Currency
	}

	if p.AllowDownload != "" {
		book.AllowDownload = parseBoolField(p.AllowDownload)
	}
	if p.AllowPreview != "" {
		book.AllowPreview = parseBoolField(p.AllowPreview)
	}
	if p.IsExclusive != "" {
		book.IsExclusive = parseBoolField(p.IsExclusive)
	}
	if p.PreOrderEnabled != "" {
		book.PreOrderEnabled = parseBoolField(p.PreOrderEnabled)
	}
	if p.RightsConfirmed != "" {
		book.RightsConfirmed = parseBoolField(p.RightsConfirmed)
	}
	if p.TermsAccepted != "" {
		book.TermsAccepted = parseBoolField(p.TermsAccepted)
	}
	if p.EmailOptIn != "" {
		book.EmailOptIn = parseBoolField(p.EmailOptIn)
	}

	return msgs
}

func attachStoredFiles(book *models.Book, stored map[string]uploads.StoredFile) {
	for field, sf := range stored {
		setFilePath(book, field, sf)
	}
}

// replaceStoredFiles swaps in newly uploaded files and deletes the paths
// they supersede.
func replaceStoredFiles(book *models.Book, stored map[string]uploads.StoredFile, store *uploads.Store) {
	for field, sf := range stored {
		if old := currentFilePath(book, field); old != "" {
			store.Remove(old)
		}
		setFilePath(book, field, sf)
	}
}

func currentFilePath(book *models.Book, field string) string {
	var p *string
	switch field {
	case "frontCover":
		p = book.FrontCover
	case "backCover":
		p = book.BackCover
	case "qrCode":
		p = book.QRCode
	case "manuscript":
		p = book.Manuscript
	case "samplePdf":
		p = book.SamplePDF
	}
	if p == nil {
		return ""
	}
	return *p
}

func setFilePath(book *models.Book, field string, sf uploads.StoredFile) {
	path := sf.Path
	switch field {
	case "frontCover":
		book.FrontCover = &path
	case "backCover":
		book.BackCover = &path
	case "qrCode":
		book.QRCode = &path
	case "manuscript":
		book.Manuscript = &path
		book.ManuscriptSize = sf.Size
	case "samplePdf":
		book.SamplePDF = &path
	}
}

// applyDerivedFields fills values that fall back to other fields at save
// time.
func applyDerivedFields(book *models.Book) {
	if (book.CopyrightHolder == nil || *book.CopyrightHolder == "") && book.Author != "" {
		holder := book.Author
		book.CopyrightHolder = &holder
	}
}
