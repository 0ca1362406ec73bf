package books

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/mebookmeta/backend/pkg/models"
	"github.com/segmentio/encoding/json"
)

// BookFormPayload carries the multipart form fields of a submission. All
// values arrive as strings and are coerced explicitly; see the parse
// helpers below.
type BookFormPayload struct {
	Title           string `form:"title" json:"title,omitempty"`
	Subtitle        string `form:"subtitle" json:"subtitle,omitempty"`
	Description     string `form:"description" json:"description,omitempty"`
	Author          string `form:"author" json:"author,omitempty"`
	CoAuthors       string `form:"coAuthors" json:"coAuthors,omitempty"`
	Language        string `form:"language" json:"language,omitempty"`
	PageCount       string `form:"pageCount" json:"pageCount,omitempty"`
	PublicationDate string `form:"publicationDate" json:"publicationDate,omitempty" validate:"omitempty,date"`
	ISBN            string `form:"isbn" json:"isbn,omitempty"`
	Edition         string `form:"edition" json:"edition,omitempty"`
	Publisher       string `form:"publisher" json:"publisher,omitempty"`
	Category        string `form:"category" json:"category,omitempty"`
	GenreTags       string `form:"genreTags" json:"genreTags,omitempty"`
	TargetAudience  string `form:"targetAudience" json:"targetAudience,omitempty"`
	CustomTags      string `form:"customTags" json:"customTags,omitempty"`
	CopyrightType   string `form:"copyrightType" json:"copyrightType,omitempty"`
	CopyrightYear   string `form:"copyrightYear" json:"copyrightYear,omitempty"`
	CopyrightHolder string `form:"copyrightHolder" json:"copyrightHolder,omitempty"`
	Price           string `form:"price" json:"price,omitempty"`
	Currency        string `form:"currency" json:"currency,omitempty"`
	AllowDownload   string `form:"allowDownload" json:"allowDownload,omitempty"`
	AllowPreview    string `form:"allowPreview" json:"allowPreview,omitempty"`
	IsExclusive     string `form:"isExclusive" json:"isExclusive,omitempty"`
	PreOrderEnabled string `form:"preOrderEnabled" json:"preOrderEnabled,omitempty"`
	RightsConfirmed string `form:"rightsConfirmed" json:"rightsConfirmed,omitempty"`
	TermsAccepted   string `form:"termsAccepted" json:"termsAccepted,omitempty"`
	EmailOptIn      string `form:"emailOptIn" json:"emailOptIn,omitempty"`

	FormFiles map[string]*multipart.FileHeader `form:"-" json:"-"`
}

type UpdateStatusPayload struct {
	Status          string `json:"status" validate:"required,oneof=draft pending_review approved rejected archived"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

type ListBooksQuery struct {
	Page     int      `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
	Limit    int      `query:"limit" json:"limit,omitempty" default:"12" validate:"min=1,max=100"`
	Status   *string  `query:"status" json:"status,omitempty" validate:"omitempty,oneof=draft pending_review approved rejected archived"`
	Category *string  `query:"category" json:"category,omitempty"`
	Search   *string  `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
	Author   *string  `query:"author" json:"author,omitempty"`
	Language *string  `query:"language" json:"language,omitempty"`
	MinPrice *float64 `query:"minPrice" json:"minPrice,omitempty" validate:"omitempty,min=0"`
	MaxPrice *float64 `query:"maxPrice" json:"maxPrice,omitempty" validate:"omitempty,min=0"`
	SortBy   string   `query:"sortBy" json:"sortBy,omitempty" default:"createdAt" validate:"oneof=createdAt title price viewCount downloadCount"`
	Order    string   `query:"order" json:"order,omitempty" default:"desc" validate:"oneof=asc desc"`
}

// parseStringSlice accepts either a JSON array string or a comma-separated
// list, matching how frontend form builders serialize multi-value fields.
func parseStringSlice(s string) models.StringSlice {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.StringSlice{}
	}

	var arr []string
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return arr
	}

	out := models.StringSlice{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolField(s string) bool {
	return s == "true" || s == "1"
}

func parseIntField(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseDateField(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// validateBook checks a fully assembled record and returns every violated
// rule at once, not just the first.
func validateBook(book *models.Book) []string {
	msgs := []string{}

	if strings.TrimSpace(book.Title) == "" {
		msgs = append(msgs, "Book title is required")
	} else if len(book.Title) > 300 {
		msgs = append(msgs, "Title cannot exceed 300 characters")
	}

	if book.Subtitle != nil && len(*book.Subtitle) > 300 {
		msgs = append(msgs, "Subtitle cannot exceed 300 characters")
	}

	if strings.TrimSpace(book.Description) == "" {
		msgs = append(msgs, "Description is required")
	} else if len(book.Description) > 2000 {
		msgs = append(msgs, "Description cannot exceed 2000 characters")
	}

	if strings.TrimSpace(book.Author) == "" {
		msgs = append(msgs, "Author name is required")
	} else if len(book.Author) > 200 {
		msgs = append(msgs, "Author name cannot exceed 200 characters")
	}

	if len(book.CoAuthors) > 10 {
		msgs = append(msgs, "Maximum 10 co-authors allowed")
	}

	if strings.TrimSpace(book.Language) == "" {
		msgs = append(msgs, "Language is required")
	}

	if book.PageCount != nil && *book.PageCount < 1 {
		msgs = append(msgs, "Page count must be at least 1")
	}

	if book.ISBN != nil && len(*book.ISBN) > 20 {
		msgs = append(msgs, "ISBN cannot exceed 20 characters")
	}

	if book.Edition != "" && !contains(models.BookEditions, book.Edition) {
		msgs = append(msgs, "Invalid edition")
	}

	if book.Publisher != nil && len(*book.Publisher) > 200 {
		msgs = append(msgs, "Publisher cannot exceed 200 characters")
	}

	if strings.TrimSpace(book.Category) == "" {
		msgs = append(msgs, "Category is required")
	} else if !contains(models.BookCategories, book.Category) {
		msgs = append(msgs, "Invalid category")
	}

	if len(book.GenreTags) > 5 {
		msgs = append(msgs, "Maximum 5 genre tags allowed")
	}

	if book.TargetAudience != "" && !contains(models.BookTargetAudiences, book.TargetAudience) {
		msgs = append(msgs, "Invalid target audience")
	}

	if len(book.CustomTags) > 15 {
		msgs = append(msgs, "Maximum 15 custom tags allowed")
	}

	if book.CopyrightType != "" && !contains(models.BookCopyrightTypes, book.CopyrightType) {
		msgs = append(msgs, "Invalid copyright type")
	}

	if book.CopyrightYear != 0 && (book.CopyrightYear < 1900 || book.CopyrightYear > 2100) {
		msgs = append(msgs, "Copyright year must be between 1900 and 2100")
	}

	if book.CopyrightHolder != nil && len(*book.CopyrightHolder) > 200 {
		msgs = append(msgs, "Copyright holder cannot exceed 200 characters")
	}

	if book.Price < 0 {
		msgs = append(msgs, "Price must be 0 or greater")
	}

	if book.Currency != "" && !contains(models.BookCurrencies, book.Currency) {
		msgs = append(msgs, fmt.Sprintf("Invalid currency %q", book.Currency))
	}

	if !book.RightsConfirmed {
		msgs = append(msgs, "You must confirm that you hold publishing rights")
	}

	if !book.TermsAccepted {
		msgs = append(msgs, "You must accept the Terms of Service")
	}

	return msgs
}
