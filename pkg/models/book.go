package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BookStatusDraft         = "draft"
	BookStatusPendingReview = "pending_review"
	BookStatusApproved      = "approved"
	BookStatusRejected      = "rejected"
	BookStatusArchived      = "archived"
)

var BookStatuses = []string{
	BookStatusDraft,
	BookStatusPendingReview,
	BookStatusApproved,
	BookStatusRejected,
	BookStatusArchived,
}

var BookCategories = []string{
	"fiction",
	"non-fiction",
	"poetry",
	"children",
	"academic",
	"biography",
	"self-help",
	"other",
}

var BookTargetAudiences = []string{
	"children",
	"young-adult",
	"adult",
	"all-ages",
}

var BookEditions = []string{
	"1st Edition",
	"2nd Edition",
	"3rd Edition",
	"Revised Edition",
	"Special Edition",
	"Limited Edition",
	"Collector's Edition",
}

var BookCopyrightTypes = []string{
	"standard",
	"cc-by",
	"cc-by-nc",
	"cc-by-sa",
	"cc-by-nc-nd",
	"public-domain",
}

var BookCurrencies = []string{
	"INR",
	"USD",
	"EUR",
	"GBP",
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string      `bun:",nullzero" json:"title"`
	Slug        string      `bun:",nullzero" json:"slug"`
	Subtitle    *string     `json:"subtitle,omitempty"`
	Description string      `json:"description"`
	Author      string      `json:"author"`
	CoAuthors   StringSlice `json:"coAuthors"`
	Language    string      `bun:",nullzero" json:"language"`

	PageCount       *int       `json:"pageCount,omitempty"`
	PublicationDate *time.Time `json:"publicationDate,omitempty"`
	ISBN            *string    `bun:"isbn" json:"isbn,omitempty"`
	Edition         string     `bun:",nullzero" json:"edition"`
	Publisher       *string    `json:"publisher,omitempty"`

	Category       string      `json:"category"`
	GenreTags      StringSlice `json:"genreTags"`
	TargetAudience string      `json:"targetAudience"`
	CustomTags     StringSlice `json:"customTags"`

	FrontCover     *string `json:"frontCover,omitempty"`
	BackCover      *string `json:"backCover,omitempty"`
	QRCode         *string `bun:"qr_code" json:"qrCode,omitempty"`
	Manuscript     *string `json:"manuscript,omitempty"`
	ManuscriptSize int64   `json:"manuscriptSize"`
	SamplePDF      *string `bun:"sample_pdf" json:"samplePdf,omitempty"`

	CopyrightType   string  `bun:",nullzero" json:"copyrightType"`
	CopyrightYear   int     `json:"copyrightYear"`
	CopyrightHolder *string `json:"copyrightHolder,omitempty"`

	Price    float64 `json:"price"`
	Currency string  `bun:",nullzero" json:"currency"`

	AllowDownload   bool `json:"allowDownload"`
	AllowPreview    bool `json:"allowPreview"`
	IsExclusive     bool `json:"isExclusive"`
	PreOrderEnabled bool `json:"preOrderEnabled"`
	RightsConfirmed bool `json:"rightsConfirmed"`
	TermsAccepted   bool `json:"termsAccepted"`
	EmailOptIn      bool `json:"emailOptIn"`

	Status          string     `bun:",nullzero" json:"status"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`

	ViewCount     int `json:"viewCount"`
	DownloadCount int `json:"downloadCount"`
}

// FilePaths returns every stored file path referenced by the book, for
// cleanup on delete.
func (b *Book) FilePaths() []string {
	paths := []string{}
	for _, p := range []*string{b.FrontCover, b.BackCover, b.QRCode, b.Manuscript, b.SamplePDF} {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	return paths
}
