package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT,
				slug TEXT NOT NULL UNIQUE,
				subtitle TEXT,
				description TEXT NOT NULL DEFAULT '',
				author TEXT NOT NULL DEFAULT '',
				co_authors TEXT NOT NULL DEFAULT '[]',
				language TEXT NOT NULL DEFAULT 'en',
				page_count INTEGER,
				publication_date DATETIME,
				isbn TEXT,
				edition TEXT NOT NULL DEFAULT '1st Edition',
				publisher TEXT,
				category TEXT NOT NULL DEFAULT '',
				genre_tags TEXT NOT NULL DEFAULT '[]',
				target_audience TEXT NOT NULL DEFAULT '',
				custom_tags TEXT NOT NULL DEFAULT '[]',
				front_cover TEXT,
				back_cover TEXT,
				qr_code TEXT,
				manuscript TEXT,
				manuscript_size INTEGER NOT NULL DEFAULT 0,
				sample_pdf TEXT,
				copyright_type TEXT NOT NULL DEFAULT 'standard',
				copyright_year INTEGER NOT NULL DEFAULT 0,
				copyright_holder TEXT,
				price REAL NOT NULL DEFAULT 0,
				currency TEXT NOT NULL DEFAULT 'INR',
				allow_download BOOLEAN NOT NULL DEFAULT TRUE,
				allow_preview BOOLEAN NOT NULL DEFAULT TRUE,
				is_exclusive BOOLEAN NOT NULL DEFAULT FALSE,
				pre_order_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				rights_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
				terms_accepted BOOLEAN NOT NULL DEFAULT FALSE,
				email_opt_in BOOLEAN NOT NULL DEFAULT FALSE,
				status TEXT NOT NULL DEFAULT 'pending_review',
				rejection_reason TEXT,
				approved_at DATETIME,
				view_count INTEGER NOT NULL DEFAULT 0,
				download_count INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_books_status ON books(status)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_books_category_status ON books(category, status)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_books_author ON books(author)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_books_created_at ON books(created_at)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE identifier_sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identifier TEXT NOT NULL UNIQUE,
				otp TEXT NOT NULL DEFAULT '',
				step INTEGER NOT NULL DEFAULT 1,
				name TEXT,
				dob TEXT,
				gender TEXT,
				otp_expires_at DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_identifier_sessions_created_at ON identifier_sessions(created_at)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS identifier_sessions`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DROP TABLE IF EXISTS books`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
