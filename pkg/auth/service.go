package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/mebookmeta/backend/pkg/models"
	"github.com/mebookmeta/backend/pkg/notify"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	tokenValidity  = 7 * 24 * time.Hour
	loginOTPExpiry = 5 * time.Minute
)

// SessionClaims is the payload of the token issued once a profile is
// complete.
type SessionClaims struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

type Service struct {
	db        *bun.DB
	sender    notify.Sender
	jwtSecret []byte
}

func NewService(db *bun.DB, sender notify.Sender, jwtSecret string) *Service {
	return &Service{db: db, sender: sender, jwtSecret: []byte(jwtSecret)}
}

// purgeStale deletes incomplete sessions older than the session TTL.
// SQLite has no TTL deletes, so expiry is enforced lazily before each
// operation.
func (svc *Service) purgeStale(ctx context.Context) error {
	cutoff := time.Now().Add(-models.SessionTTL)

	_, err := svc.db.
		NewDelete().
		Model((*models.IdentifierSession)(nil)).
		Where("step < ?", models.StepComplete).
		Where("created_at < ?", cutoff).
		Exec(ctx)

	return errors.WithStack(err)
}

func (svc *Service) retrieveSession(ctx context.Context, identifier string) (*models.IdentifierSession, error) {
	session := &models.IdentifierSession{}

	err := svc.db.
		NewSelect().
		Model(session).
		Where("s.identifier = ?", identifier).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	return session, nil
}

// Register starts the flow for a new identifier: generates a code, stores
// it at step 1, and dispatches it. An existing session means the user
// should log in instead.
func (svc *Service) Register(ctx context.Context, identifier string) (string, error) {
	if !notify.IsEmail(identifier) && !notify.IsPhone(identifier) {
		return "", errcodes.BadRequest("Invalid email or phone format")
	}

	if err := svc.purgeStale(ctx); err != nil {
		return "", errors.WithStack(err)
	}

	existing, err := svc.retrieveSession(ctx, identifier)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if existing != nil {
		return "", errcodes.BadRequest("User already registered. Please login.")
	}

	code, err := generateOTP(otpLength)
	if err != nil {
		return "", errors.WithStack(err)
	}

	now := time.Now()
	session := &models.IdentifierSession{
		Identifier: identifier,
		OTP:        code,
		Step:       models.StepIssued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = svc.db.
		NewInsert().
		Model(session).
		Exec(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if err := svc.sender.SendOTP(ctx, identifier, code); err != nil {
		return "", errors.WithStack(err)
	}

	return code, nil
}

// VerifyOTP advances a session to step 2 when the code matches and has not
// expired.
func (svc *Service) VerifyOTP(ctx context.Context, identifier, code string) error {
	if err := svc.purgeStale(ctx); err != nil {
		return errors.WithStack(err)
	}

	session := &models.IdentifierSession{}
	err := svc.db.
		NewSelect().
		Model(session).
		Where("s.identifier = ?", identifier).
		Where("s.otp = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.BadRequest("Invalid or expired OTP")
		}
		return errors.WithStack(err)
	}

	if session.OTPExpiresAt != nil && time.Now().After(*session.OTPExpiresAt) {
		return errcodes.BadRequest("Invalid or expired OTP")
	}

	// Step only moves forward.
	if session.Step >= models.StepVerified {
		return nil
	}

	session.Step = models.StepVerified
	session.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(session).
		Column("step", "updated_at").
		WherePK().
		Exec(ctx)

	return errors.WithStack(err)
}

// CompleteProfile stores the user's details, finishes the flow, and issues
// a signed session token.
func (svc *Service) CompleteProfile(ctx context.Context, identifier, name, dob, gender string) (*models.IdentifierSession, string, error) {
	if err := svc.purgeStale(ctx); err != nil {
		return nil, "", errors.WithStack(err)
	}

	session, err := svc.retrieveSession(ctx, identifier)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	if session == nil {
		return nil, "", errcodes.BadRequest("No OTP session found. Please verify again.")
	}
	if session.Step != models.StepVerified {
		return nil, "", errcodes.BadRequest("OTP not verified yet.")
	}

	session.Name = &name
	session.DOB = &dob
	session.Gender = &gender
	session.Step = models.StepComplete
	session.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(session).
		Column("name", "dob", "gender", "step", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	token, err := svc.issueToken(session)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	return session, token, nil
}

// SendLoginOTP issues a fresh short-lived code for an already registered
// identifier and resets the flow to step 1.
func (svc *Service) SendLoginOTP(ctx context.Context, identifier string) (string, error) {
	if !notify.IsEmail(identifier) && !notify.IsPhone(identifier) {
		return "", errcodes.BadRequest("Invalid email or phone format")
	}

	if err := svc.purgeStale(ctx); err != nil {
		return "", errors.WithStack(err)
	}

	session, err := svc.retrieveSession(ctx, identifier)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if session == nil {
		return "", errcodes.BadRequest("User not found. Please register first.")
	}

	code, err := generateOTP(otpLength)
	if err != nil {
		return "", errors.WithStack(err)
	}

	expiresAt := time.Now().Add(loginOTPExpiry)
	session.OTP = code
	session.Step = models.StepIssued
	session.OTPExpiresAt = &expiresAt
	session.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(session).
		Column("otp", "step", "otp_expires_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if err := svc.sender.SendOTP(ctx, identifier, code); err != nil {
		return "", errors.WithStack(err)
	}

	return code, nil
}

func (svc *Service) issueToken(session *models.IdentifierSession) (string, error) {
	name := ""
	if session.Name != nil {
		name = *session.Name
	}

	now := time.Now()
	claims := SessionClaims{
		ID:         session.ID,
		Identifier: session.Identifier,
		Name:       name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return token, nil
}

// ParseToken validates a session token and returns its claims.
func (svc *Service) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return svc.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return claims, nil
}
