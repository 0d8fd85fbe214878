package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/reimburse/internal/database"
)

// OTPLength is the number of digits in a reset code
const OTPLength = 6

// OTP is a one-time password reset code
type OTP struct {
	ID         string
	UserID     int64
	Code       string
	IsVerified bool
	CreatedAt  time.Time
}

// ExpiredAt reports whether the code is older than ttl at now
func (o *OTP) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.After(o.CreatedAt.Add(ttl))
}

// generateCode returns a uniformly random code of OTPLength digits, never starting with 0
func generateCode() (string, error) {
	low := int64(1)
	for i := 1; i < OTPLength; i++ {
		low *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9*low))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+low), nil
}

// OTPRepository persists reset codes
type OTPRepository struct {
	db *database.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *database.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create stores a new unverified code for userID
func (r *OTPRepository) Create(ctx context.Context, userID int64, code string) (*OTP, error) {
	o := &OTP{
		ID:        uuid.NewString(),
		UserID:    userID,
		Code:      code,
		CreatedAt: database.Now(),
	}

	query := `
		INSERT INTO password_reset_otps (id, user_id, otp, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, o.ID, o.UserID, o.Code, false, o.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create otp: %w", err)
	}
	return o, nil
}

// LatestUnverified returns the newest unverified code of userID equal to code
func (r *OTPRepository) LatestUnverified(ctx context.Context, userID int64, code string) (*OTP, error) {
	query := `
		SELECT id, user_id, otp, is_verified, created_at
		FROM password_reset_otps
		WHERE user_id = $1 AND otp = $2 AND is_verified = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var o OTP
	err := r.db.QueryRowContext(ctx, query, userID, code, false).Scan(&o.ID, &o.UserID, &o.Code, &o.IsVerified, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return &o, nil
}

// MarkVerified flags an unverified code as used. It reports false when the code was
// already verified or no longer exists.
func (r *OTPRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE password_reset_otps SET is_verified = $2 WHERE id = $1 AND is_verified = $3`, id, true, false)
	if err != nil {
		return false, fmt.Errorf("failed to verify otp: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// HasVerified reports whether userID holds a verified code that has not been consumed
func (r *OTPRepository) HasVerified(ctx context.Context, q database.Querier, userID int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM password_reset_otps WHERE user_id = $1 AND is_verified = $2`, userID, true).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check otp: %w", err)
	}
	return n > 0, nil
}

// DeleteForUser removes every code of userID
func (r *OTPRepository) DeleteForUser(ctx context.Context, q database.Querier, userID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM password_reset_otps WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}
