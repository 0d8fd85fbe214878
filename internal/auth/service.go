package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/notification"
	"github.com/fkhayef/reimburse/internal/user"
	"github.com/fkhayef/reimburse/pkg/apperror"
)

// Common errors
var (
	ErrCredentialsRequired  = apperror.Validation("CREDENTIALS_REQUIRED", "Username/Email and password are required")
	ErrUnknownIdentifier    = apperror.Authentication("INVALID_IDENTIFIER", "Invalid username or email")
	ErrInvalidPassword      = apperror.Authentication("INVALID_PASSWORD", "Invalid password")
	ErrAccountDisabled      = apperror.Authorization("ACCOUNT_DISABLED", "Account is disabled. Contact administrator")
	ErrAccessDenied         = apperror.Authorization("ACCESS_DENIED", "Access denied")
	ErrRefreshRequired      = apperror.Validation("REFRESH_REQUIRED", "refresh is required")
	ErrInvalidRefreshToken  = apperror.Authentication("INVALID_TOKEN", "Token is invalid or expired")
	ErrEmailRequired        = apperror.Validation("EMAIL_REQUIRED", "email is required")
	ErrOTPFieldsRequired    = apperror.Validation("OTP_FIELDS_REQUIRED", "email and otp are required")
	ErrInvalidOTP           = apperror.Validation("INVALID_OTP", "Invalid OTP")
	ErrOTPExpired           = apperror.Validation("OTP_EXPIRED", "OTP expired")
	ErrResetFieldsRequired  = apperror.Validation("RESET_FIELDS_REQUIRED", "reset_token, new_password, confirm_password required")
	ErrPasswordMismatch     = apperror.Validation("PASSWORD_MISMATCH", "Passwords do not match")
	ErrResetTokenExpired    = apperror.Validation("RESET_TOKEN_EXPIRED", "Reset token expired")
	ErrInvalidResetToken    = apperror.Validation("INVALID_RESET_TOKEN", "Invalid reset token")
	ErrInvalidUser          = apperror.Validation("INVALID_USER", "Invalid user")
	ErrChangeFieldsRequired = apperror.Validation("CHANGE_FIELDS_REQUIRED", "old_password and new_password required")
	ErrOldPasswordIncorrect = apperror.Validation("OLD_PASSWORD_INCORRECT", "Old password incorrect")
)

// Messages returned by the recovery endpoints
const (
	MsgOTPSent          = "If the email exists, OTP has been sent"
	MsgOTPVerified      = "OTP verified"
	MsgPasswordReset    = "Password reset successful"
	MsgPasswordChanged  = "Password changed successfully"
	MsgLogoutSuccessful = "Logout successful"
)

// MailTimeout bounds the password reset mail sent on the request path
const MailTimeout = 10 * time.Second

// Mailer delivers reset codes
type Mailer interface {
	SendPasswordResetOTP(ctx context.Context, to, username, code string) error
}

var _ Mailer = (*notification.Service)(nil)

// Service handles login, token refresh and password recovery
type Service struct {
	db     *database.DB
	users  *user.Repository
	otps   *OTPRepository
	tokens *TokenManager
	mailer Mailer
	log    zerolog.Logger
	otpTTL time.Duration
	now    func() time.Time

	mailTimeout time.Duration
}

// NewService creates a new auth service
func NewService(db *database.DB, users *user.Repository, otps *OTPRepository, tokens *TokenManager, mailer Mailer, log zerolog.Logger, otpTTL time.Duration) *Service {
	return &Service{
		db:     db,
		users:  users,
		otps:   otps,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		otpTTL: otpTTL,
		now:    time.Now,

		mailTimeout: MailTimeout,
	}
}

// Login checks credentials for a username or email and issues a token pair
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, ErrCredentialsRequired
	}

	u, err := s.users.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if u == nil {
		if u, err = s.users.GetByEmail(ctx, identifier); err != nil {
			return nil, err
		}
	}
	if u == nil {
		return nil, ErrUnknownIdentifier
	}

	if !user.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidPassword
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	if !u.IsStaff {
		return nil, ErrAccessDenied
	}

	access, err := s.tokens.Issue(u.ID, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(u.ID, TokenRefresh)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Access:  access,
		Refresh: refresh,
		User: &LoginUser{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			IsStaff:  u.IsStaff,
		},
	}, nil
}

// Refresh issues a new access token for a valid refresh token of an active account
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	if strings.TrimSpace(req.Refresh) == "" {
		return nil, ErrRefreshRequired
	}

	claims, err := s.tokens.Verify(req.Refresh, TokenRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	access, err := s.tokens.Issue(u.ID, TokenAccess)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{Access: access}, nil
}

// ForgotPassword mails a reset code to the active account with that email. The outcome
// is never revealed to the caller.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return ErrEmailRequired
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		s.log.Warn().Msg("password reset requested for unknown email")
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	if _, err := s.otps.Create(ctx, u.ID, code); err != nil {
		return err
	}

	mailCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.mailer.SendPasswordResetOTP(mailCtx, u.Email, u.Username, code); err != nil {
		s.log.Error().Err(err).Int64("user_id", u.ID).Msg("failed to send password reset otp")
		return nil
	}

	s.log.Info().Int64("user_id", u.ID).Msg("password reset otp sent")
	return nil
}

// VerifyOTP consumes a mailed code and returns a signed reset token
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (string, error) {
	email, code := strings.TrimSpace(req.Email), strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return "", ErrOTPFieldsRequired
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !u.IsActive {
		return "", ErrInvalidOTP
	}

	o, err := s.otps.LatestUnverified(ctx, u.ID, code)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", ErrInvalidOTP
	}
	if o.ExpiredAt(s.now(), s.otpTTL) {
		return "", ErrOTPExpired
	}

	verified, err := s.otps.MarkVerified(ctx, o.ID)
	if err != nil {
		return "", err
	}
	if !verified {
		return "", ErrInvalidOTP
	}

	return s.tokens.Issue(u.ID, TokenReset)
}

// ResetPassword sets a new password for the holder of a reset token. The token is only
// honored while a verified code exists, and every code of the user is deleted with the
// password change, so each token works once.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if req.ResetToken == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return ErrResetFieldsRequired
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	claims, err := s.tokens.Verify(req.ResetToken, TokenReset)
	if err != nil {
		if errors.Is(err, errTokenExpired) {
			return ErrResetTokenExpired
		}
		return ErrInvalidResetToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return ErrInvalidUser
	}

	if err := user.ValidatePassword(req.NewPassword, u.Username); err != nil {
		return err
	}
	hash, err := user.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		ok, err := s.otps.HasVerified(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidResetToken
		}
		if err := s.users.SetPassword(ctx, tx, u.ID, hash); err != nil {
			return err
		}
		return s.otps.DeleteForUser(ctx, tx, u.ID)
	})
}

// ChangePassword replaces the password of userID after checking the current one
func (s *Service) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrChangeFieldsRequired
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrUserNotFound
	}
	if !user.CheckPassword(u.PasswordHash, req.OldPassword) {
		return ErrOldPasswordIncorrect
	}

	if err := user.ValidatePassword(req.NewPassword, u.Username); err != nil {
		return err
	}
	hash, err := user.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, s.db, u.ID, hash)
}
