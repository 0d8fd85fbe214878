package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/database/databasetest"
	"github.com/fkhayef/reimburse/internal/user"
)

const testPassword = "long-enough-pw"

type sentCode struct {
	to, username, code string
}

type fakeMailer struct {
	sent []sentCode
	err  error
}

func (m *fakeMailer) SendPasswordResetOTP(_ context.Context, to, username, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{to, username, code})
	return nil
}

type fixture struct {
	db     *database.DB
	svc    *Service
	users  *user.Service
	mailer *fakeMailer
	admin  *user.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	userRepo := user.NewRepository(db)
	users := user.NewService(userRepo)
	mailer := &fakeMailer{}

	admin, err := users.Bootstrap(context.Background(), "admin", "admin@example.com", testPassword, true)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	return &fixture{
		db:     db,
		svc:    NewService(db, userRepo, NewOTPRepository(db), newTestTokens(), mailer, zerolog.Nop(), 10*time.Minute),
		users:  users,
		mailer: mailer,
		admin:  admin,
	}
}

func (f *fixture) requestCode(t *testing.T) string {
	t.Helper()
	before := len(f.mailer.sent)
	if err := f.svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "admin@example.com"}); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(f.mailer.sent) != before+1 {
		t.Fatalf("no code mailed")
	}
	return f.mailer.sent[len(f.mailer.sent)-1].code
}

func TestLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, identifier := range []string{"admin", "admin@example.com", "ADMIN@example.com"} {
		resp, err := f.svc.Login(ctx, &LoginRequest{Identifier: identifier, Password: testPassword})
		if err != nil {
			t.Fatalf("Login(%s): %v", identifier, err)
		}
		if resp.User.ID != f.admin.ID || !resp.User.IsStaff || resp.Access == "" || resp.Refresh == "" {
			t.Errorf("Login(%s) = %+v", identifier, resp)
		}
		userID, err := f.svc.tokens.VerifyAccessToken(resp.Access)
		if err != nil || userID != f.admin.ID {
			t.Errorf("access token user %d err %v", userID, err)
		}
	}

	if _, err := f.users.Bootstrap(ctx, "gone", "gone@example.com", testPassword, false); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := f.db.ExecContext(ctx, `UPDATE users SET is_active = $2 WHERE username = $1`, "gone", false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := f.users.Bootstrap(ctx, "viewer", "viewer@example.com", testPassword, false); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := f.db.ExecContext(ctx, `UPDATE users SET is_staff = $2 WHERE username = $1`, "viewer", false); err != nil {
		t.Fatalf("unstaff: %v", err)
	}

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{"missing password", LoginRequest{Identifier: "admin"}, ErrCredentialsRequired},
		{"missing identifier", LoginRequest{Password: testPassword}, ErrCredentialsRequired},
		{"unknown", LoginRequest{Identifier: "nobody", Password: testPassword}, ErrUnknownIdentifier},
		{"wrong password", LoginRequest{Identifier: "admin", Password: "wrong-password"}, ErrInvalidPassword},
		{"disabled", LoginRequest{Identifier: "gone", Password: testPassword}, ErrAccountDisabled},
		{"not staff", LoginRequest{Identifier: "viewer", Password: testPassword}, ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Login(ctx, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, &LoginRequest{Identifier: "admin", Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resp, err := f.svc.Refresh(ctx, &RefreshRequest{Refresh: login.Refresh})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := f.svc.tokens.VerifyAccessToken(resp.Access); err != nil {
		t.Errorf("refreshed access token: %v", err)
	}

	if _, err := f.svc.Refresh(ctx, &RefreshRequest{Refresh: login.Access}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("access token as refresh err = %v", err)
	}
	if _, err := f.svc.Refresh(ctx, &RefreshRequest{}); !errors.Is(err, ErrRefreshRequired) {
		t.Errorf("empty err = %v", err)
	}
}

func TestPasswordRecovery(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	code := f.requestCode(t)
	if sent := f.mailer.sent[0]; sent.to != "admin@example.com" || sent.username != "admin" {
		t.Errorf("mailed %+v", sent)
	}

	token, err := f.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "admin@example.com", OTP: code})
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "admin@example.com", OTP: code}); !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("reused code err = %v, want ErrInvalidOTP", err)
	}

	const newPassword = "a-new-secret-phrase"
	mismatch := &ResetPasswordRequest{ResetToken: token, NewPassword: newPassword, ConfirmPassword: newPassword + "x"}
	if err := f.svc.ResetPassword(ctx, mismatch); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch err = %v", err)
	}
	weak := &ResetPasswordRequest{ResetToken: token, NewPassword: "12345678", ConfirmPassword: "12345678"}
	if err := f.svc.ResetPassword(ctx, weak); !errors.Is(err, user.ErrWeakPassword) {
		t.Errorf("weak err = %v", err)
	}

	reset := &ResetPasswordRequest{ResetToken: token, NewPassword: newPassword, ConfirmPassword: newPassword}
	if err := f.svc.ResetPassword(ctx, reset); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, reset); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("reused reset token err = %v, want ErrInvalidResetToken", err)
	}

	if _, err := f.svc.Login(ctx, &LoginRequest{Identifier: "admin", Password: testPassword}); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("old password err = %v", err)
	}
	if _, err := f.svc.Login(ctx, &LoginRequest{Identifier: "admin", Password: newPassword}); err != nil {
		t.Errorf("new password: %v", err)
	}

	var remaining int
	if err := f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM password_reset_otps`).Scan(&remaining); err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 0 {
		t.Errorf("%d codes left after reset", remaining)
	}
}

func TestForgotPassword_Silent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if err := f.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "nobody@example.com"}); err != nil {
		t.Errorf("unknown email err = %v", err)
	}
	if err := f.svc.ForgotPassword(ctx, &ForgotPasswordRequest{}); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("empty email err = %v", err)
	}

	f.mailer.err = errors.New("smtp down")
	if err := f.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "admin@example.com"}); err != nil {
		t.Errorf("mail failure err = %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("sent %d mails", len(f.mailer.sent))
	}
}

type stalledMailer struct {
	deadline bool
}

func (m *stalledMailer) SendPasswordResetOTP(ctx context.Context, _, _, _ string) error {
	_, m.deadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestForgotPassword_MailIsBounded(t *testing.T) {
	f := setup(t)
	mailer := &stalledMailer{}
	f.svc.mailer = mailer
	f.svc.mailTimeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		done <- f.svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "admin@example.com"})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("stalled mail err = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ForgotPassword blocked on a stalled mailer")
	}
	if !mailer.deadline {
		t.Error("mailer context carried no deadline")
	}
}

func TestVerifyOTP_Rejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	code := f.requestCode(t)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	tests := []struct {
		name    string
		req     VerifyOTPRequest
		wantErr error
	}{
		{"missing otp", VerifyOTPRequest{Email: "admin@example.com"}, ErrOTPFieldsRequired},
		{"wrong code", VerifyOTPRequest{Email: "admin@example.com", OTP: wrong}, ErrInvalidOTP},
		{"unknown email", VerifyOTPRequest{Email: "nobody@example.com", OTP: code}, ErrInvalidOTP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.VerifyOTP(ctx, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	f.svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	if _, err := f.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "admin@example.com", OTP: code}); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("expired err = %v, want ErrOTPExpired", err)
	}
}

func TestResetPassword_RequiresVerifiedCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// A well-signed token alone is not enough
	token, err := f.svc.tokens.Issue(f.admin.ID, TokenReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := &ResetPasswordRequest{ResetToken: token, NewPassword: "a-new-secret-phrase", ConfirmPassword: "a-new-secret-phrase"}
	if err := f.svc.ResetPassword(ctx, req); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("err = %v, want ErrInvalidResetToken", err)
	}

	access, _ := f.svc.tokens.Issue(f.admin.ID, TokenAccess)
	req.ResetToken = access
	if err := f.svc.ResetPassword(ctx, req); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("access token err = %v", err)
	}

	f.svc.tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _ := f.svc.tokens.Issue(f.admin.ID, TokenReset)
	f.svc.tokens.now = time.Now
	req.ResetToken = stale
	if err := f.svc.ResetPassword(ctx, req); !errors.Is(err, ErrResetTokenExpired) {
		t.Errorf("stale token err = %v, want ErrResetTokenExpired", err)
	}

	if err := f.svc.ResetPassword(ctx, &ResetPasswordRequest{ResetToken: token}); !errors.Is(err, ErrResetFieldsRequired) {
		t.Errorf("missing fields err = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if err := f.svc.ChangePassword(ctx, f.admin.ID, &ChangePasswordRequest{OldPassword: "wrong-password", NewPassword: "another-phrase"}); !errors.Is(err, ErrOldPasswordIncorrect) {
		t.Errorf("wrong old err = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, f.admin.ID, &ChangePasswordRequest{OldPassword: testPassword, NewPassword: "admin123"}); !errors.Is(err, user.ErrWeakPassword) {
		t.Errorf("similar to username err = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, f.admin.ID, &ChangePasswordRequest{OldPassword: testPassword}); !errors.Is(err, ErrChangeFieldsRequired) {
		t.Errorf("missing err = %v", err)
	}

	if err := f.svc.ChangePassword(ctx, f.admin.ID, &ChangePasswordRequest{OldPassword: testPassword, NewPassword: "another-phrase"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := f.svc.Login(ctx, &LoginRequest{Identifier: "admin", Password: "another-phrase"}); err != nil {
		t.Errorf("login with changed password: %v", err)
	}
}
