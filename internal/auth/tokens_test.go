package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokens() *TokenManager {
	return NewTokenManager(TokenConfig{
		Secret:     strings.Repeat("k", 32),
		AccessTTL:  20 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		ResetTTL:   10 * time.Minute,
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTestTokens()

	for _, typ := range []TokenType{TokenAccess, TokenRefresh, TokenReset} {
		token, err := tm.Issue(42, typ)
		if err != nil {
			t.Fatalf("Issue(%s): %v", typ, err)
		}
		claims, err := tm.Verify(token, typ)
		if err != nil {
			t.Fatalf("Verify(%s): %v", typ, err)
		}
		if claims.UserID != 42 || claims.TokenType != typ || claims.ID == "" {
			t.Errorf("claims = %+v", claims)
		}
	}

	if _, err := tm.Issue(42, "session"); err == nil {
		t.Error("unknown token type should fail")
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := newTestTokens()
	refresh, err := tm.Issue(7, TokenRefresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tm.VerifyAccessToken(refresh); !errors.Is(err, errTokenInvalid) {
		t.Errorf("refresh used as access err = %v", err)
	}

	other := NewTokenManager(TokenConfig{Secret: strings.Repeat("x", 32), AccessTTL: time.Minute})
	foreign, _ := other.Issue(7, TokenAccess)
	if _, err := tm.VerifyAccessToken(foreign); !errors.Is(err, errTokenInvalid) {
		t.Errorf("foreign signature err = %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, TokenType: TokenAccess}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tm.VerifyAccessToken(unsigned); !errors.Is(err, errTokenInvalid) {
		t.Errorf("alg none err = %v", err)
	}

	if _, err := tm.VerifyAccessToken("not-a-token"); !errors.Is(err, errTokenInvalid) {
		t.Errorf("garbage err = %v", err)
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	tm := newTestTokens()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, err := tm.Issue(1, TokenReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tm.now = func() time.Time { return issued.Add(9 * time.Minute) }
	if _, err := tm.Verify(token, TokenReset); err != nil {
		t.Errorf("within ttl: %v", err)
	}

	tm.now = func() time.Time { return issued.Add(11 * time.Minute) }
	if _, err := tm.Verify(token, TokenReset); !errors.Is(err, errTokenExpired) {
		t.Errorf("after ttl err = %v, want errTokenExpired", err)
	}
}

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if len(code) != OTPLength || strings.Trim(code, "0123456789") != "" || code[0] == '0' {
			t.Fatalf("code %q is not %d digits", code, OTPLength)
		}
		seen[code] = true
	}
	if len(seen) < 150 {
		t.Errorf("only %d distinct codes in 200 draws", len(seen))
	}
}
