package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes what a signed token may be used for
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenReset   TokenType = "password_reset"
)

var (
	errTokenInvalid = errors.New("token is invalid")
	errTokenExpired = errors.New("token is expired")
)

// Claims are carried by every token the service issues
type Claims struct {
	UserID    int64     `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing secret and lifetimes
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// TokenManager issues and verifies HS256 tokens
type TokenManager struct {
	secret []byte
	ttl    map[TokenType]time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager for cfg
func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl: map[TokenType]time.Duration{
			TokenAccess:  cfg.AccessTTL,
			TokenRefresh: cfg.RefreshTTL,
			TokenReset:   cfg.ResetTTL,
		},
		now: time.Now,
	}
}

// Issue signs a token of type typ for userID
func (m *TokenManager) Issue(userID int64, typ TokenType) (string, error) {
	ttl, ok := m.ttl[typ]
	if !ok {
		return "", fmt.Errorf("unknown token type %q", typ)
	}

	now := m.now()
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and type of token and returns its claims.
// Expired tokens yield errTokenExpired; anything else wrong yields errTokenInvalid.
func (m *TokenManager) Verify(token string, typ TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}
	if claims.TokenType != typ || claims.UserID < 1 {
		return nil, errTokenInvalid
	}
	return claims, nil
}

// VerifyAccessToken implements middleware.TokenVerifier
func (m *TokenManager) VerifyAccessToken(token string) (int64, error) {
	claims, err := m.Verify(token, TokenAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
