package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess            TokenType = "access"
	TokenTypeRefresh           TokenType = "refresh"
	TokenTypeEmailVerification TokenType = "email_verification"
	TokenTypePasswordReset     TokenType = "password_reset"
)

const (
	// Expiry bounds enforced on every generated token, regardless of the
	// duration the caller asked for.
	minExpirySeconds = 900    // 15 minutes
	maxExpirySeconds = 172800 // 48 hours
)

var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("malformed token payload")
)

// TokenPayload is the application data carried inside a signed token.
// SignedAt is an epoch-milliseconds timestamp set at login/rotation and is
// compared against the user's passwordUpdatedAt to invalidate stale sessions.
type TokenPayload struct {
	IdentityID string
	Email      string
	TokenType  TokenType
	SignedAt   int64
	// ExpiresAt is the token's exp claim in epoch seconds. Populated on
	// verification only; ignored on generation.
	ExpiresAt int64
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type tokenClaims struct {
	IdentityID string    `json:"identityId"`
	Email      string    `json:"email"`
	TokenType  TokenType `json:"tokenType"`
	SignedAt   int64     `json:"signedAt,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact tokens over a shared secret.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// GenerateToken signs the payload with an expiry derived from expiresIn.
// expiresIn accepts raw seconds ("3600") or a suffixed duration ("15m",
// "24h", "2d"); the result is clamped to the [15m, 48h] range.
func (c *TokenCodec) GenerateToken(payload TokenPayload, expiresIn string) (string, error) {
	if payload.IdentityID == "" || payload.Email == "" {
		return "", ErrTokenMalformed
	}

	now := time.Now()
	seconds := ParseExpiry(expiresIn)

	claims := tokenClaims{
		IdentityID: payload.IdentityID,
		Email:      payload.Email,
		TokenType:  payload.TokenType,
		SignedAt:   payload.SignedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(seconds) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a token, returning its payload. An
// expired token fails with ErrTokenExpired unless skipExpired is set, in
// which case the call returns (nil, nil).
func (c *TokenCodec) VerifyToken(tokenString string, skipExpired bool) (*TokenPayload, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if skipExpired {
				return nil, nil
			}
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err.Error())
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.IdentityID == "" || claims.Email == "" {
		return nil, ErrTokenMalformed
	}

	payload := &TokenPayload{
		IdentityID: claims.IdentityID,
		Email:      claims.Email,
		TokenType:  claims.TokenType,
		SignedAt:   claims.SignedAt,
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return payload, nil
}

// ParseExpiry converts an expiry expression into seconds, clamped to the
// codec's floor and ceiling.
func ParseExpiry(expiresIn string) int64 {
	expiresIn = strings.TrimSpace(expiresIn)

	var seconds int64
	if len(expiresIn) > 1 {
		value, err := strconv.ParseInt(expiresIn[:len(expiresIn)-1], 10, 64)
		if err == nil {
			switch expiresIn[len(expiresIn)-1] {
			case 's':
				seconds = value
			case 'm':
				seconds = value * 60
			case 'h':
				seconds = value * 3600
			case 'd':
				seconds = value * 86400
			}
		}
	}

	if seconds == 0 {
		if value, err := strconv.ParseInt(expiresIn, 10, 64); err == nil {
			seconds = value
		}
	}

	if seconds < minExpirySeconds {
		return minExpirySeconds
	}
	if seconds > maxExpirySeconds {
		return maxExpirySeconds
	}
	return seconds
}
