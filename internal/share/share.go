package share

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, tampered and otherwise unusable share
// tokens.
var ErrInvalidToken = errors.New("share: invalid token")

// Signer mints and verifies share tokens for photo detail links. Tokens are
// HMAC-signed and expire so shared links stay bounded.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a Signer with the given secret and token lifetime.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign returns a share token for the photo id.
func (s *Signer) Sign(photoID int64) (string, error) {
	if photoID <= 0 {
		return "", fmt.Errorf("share: invalid photo id %d", photoID)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(photoID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Verify checks the token and returns the photo id it grants access to.
func (s *Signer) Verify(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	photoID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || photoID <= 0 {
		return 0, ErrInvalidToken
	}
	return photoID, nil
}
