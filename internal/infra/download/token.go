package download

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"digital-storefront/internal/domain/ports/adapter"
)

var _ adapter.DownloadTokenSigner = (*TokenSigner)(nil)

// TokenSigner mints HS256 tokens for download grants. The token expiry always
// equals the grant expiry, so the external download server can enforce the
// 24h window without a storage lookup.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

func NewTokenSigner(secret string) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("download token secret empty")
	}
	return &TokenSigner{secret: []byte(secret), now: time.Now}, nil
}

type grantClaims struct {
	ProductID string `json:"product_id"`
	jwt.RegisteredClaims
}

func (s *TokenSigner) Sign(grantID, productID string, expiresAt time.Time) (string, error) {
	now := s.now()
	claims := grantClaims{
		ProductID: productID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   grantID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenSigner) Verify(token string) (grantID string, productID string, err error) {
	var claims grantClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid {
		return "", "", errors.New("invalid token")
	}
	return claims.Subject, claims.ProductID, nil
}
