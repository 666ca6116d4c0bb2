package services

import (
	"time"

	"reviewhub-api/models"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService issues and resolves the signed tokens used both as emailed
// confirmation codes and as bearer access credentials. The two are the
// same format on purpose: identity plus expiry, signed with the server
// secret, nothing stored server-side and no revocation list.
type TokenService interface {
	Issue(user *models.User) (string, error)
	Resolve(tokenString string) (uint, error)
}

type tokenClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) TokenService {
	return &tokenService{secret: secret, ttl: ttl}
}

func (s *tokenService) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// Resolve verifies the signature and expiry and returns the embedded user
// id. Every failure collapses to ErrInvalidToken so nothing about the key
// or the signature ever reaches a client.
func (s *tokenService) Resolve(tokenString string) (uint, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, models.ErrInvalidToken
	}

	return claims.UserID, nil
}
