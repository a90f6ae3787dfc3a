package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mydiary/internal/apperr"
	"mydiary/internal/config"
	"mydiary/internal/models"
)

// TokenClaims are the claims carried by an access token. Subject holds the
// user's email; UserID is attached so requests can skip the email lookup.
type TokenClaims struct {
	UserID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(subject string) (string, error)
	IssueForUser(user *models.User) (string, error)
	Validate(tokenString, expectedSubject string) bool
	ExtractSubject(tokenString string) (string, error)
	ExtractClaims(tokenString string) (*TokenClaims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg *config.Config) TokenService {
	return newTokenService(cfg.JWTSecretKey, cfg.AccessTokenDuration, time.Now)
}

func newTokenService(secret string, ttl time.Duration, now func() time.Time) *tokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

func (s *tokenService) Issue(subject string) (string, error) {
	return s.sign(TokenClaims{RegisteredClaims: s.registered(subject)})
}

func (s *tokenService) IssueForUser(user *models.User) (string, error) {
	return s.sign(TokenClaims{
		UserID:           user.UserID,
		RegisteredClaims: s.registered(user.Email),
	})
}

func (s *tokenService) registered(subject string) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
}

func (s *tokenService) sign(claims TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *tokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// Validate reports whether the token is signed with our key, belongs to
// expectedSubject and has not expired. A token is valid strictly before its
// expiry instant.
func (s *tokenService) Validate(tokenString, expectedSubject string) bool {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return false
	}

	return claims.Subject == expectedSubject
}

func (s *tokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractClaims checks the signature only; expiry is left to Validate.
func (s *tokenService) ExtractClaims(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, apperr.MalformedToken(err)
	}

	return claims, nil
}
