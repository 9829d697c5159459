package services

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var ErrInvalidToken = serrors.Unauthorized("INVALID_TOKEN", "token is invalid or expired")

// Claims is the signed bundle request handlers trust without going back to
// either store.
type Claims struct {
	UserID           string                   `json:"userId"`
	Application      string                   `json:"app"`
	Post             string                   `json:"post"`
	Name             string                   `json:"name"`
	FatherName       string                   `json:"fatherName"`
	Surname          string                   `json:"surname"`
	Service          string                   `json:"service"`
	Roles            []string                 `json:"roles"`
	Credentials      []string                 `json:"credentials"`
	WorkPoligon      *workpoligon.WorkPoligon `json:"workPoligon,omitempty"`
	DutyCredentials  []string                 `json:"dutyCredentials,omitempty"`
	LastTakeDutyTime *time.Time               `json:"lastTakeDutyTime,omitempty"`
	LastPassDutyTime *time.Time               `json:"lastPassDutyTime,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenService(secret, issuer string, lifetime time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for issue and expiry stamps.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Mint signs c with HS256. Registered claims are overwritten.
func (s *TokenService) Mint(c *Claims) (string, error) {
	now := s.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   c.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (s *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return nil, ErrInvalidToken.WithMeta("reason", "expired")
	}
	if claims.Issuer != s.issuer || claims.UserID == "" || claims.Application == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
