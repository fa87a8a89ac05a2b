// Package token issues and verifies the signed access and refresh tokens
// handed out at login. It holds no mutable state after construction.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/percefons/auth-service/internal/domain"
)

// Kind selects which secret and TTL apply to a token.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Algorithm     string // HS256, HS384 or HS512
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Service struct {
	method  jwt.SigningMethod
	secrets [2][]byte
	ttls    [2]time.Duration
	now     func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(cfg Config, opts ...Option) (*Service, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("access and refresh secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("TTLs must satisfy 0 < access < refresh")
	}

	s := &Service{
		method:  method,
		secrets: [2][]byte{Access: cfg.AccessSecret, Refresh: cfg.RefreshSecret},
		ttls:    [2]time.Duration{Access: cfg.AccessTTL, Refresh: cfg.RefreshTTL},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IssueAuth mints an access/refresh pair for subject, both stamped now.
func (s *Service) IssueAuth(subject string) (domain.TokenPair, error) {
	now := s.now()

	access, err := s.sign(subject, Access, now)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.sign(subject, Refresh, now)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) VerifyAccess(raw string) domain.VerifyResult  { return s.Verify(raw, Access) }
func (s *Service) VerifyRefresh(raw string) domain.VerifyResult { return s.Verify(raw, Refresh) }

// Verify checks raw against the secret for kind. Every outcome, including
// malformed input, is reported through the result status.
func (s *Service) Verify(raw string, kind Kind) domain.VerifyResult {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secrets[kind], nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.VerifyResult{Status: domain.StatusExpired, Message: "Token has expired."}
	case err != nil:
		return domain.VerifyResult{Status: domain.StatusFailed, Message: "Token is invalid."}
	case claims.Subject == "" || claims.IssuedAt == nil:
		return domain.VerifyResult{Status: domain.StatusFailed, Message: "Token is missing required claims."}
	}

	return domain.VerifyResult{
		Status: domain.StatusSuccess,
		Payload: &domain.TokenPayload{
			Subject:   claims.Subject,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}
}

// RefreshAuth exchanges a valid refresh token for a new access token issued
// to the same subject. The new token is stamped with the current time.
func (s *Service) RefreshAuth(refreshToken string) (string, error) {
	res := s.VerifyRefresh(refreshToken)
	if res.Status != domain.StatusSuccess {
		return "", fmt.Errorf("%w: %s", domain.ErrRefreshDenied, res.Message)
	}
	return s.sign(res.Payload.Subject, Access, s.now())
}

func (s *Service) sign(subject string, kind Kind, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[kind])),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secrets[kind])
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}
