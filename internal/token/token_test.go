package token_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/percefons/auth-service/internal/domain"
	"github.com/percefons/auth-service/internal/token"
)

const (
	testAccessSecret  = "access-secret-that-is-at-least-32-chars"
	testRefreshSecret = "refresh-secret-that-is-at-least-32-chars"
	testSubject       = "42"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig() token.Config {
	return token.Config{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		Algorithm:     "HS256",
		AccessTTL:     time.Hour,
		RefreshTTL:    48 * time.Hour,
	}
}

func newService(t *testing.T, cfg token.Config) (*token.Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := token.New(cfg, token.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	return svc, clock
}

func signRaw(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// ---- New ----

func TestNew_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*token.Config)
	}{
		{"asymmetric algorithm", func(c *token.Config) { c.Algorithm = "RS256" }},
		{"none algorithm", func(c *token.Config) { c.Algorithm = "none" }},
		{"unknown algorithm", func(c *token.Config) { c.Algorithm = "HS1024" }},
		{"empty access secret", func(c *token.Config) { c.AccessSecret = nil }},
		{"empty refresh secret", func(c *token.Config) { c.RefreshSecret = nil }},
		{"shared secret", func(c *token.Config) { c.RefreshSecret = c.AccessSecret }},
		{"zero access ttl", func(c *token.Config) { c.AccessTTL = 0 }},
		{"refresh not longer than access", func(c *token.Config) { c.RefreshTTL = c.AccessTTL }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := token.New(cfg); err == nil {
				t.Error("token.New() error = nil, want error")
			}
		})
	}
}

func TestNew_AcceptsHMACFamily(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		cfg := testConfig()
		cfg.Algorithm = alg
		if _, err := token.New(cfg); err != nil {
			t.Errorf("token.New(%s) error = %v", alg, err)
		}
	}
}

// ---- IssueAuth / Verify ----

func TestIssueAuth_BothTokensVerify(t *testing.T) {
	svc, clock := newService(t, testConfig())

	pair, err := svc.IssueAuth(testSubject)
	if err != nil {
		t.Fatalf("IssueAuth: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("IssueAuth returned an empty token")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens are identical")
	}

	access := svc.VerifyAccess(pair.AccessToken)
	if access.Status != domain.StatusSuccess {
		t.Fatalf("VerifyAccess status = %v (%s), want success", access.Status, access.Message)
	}
	if access.Payload.Subject != testSubject {
		t.Errorf("sub = %q, want %q", access.Payload.Subject, testSubject)
	}
	if !access.Payload.IssuedAt.Equal(clock.now) {
		t.Errorf("iat = %v, want %v", access.Payload.IssuedAt, clock.now)
	}
	if got := access.Payload.ExpiresAt.Sub(access.Payload.IssuedAt); got != time.Hour {
		t.Errorf("access exp - iat = %v, want 1h", got)
	}

	refresh := svc.VerifyRefresh(pair.RefreshToken)
	if refresh.Status != domain.StatusSuccess {
		t.Fatalf("VerifyRefresh status = %v (%s), want success", refresh.Status, refresh.Message)
	}
	if got := refresh.Payload.ExpiresAt.Sub(refresh.Payload.IssuedAt); got != 48*time.Hour {
		t.Errorf("refresh exp - iat = %v, want 48h", got)
	}
}

func TestVerify_ExpiredAccessToken(t *testing.T) {
	svc, clock := newService(t, testConfig())
	pair, _ := svc.IssueAuth(testSubject)

	clock.Advance(time.Hour - time.Second)
	if res := svc.VerifyAccess(pair.AccessToken); res.Status != domain.StatusSuccess {
		t.Fatalf("just before expiry: status = %v, want success", res.Status)
	}

	clock.Advance(2 * time.Second)
	res := svc.VerifyAccess(pair.AccessToken)
	if res.Status != domain.StatusExpired {
		t.Fatalf("after expiry: status = %v, want expired", res.Status)
	}
	if res.Payload != nil {
		t.Error("expired result carries a payload")
	}
	if res.Message == "" {
		t.Error("expired result has no message")
	}

	// The refresh token outlives the access token.
	if res := svc.VerifyRefresh(pair.RefreshToken); res.Status != domain.StatusSuccess {
		t.Errorf("refresh after access expiry: status = %v, want success", res.Status)
	}
}

func TestVerify_KindsAreNotInterchangeable(t *testing.T) {
	svc, _ := newService(t, testConfig())
	pair, _ := svc.IssueAuth(testSubject)

	if res := svc.VerifyRefresh(pair.AccessToken); res.Status != domain.StatusFailed {
		t.Errorf("access token as refresh: status = %v, want failed", res.Status)
	}
	if res := svc.VerifyAccess(pair.RefreshToken); res.Status != domain.StatusFailed {
		t.Errorf("refresh token as access: status = %v, want failed", res.Status)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc, _ := newService(t, testConfig())

	other := testConfig()
	other.AccessSecret = []byte("another-access-secret-of-32-chars!!")
	other.RefreshSecret = []byte("another-refresh-secret-of-32-chars!")
	foreign, _ := newService(t, other)

	pair, _ := foreign.IssueAuth(testSubject)
	if res := svc.VerifyAccess(pair.AccessToken); res.Status != domain.StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
}

func TestVerify_WrongAlgorithm(t *testing.T) {
	svc, clock := newService(t, testConfig())

	now := clock.now
	claims := jwt.RegisteredClaims{
		Subject:   testSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	tests := map[string]string{
		"HS512 with right secret": signRaw(t, jwt.SigningMethodHS512, []byte(testAccessSecret), claims),
		"alg none":                signRaw(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if res := svc.VerifyAccess(raw); res.Status != domain.StatusFailed {
				t.Errorf("status = %v, want failed", res.Status)
			}
		})
	}
}

func TestVerify_ExpiredWithBadSignatureIsFailed(t *testing.T) {
	svc, clock := newService(t, testConfig())
	raw := signRaw(t, jwt.SigningMethodHS256, []byte("some-other-secret-of-32-characters!"), jwt.RegisteredClaims{
		Subject:   testSubject,
		IssuedAt:  jwt.NewNumericDate(clock.now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(-time.Hour)),
	})

	if res := svc.VerifyAccess(raw); res.Status != domain.StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
}

func TestVerify_MalformedAndIncomplete(t *testing.T) {
	svc, clock := newService(t, testConfig())
	now := clock.now

	tests := map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"two parts": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
		"no exp": signRaw(t, jwt.SigningMethodHS256, []byte(testAccessSecret), jwt.RegisteredClaims{
			Subject:  testSubject,
			IssuedAt: jwt.NewNumericDate(now),
		}),
		"no sub": signRaw(t, jwt.SigningMethodHS256, []byte(testAccessSecret), jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}),
		"issued in the future": signRaw(t, jwt.SigningMethodHS256, []byte(testAccessSecret), jwt.RegisteredClaims{
			Subject:   testSubject,
			IssuedAt:  jwt.NewNumericDate(now.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		}),
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			res := svc.VerifyAccess(raw)
			if res.Status != domain.StatusFailed {
				t.Errorf("status = %v, want failed", res.Status)
			}
			if res.Payload != nil {
				t.Error("failed result carries a payload")
			}
		})
	}
}

// ---- RefreshAuth ----

func TestRefreshAuth_MintsRestampedAccessToken(t *testing.T) {
	svc, clock := newService(t, testConfig())
	pair, _ := svc.IssueAuth(testSubject)

	clock.Advance(3 * time.Hour) // first access token is long expired
	fresh, err := svc.RefreshAuth(pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshAuth: %v", err)
	}

	res := svc.VerifyAccess(fresh)
	if res.Status != domain.StatusSuccess {
		t.Fatalf("refreshed token status = %v (%s), want success", res.Status, res.Message)
	}
	if res.Payload.Subject != testSubject {
		t.Errorf("sub = %q, want %q", res.Payload.Subject, testSubject)
	}
	if !res.Payload.IssuedAt.Equal(clock.now) {
		t.Errorf("iat = %v, want re-stamped %v", res.Payload.IssuedAt, clock.now)
	}
	if !res.Payload.ExpiresAt.Equal(clock.now.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", res.Payload.ExpiresAt, clock.now.Add(time.Hour))
	}
}

func TestRefreshAuth_DeniesExpiredRefreshToken(t *testing.T) {
	svc, clock := newService(t, testConfig())
	pair, _ := svc.IssueAuth(testSubject)

	clock.Advance(49 * time.Hour)
	fresh, err := svc.RefreshAuth(pair.RefreshToken)
	if !errors.Is(err, domain.ErrRefreshDenied) {
		t.Fatalf("err = %v, want ErrRefreshDenied", err)
	}
	if fresh != "" {
		t.Errorf("token = %q, want none", fresh)
	}
}

func TestRefreshAuth_DeniesInvalidTokens(t *testing.T) {
	svc, _ := newService(t, testConfig())
	pair, _ := svc.IssueAuth(testSubject)

	for name, raw := range map[string]string{
		"access token": pair.AccessToken,
		"garbage":      "garbage",
		"tampered":     pair.RefreshToken + "x",
	} {
		t.Run(name, func(t *testing.T) {
			fresh, err := svc.RefreshAuth(raw)
			if !errors.Is(err, domain.ErrRefreshDenied) || fresh != "" {
				t.Errorf("RefreshAuth = %q, %v; want \"\", ErrRefreshDenied", fresh, err)
			}
		})
	}
}

func TestService_ConcurrentUse(t *testing.T) {
	svc, err := token.New(testConfig())
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := svc.IssueAuth(testSubject)
			if err != nil {
				t.Errorf("IssueAuth: %v", err)
				return
			}
			if res := svc.VerifyAccess(pair.AccessToken); res.Status != domain.StatusSuccess {
				t.Errorf("status = %v, want success", res.Status)
			}
		}()
	}
	wg.Wait()
}
