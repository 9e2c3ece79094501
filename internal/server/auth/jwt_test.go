package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

var testTokenConfig = TokenConfig{
	Key:      []byte("TestSecretKey123456789"),
	Issuer:   "BookAPI",
	Audience: "BookAPIUsers",
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newPair(t *testing.T, clk *fakeClock) (*Issuer, *Validator) {
	t.Helper()
	iss, err := NewIssuer(testTokenConfig, WithClock(clk.now))
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	val, err := NewValidator(testTokenConfig, WithClock(clk.now))
	if err != nil {
		t.Fatalf("NewValidator error: %v", err)
	}
	return iss, val
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	iss, val := newPair(t, clk)

	tok, err := iss.Issue(&models.Account{Username: "bob", Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if n := len(strings.Split(tok, ".")); n != 3 {
		t.Fatalf("expected 3 segments, got %d", n)
	}

	claims, err := val.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.Subject != "bob" || claims.Email != "bob@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "BookAPI" {
		t.Fatalf("issuer mismatch: %q", claims.Issuer)
	}
	if got, want := claims.ExpiresAt.Time, clk.t.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("exp mismatch: got %v want %v", got, want)
	}
}

func TestValidate_ExpiredAfterOneHour(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	iss, val := newPair(t, clk)

	tok, err := iss.Issue(&models.Account{Username: "bob", Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	clk.advance(59 * time.Minute)
	if _, err := val.Validate(tok); err != nil {
		t.Fatalf("token must still be valid at +59m: %v", err)
	}

	clk.advance(2 * time.Minute)
	_, err = val.Validate(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired at +61m, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Now()}
	_, val := newPair(t, clk)

	sign := func(cfg TokenConfig, method jwt.SigningMethod, key any) string {
		tok := jwt.NewWithClaims(method, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "bob",
				Issuer:    cfg.Issuer,
				Audience:  jwt.ClaimStrings{cfg.Audience},
				ExpiresAt: jwt.NewNumericDate(clk.t.Add(time.Hour)),
			},
		})
		s, err := tok.SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	wrongIssuer := testTokenConfig
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := testTokenConfig
	wrongAudience.Audience = "other-app"

	tests := map[string]string{
		"wrong key":      sign(testTokenConfig, jwt.SigningMethodHS256, []byte("another-key")),
		"wrong issuer":   sign(wrongIssuer, jwt.SigningMethodHS256, testTokenConfig.Key),
		"wrong audience": sign(wrongAudience, jwt.SigningMethodHS256, testTokenConfig.Key),
		"wrong alg":      sign(testTokenConfig, jwt.SigningMethodHS512, testTokenConfig.Key),
		"unsigned":       sign(testTokenConfig, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
		"malformed":      "not.a.jwt",
		"empty":          "",
	}

	for name, tok := range tests {
		if _, err := val.Validate(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("%s: expected common.ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewIssuer_RequiresConfiguration(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]TokenConfig{
		"no key":      {Issuer: "i", Audience: "a"},
		"no issuer":   {Key: []byte("k"), Audience: "a"},
		"no audience": {Key: []byte("k"), Issuer: "i"},
	} {
		if _, err := NewIssuer(cfg); !errors.Is(err, common.ErrConfiguration) {
			t.Fatalf("%s: NewIssuer expected ErrConfiguration, got %v", name, err)
		}
		if _, err := NewValidator(cfg); !errors.Is(err, common.ErrConfiguration) {
			t.Fatalf("%s: NewValidator expected ErrConfiguration, got %v", name, err)
		}
	}
}
