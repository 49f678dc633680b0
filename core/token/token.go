package token

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the fixed audience claim for App Store Connect tokens.
const Audience = "appstoreconnect-v1"

// Session is a minted bearer token and the moment it was minted.
type Session struct {
	Token    string
	MintedAt time.Time
}

// Age returns how long ago the session was minted.
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.MintedAt)
}

// Source mints new sessions.
type Source interface {
	Mint() (Session, error)
}

// Minter signs ES256 tokens with a private key.
type Minter struct {
	keyID    string
	issuerID string
	key      *ecdsa.PrivateKey
	ttl      time.Duration
	now      func() time.Time
}

// NewMinter parses a PEM (PKCS#8 .p8 or SEC1) private key and returns a Minter.
func NewMinter(keyID, issuerID, pemKey string, ttl time.Duration) (*Minter, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return &Minter{
		keyID:    keyID,
		issuerID: issuerID,
		key:      key,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// LoadKey returns the inline key when set, otherwise the contents of path.
func LoadKey(inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read private key file: %w", err)
	}
	return string(data), nil
}

// Mint signs a new token valid for the configured TTL.
func (m *Minter) Mint() (Session, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"iss": m.issuerID,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
		"aud": Audience,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tok.Header["kid"] = m.keyID

	signed, err := tok.SignedString(m.key)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Session{Token: signed, MintedAt: now}, nil
}

// PublicKey exposes the verification key, mainly for tests and diagnostics.
func (m *Minter) PublicKey() *ecdsa.PublicKey {
	return &m.key.PublicKey
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// EnsureFresh re-mints the session when the current one is older than maxAge
// (or absent) and returns the derived context. The boolean reports whether a
// new session was minted.
func EnsureFresh(ctx context.Context, src Source, maxAge time.Duration, now time.Time) (context.Context, bool, error) {
	if s, ok := FromContext(ctx); ok && s.Age(now) <= maxAge {
		return ctx, false, nil
	}
	s, err := src.Mint()
	if err != nil {
		return ctx, false, err
	}
	return WithSession(ctx, s), true, nil
}
