// Package auth verifies bearer tokens and mints them for trusted callers.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// Claims carried by wallet tokens. The user is the registered subject.
type Claims struct {
	jwt.RegisteredClaims
	// Service marks tokens minted by backend workers rather than a login.
	Service bool `json:"svc,omitempty"`
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret    []byte
	issuer    string
	audience  string
	clockSkew time.Duration
	now       func() time.Time
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &Manager{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.JWTIssuer,
		audience:  cfg.JWTAudience,
		clockSkew: cfg.ClockSkew,
		now:       time.Now,
	}, nil
}

// Issue signs a token for subject valid for ttl.
func (m *Manager) Issue(subject string, ttl time.Duration) (string, error) {
	return m.issue(subject, ttl, false)
}

// IssueService mints a short lived credential a worker uses to read on behalf of a user.
func (m *Manager) IssueService(userID string, ttl time.Duration) (wallet.Credential, error) {
	token, err := m.issue(userID, ttl, true)
	if err != nil {
		return wallet.Credential{}, err
	}
	return wallet.Credential{Subject: userID, Token: token}, nil
}

func (m *Manager) issue(subject string, ttl time.Duration, service bool) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be greater than 0")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Service: service,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience and returns the credential the
// token stands for. Every failure wraps shared.ErrUnauthorized.
func (m *Manager) Verify(token string) (wallet.Credential, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithLeeway(m.clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	if _, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return wallet.Credential{}, fmt.Errorf("%w: %w", shared.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return wallet.Credential{}, fmt.Errorf("%w: subject missing", shared.ErrUnauthorized)
	}

	return wallet.Credential{Subject: claims.Subject, Token: token}, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
