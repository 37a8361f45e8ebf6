// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives: password hashing and
// bearer-token issuance and verification.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. It is
// injected into the use cases and the auth gate through small interfaces
// declared at the consumer side.
//
// # Tokens
//
// Access tokens are HS256 JWS compact strings carrying {sub, iat, exp}.
// Verification is stateless. Secrets are supplied by configuration; one
// primary secret signs, and any number of previous secrets still verify so
// the signing secret can be rotated without logging every user out.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted, in bytes.
const MinSecretLength = 16

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and missing claims.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")
)

// Principal is the identity resolved from a verified token.
type Principal struct {
	// Subject is the username the token was issued to.
	Subject string `json:"subject"`

	// RemainingValidity is the time left until expiry, never negative.
	RemainingValidity time.Duration `json:"remaining_validity"`
}

// TokenService issues and verifies HS256 access tokens.
//
// All fields are set once in [NewTokenService]; the service is safe for
// concurrent use.
type TokenService struct {
	signingKey       []byte
	verificationKeys [][]byte
	now              func() time.Time
	parser           *jwt.Parser
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a TokenService that signs with primarySecret and
// verifies against primarySecret followed by previousSecrets.
//
// # Parameters
//   - primarySecret: The active signing secret (at least [MinSecretLength] bytes).
//   - previousSecrets: Retired secrets still accepted for verification. Blank entries are ignored.
func NewTokenService(primarySecret string, previousSecrets []string, options ...TokenOption) (*TokenService, error) {
	if len(primarySecret) < MinSecretLength {
		return nil, fmt.Errorf("sec: primary token secret must be at least %d bytes", MinSecretLength)
	}

	keys := [][]byte{[]byte(primarySecret)}
	for index, secret := range previousSecrets {
		if secret == "" {
			continue
		}
		if len(secret) < MinSecretLength {
			return nil, fmt.Errorf("sec: previous token secret #%d must be at least %d bytes", index, MinSecretLength)
		}
		keys = append(keys, []byte(secret))
	}

	service := &TokenService{
		signingKey:       keys[0],
		verificationKeys: keys,
		now:              time.Now,
		// Expiry is checked by Verify itself with second granularity, so the
		// library's own claim validation is disabled.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}

	for _, option := range options {
		option(service)
	}

	return service, nil
}

// Issue signs a token for subject that expires timeToLive from now.
func (service *TokenService) Issue(subject string, timeToLive time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("sec: token subject is empty")
	}
	if timeToLive <= 0 {
		return "", fmt.Errorf("sec: token ttl must be positive, got %s", timeToLive)
	}

	currentTime := service.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature of tokenString, then its expiry.
//
// # Returns
//   - *Principal on success.
//   - [ErrTokenInvalid] if the token cannot be parsed, no secret matches its
//     signature, or sub/exp are missing.
//   - [ErrTokenExpired] if now is strictly after exp. A token whose exp equals
//     now is still valid.
func (service *TokenService) Verify(tokenString string) (*Principal, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	currentTime := service.now().Unix()
	expiresAt := claims.ExpiresAt.Unix()
	if currentTime > expiresAt {
		return nil, ErrTokenExpired
	}

	return &Principal{
		Subject:           claims.Subject,
		RemainingValidity: time.Duration(expiresAt-currentTime) * time.Second,
	}, nil
}

// parse tries each verification key in order until one matches the signature.
func (service *TokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	for _, key := range service.verificationKeys {
		claims := &jwt.RegisteredClaims{}
		_, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err == nil {
			return claims, nil
		}

		// Only a signature mismatch is worth retrying with the next secret.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	return nil, ErrTokenInvalid
}
