// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is configured.
const DefaultHashCost = 12

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
//
// The cost is validated once at construction; a Hasher is immutable and
// safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher returns a [Hasher] for the given bcrypt cost.
//
// An out-of-range cost is a configuration error and must stop startup.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("sec: bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash produces a salted bcrypt digest. Every call uses a fresh random salt.
func (hasher *Hasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Compare checks plainTextPassword against existingHash in constant time.
//
// A mismatch returns (false, nil). A malformed hash returns (false, err) so
// callers can log it; it is never a match.
func (hasher *Hasher) Compare(plainTextPassword, existingHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("sec: malformed password hash: %w", err)
	}
}

// Verify reports whether plainTextPassword matches existingHash.
// It never fails; a malformed hash is simply not a match.
func (hasher *Hasher) Verify(plainTextPassword, existingHash string) bool {
	ok, _ := hasher.Compare(plainTextPassword, existingHash)
	return ok
}
