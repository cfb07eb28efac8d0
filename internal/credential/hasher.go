// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package credential provides one-way password hashing and verification.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// ErrInvalidHash is the sentinel wrapped by every credential-format error.
// A stored hash that cannot be decoded is reported through this sentinel so
// callers can tell data corruption apart from a plain password mismatch.
var ErrInvalidHash = errors.New("invalid credential hash")

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("CREDENTIAL_EMPTY_PASSWORD").Errorf("password cannot be empty")

// Hasher provides password hashing and verification.
type Hasher interface {
	// Hash produces a salted argon2id hash of the plaintext.
	Hash(plaintext string) (string, error)

	// Verify checks if the plaintext matches the encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an error
	// wrapping ErrInvalidHash when the stored hash is unreadable.
	Verify(plaintext, encoded string) (bool, error)
}

// Argon2idHasher implements Hasher using argon2id in PHC string format.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces a salted argon2id hash of the plaintext. Equal plaintexts
// produce different outputs across calls because the salt is random.
func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("CREDENTIAL_SALT_FAILED").Wrap(err)
	}

	hash := argon2.IDKey([]byte(plaintext), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as PHC string format
	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// Verify checks if the plaintext matches the encoded hash. The digest
// comparison is constant-time.
func (h *Argon2idHasher) Verify(plaintext, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, formatErr("malformed hash: expected 6 segments, got %d", len(parts))
	}

	if parts[1] != "argon2id" {
		return false, formatErr("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, formatErr("unreadable version segment: %v", err)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, formatErr("unreadable parameter segment: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, formatErr("undecodable salt: %v", err)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, formatErr("undecodable digest: %v", err)
	}

	// Threads must fit in uint8 to prevent silent truncation.
	if threads > 255 {
		return false, formatErr("threads value %d exceeds uint8 max", threads)
	}

	keyLen := len(expected)
	if keyLen <= 0 || keyLen > 1<<30 {
		return false, formatErr("invalid digest length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(plaintext), salt, time, memory, uint8(threads), uint32(keyLen))

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return true, nil
	}

	return false, nil
}

// formatErr builds a credential-format error that satisfies both
// errors.Is(err, ErrInvalidHash) and oops code inspection.
func formatErr(format string, args ...any) error {
	return oops.Code("CREDENTIAL_INVALID_HASH").Wrapf(ErrInvalidHash, format, args...)
}

// Compile-time interface check.
var _ Hasher = (*Argon2idHasher)(nil)
