// Package cryptofuncs registers hash_sha256/hash_password/random_bytes
// builtins over real crypto libraries (SPEC_FULL.md §1.2): a thin
// registration shim in the posture of the teacher's
// internal/cryptoanalysis package — a Go struct whose methods wrap a
// crypto primitive and get registered as callables — but for legitimate
// script-side hashing rather than the teacher's offensive tooling.
package cryptofuncs

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"

	"cantus/internal/cantuserr"
	"cantus/internal/value"
)

func textArg(args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", cantuserr.Evalf(0, "missing text argument %d", i)
	}
	t, ok := value.Unwrap(args[i]).(*value.Text)
	if !ok {
		return "", cantuserr.Evalf(0, "argument %d must be Text", i)
	}
	return t.S, nil
}

// HashSHA256 hex-encodes the SHA-256 digest of its Text argument.
func HashSHA256(args []value.Value) (value.Value, error) {
	s, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(s))
	return value.NewText(hex.EncodeToString(sum[:])), nil
}

// HashBlake2b hex-encodes the BLAKE2b-256 digest of its Text argument.
func HashBlake2b(args []value.Value) (value.Value, error) {
	s, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256([]byte(s))
	return value.NewText(hex.EncodeToString(sum[:])), nil
}

// HashPassword bcrypt-hashes its Text argument at the default cost.
func HashPassword(args []value.Value) (value.Value, error) {
	s, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		return nil, cantuserr.Evalf(0, "hash_password: %v", err)
	}
	return value.NewText(string(hash)), nil
}

// CheckPassword reports whether plaintext matches a bcrypt hash.
func CheckPassword(args []value.Value) (value.Value, error) {
	plain, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	hash, err := textArg(args, 1)
	if err != nil {
		return nil, err
	}
	ok := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	return value.NewBoolean(ok), nil
}

// RandomBytes returns n cryptographically random bytes, hex-encoded.
func RandomBytes(args []value.Value) (value.Value, error) {
	n, ok := value.Unwrap(args[0]).(*value.Number)
	if !ok {
		return nil, cantuserr.Evalf(0, "random_bytes requires a numeric length")
	}
	count := int(n.D.Float64())
	if count < 0 || count > 1<<20 {
		return nil, cantuserr.Evalf(0, "random_bytes: length out of range")
	}
	buf := make([]byte, count)
	if _, err := rand.Read(buf); err != nil {
		return nil, cantuserr.Evalf(0, "random_bytes: %v", err)
	}
	return value.NewText(hex.EncodeToString(buf)), nil
}
