package cryptofuncs

import (
	"testing"

	"cantus/internal/decimal"
	"cantus/internal/value"
)

func TestHashSHA256IsDeterministic(t *testing.T) {
	a, err := HashSHA256([]value.Value{value.NewText("hello")})
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashSHA256([]value.Value{value.NewText("hello")})
	if err != nil {
		t.Fatal(err)
	}
	if value.Unwrap(a).(*value.Text).S != value.Unwrap(b).(*value.Text).S {
		t.Error("hash_sha256 of the same input produced different digests")
	}
	if len(value.Unwrap(a).(*value.Text).S) != 64 {
		t.Errorf("sha256 hex digest length = %d, want 64", len(value.Unwrap(a).(*value.Text).S))
	}
}

func TestHashBlake2bDiffersFromSHA256(t *testing.T) {
	sha, err := HashSHA256([]value.Value{value.NewText("hello")})
	if err != nil {
		t.Fatal(err)
	}
	blake, err := HashBlake2b([]value.Value{value.NewText("hello")})
	if err != nil {
		t.Fatal(err)
	}
	if value.Unwrap(sha).(*value.Text).S == value.Unwrap(blake).(*value.Text).S {
		t.Error("sha256 and blake2b produced the same digest for the same input")
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword([]value.Value{value.NewText("correct horse")})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := CheckPassword([]value.Value{value.NewText("correct horse"), hash})
	if err != nil {
		t.Fatal(err)
	}
	if !value.Unwrap(ok).(*value.Boolean).B {
		t.Error("check_password rejected the password it was hashed from")
	}

	bad, err := CheckPassword([]value.Value{value.NewText("wrong password"), hash})
	if err != nil {
		t.Fatal(err)
	}
	if value.Unwrap(bad).(*value.Boolean).B {
		t.Error("check_password accepted a wrong password")
	}
}

func TestRandomBytesLengthAndRange(t *testing.T) {
	result, err := RandomBytes([]value.Value{value.NewNumber(decimal.FromInt64(8))})
	if err != nil {
		t.Fatal(err)
	}
	hexStr := value.Unwrap(result).(*value.Text).S
	if len(hexStr) != 16 {
		t.Errorf("random_bytes(8) hex length = %d, want 16", len(hexStr))
	}

	if _, err := RandomBytes([]value.Value{value.NewNumber(decimal.FromInt64(-1))}); err == nil {
		t.Error("expected random_bytes with a negative length to error")
	}
	if _, err := RandomBytes([]value.Value{value.NewNumber(decimal.FromInt64(1 << 21))}); err == nil {
		t.Error("expected random_bytes above the size cap to error")
	}
}
