package decimal

import (
	"testing"

	"cantus/internal/cantuserr"
)

func mustParse(t *testing.T, s string) Decimal {
	t.Helper()
	d, ok := FromString(s, false)
	if !ok {
		t.Fatalf("FromString(%q) failed", s)
	}
	return d
}

func TestFromStringBasic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"14", "14"},
		{"3.25", "3.25"},
		{"-3.25", "-3.25"},
		{"0x1F", "31"},
		{"010", "8"},
		{"null", "undefined"},
		{"undefined", "undefined"},
	}
	for _, c := range cases {
		d := mustParse(t, c.in)
		if got := d.String(); got != c.want {
			t.Errorf("FromString(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := mustParse(t, "2")
	b := mustParse(t, "3")
	if got := Add(a, Mul(b, mustParse(t, "4"))).String(); got != "14" {
		t.Errorf("2+3*4 = %s, want 14", got)
	}
	if got := Sub(mustParse(t, "10"), mustParse(t, "3.5")).String(); got != "6.5" {
		t.Errorf("10-3.5 = %s, want 6.5", got)
	}
}

func TestDivErrorsOnZero(t *testing.T) {
	_, err := Div(mustParse(t, "1"), mustParse(t, "0"))
	if err == nil {
		t.Fatal("1/0 should return an error, got nil")
	}
	ce, ok := cantuserr.As(err)
	if !ok {
		t.Fatalf("1/0 error should be a *CantusError, got %T", err)
	}
	if ce.Kind != cantuserr.Math {
		t.Errorf("1/0 error kind = %s, want Math", ce.Kind)
	}
}

func TestDivUndefinedPropagates(t *testing.T) {
	d, err := Div(Undef(), mustParse(t, "2"))
	if err != nil {
		t.Fatalf("undefined/2 should not error, got %v", err)
	}
	if !d.Undefined {
		t.Errorf("undefined/2 should stay undefined, got %s", d.String())
	}
}

func TestCmpTotalOrderWithUndefined(t *testing.T) {
	u := Undef()
	n := mustParse(t, "5")
	if Cmp(u, n) >= 0 {
		t.Errorf("undefined should compare less than a defined value")
	}
	if Cmp(u, u) != 0 {
		t.Errorf("undefined should equal undefined")
	}
}

func TestSigFigInference(t *testing.T) {
	d, ok := FromString("0.00450", true)
	if !ok {
		t.Fatal("parse failed")
	}
	if d.SigFigs != 3 {
		t.Errorf("sig figs = %d, want 3", d.SigFigs)
	}
}

func TestTruncateThenRound(t *testing.T) {
	d := mustParse(t, "1.00000000000000000123456789")
	got := TruncateThenRound(d)
	if got.Undefined {
		t.Fatal("unexpected undefined")
	}
}
