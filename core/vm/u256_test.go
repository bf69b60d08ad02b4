package vm

import "testing"

func TestU256CheckedAddOverflow(t *testing.T) {
	max := U256FromBytes(make([]byte, 0)) // zero
	for i := 0; i < 256; i++ {
		max = max.SHL(1)
		max = max.BitOr(U256FromUint64(1))
	}
	if _, ok := max.CheckedAdd(U256FromUint64(1)); ok {
		t.Fatal("expected overflow")
	}
}

func TestU256CheckedSubUnderflow(t *testing.T) {
	a := U256FromUint64(1)
	b := U256FromUint64(2)
	if _, ok := a.CheckedSub(b); ok {
		t.Fatal("expected underflow")
	}
}

func TestU256CheckedDivByZero(t *testing.T) {
	if _, ok := U256FromUint64(10).CheckedDiv(U256Zero()); ok {
		t.Fatal("expected division by zero to fail")
	}
}

func TestU256CheckedModByZero(t *testing.T) {
	if _, ok := U256FromUint64(10).CheckedMod(U256Zero()); ok {
		t.Fatal("expected mod by zero to fail")
	}
}

func TestU256ModAddWrapsInsteadOfFailing(t *testing.T) {
	a := U256FromUint64(1)
	for i := 0; i < 256; i++ {
		a = a.SHL(1)
		a = a.BitOr(U256FromUint64(1))
	}
	// a is now all-ones (2^256 - 1); adding 1 wraps to 0 under ModAdd.
	got := a.ModAdd(U256FromUint64(1))
	if !got.IsZero() {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestU256ShiftAtOrAbove256IsZero(t *testing.T) {
	a := U256FromUint64(1)
	if !a.SHL(256).IsZero() {
		t.Fatal("SHL(256) should be zero")
	}
	if !a.SHR(256).IsZero() {
		t.Fatal("SHR(256) should be zero")
	}
	if !a.SHL(1000).IsZero() {
		t.Fatal("SHL(1000) should be zero")
	}
}

func TestU256ToI256RejectsValuesWithSignBitSet(t *testing.T) {
	// 2^255 has the top bit set: not representable as a positive I256.
	twoTo255 := U256FromUint64(1).SHL(255)
	if _, ok := twoTo255.ToI256(); ok {
		t.Fatal("expected ToI256 to reject a value with the sign bit set")
	}
}

func TestU256ToI256AcceptsSmallValues(t *testing.T) {
	u := U256FromUint64(42)
	i, ok := u.ToI256()
	if !ok {
		t.Fatal("expected ToI256 to accept a small value")
	}
	if i.String() != "42" {
		t.Fatalf("got %v, want 42", i)
	}
}

func TestU256BytesRoundTrip(t *testing.T) {
	u := U256FromUint64(123456789)
	got := U256FromBytes(u.Bytes())
	if !got.Eq(u) {
		t.Fatalf("got %v, want %v", got, u)
	}
}

func TestU256Ordering(t *testing.T) {
	a := U256FromUint64(1)
	b := U256FromUint64(2)
	if !a.Lt(b) || a.Gt(b) || !a.Le(b) || a.Ge(b) {
		t.Fatal("ordering relations inconsistent for 1 < 2")
	}
}
