package vm

import (
	"github.com/holiman/uint256"
)

// U256 is an unsigned 256-bit integer. It is a thin wrapper over
// holiman/uint256.Int (the same fixed-width integer type the broader go-ethereum
// ecosystem uses on its hot paths), adding the checked-arithmetic surface the
// VM's arithmetic instructions need: overflow, rather than silent wraparound,
// is the default for Add/Sub/Mul/Div/Mod, with explicit Mod* variants for the
// wrapping behavior.
type U256 struct {
	v uint256.Int
}

// U256FromUint64 constructs a U256 from a uint64.
func U256FromUint64(x uint64) U256 {
	var u U256
	u.v.SetUint64(x)
	return u
}

// U256Zero is the additive identity.
func U256Zero() U256 { return U256{} }

// U256FromBytes constructs a U256 from a big-endian byte slice, truncating to
// the low 256 bits if longer than 32 bytes.
func U256FromBytes(b []byte) U256 {
	var u U256
	u.v.SetBytes(b)
	return u
}

// Bytes32 returns the big-endian 32-byte encoding.
func (u U256) Bytes32() [32]byte {
	return u.v.Bytes32()
}

// Bytes returns the minimal big-endian encoding (no leading zero bytes,
// empty slice for zero).
func (u U256) Bytes() []byte {
	return u.v.Bytes()
}

func (u U256) String() string { return u.v.Dec() }

// IsZero reports whether the value is zero.
func (u U256) IsZero() bool { return u.v.IsZero() }

// Eq reports structural equality.
func (u U256) Eq(o U256) bool { return u.v.Eq(&o.v) }

// Lt, Gt, Le, Ge implement the total order over U256.
func (u U256) Lt(o U256) bool { return u.v.Lt(&o.v) }
func (u U256) Gt(o U256) bool { return u.v.Gt(&o.v) }
func (u U256) Le(o U256) bool { return !u.v.Gt(&o.v) }
func (u U256) Ge(o U256) bool { return !u.v.Lt(&o.v) }

// CheckedAdd returns (a+b, true) unless the true-math sum overflows 2^256.
func (a U256) CheckedAdd(b U256) (U256, bool) {
	var out U256
	_, overflow := out.v.AddOverflow(&a.v, &b.v)
	if overflow {
		return U256{}, false
	}
	return out, true
}

// CheckedSub returns (a-b, true) unless b > a (would underflow).
func (a U256) CheckedSub(b U256) (U256, bool) {
	var out U256
	_, underflow := out.v.SubOverflow(&a.v, &b.v)
	if underflow {
		return U256{}, false
	}
	return out, true
}

// CheckedMul returns (a*b, true) unless the true-math product overflows 2^256.
func (a U256) CheckedMul(b U256) (U256, bool) {
	var out U256
	_, overflow := out.v.MulOverflow(&a.v, &b.v)
	if overflow {
		return U256{}, false
	}
	return out, true
}

// CheckedDiv returns (a/b, true) unless b is zero.
func (a U256) CheckedDiv(b U256) (U256, bool) {
	if b.v.IsZero() {
		return U256{}, false
	}
	var out U256
	out.v.Div(&a.v, &b.v)
	return out, true
}

// CheckedMod returns (a%b, true) unless b is zero.
func (a U256) CheckedMod(b U256) (U256, bool) {
	if b.v.IsZero() {
		return U256{}, false
	}
	var out U256
	out.v.Mod(&a.v, &b.v)
	return out, true
}

// ModAdd, ModSub, ModMul wrap at 2^256 instead of signaling overflow.
func (a U256) ModAdd(b U256) U256 {
	var out U256
	out.v.Add(&a.v, &b.v)
	return out
}

func (a U256) ModSub(b U256) U256 {
	var out U256
	out.v.Sub(&a.v, &b.v)
	return out
}

func (a U256) ModMul(b U256) U256 {
	var out U256
	out.v.Mul(&a.v, &b.v)
	return out
}

// BitAnd, BitOr, Xor are the bitwise operators.
func (a U256) BitAnd(b U256) U256 {
	var out U256
	out.v.And(&a.v, &b.v)
	return out
}

func (a U256) BitOr(b U256) U256 {
	var out U256
	out.v.Or(&a.v, &b.v)
	return out
}

func (a U256) Xor(b U256) U256 {
	var out U256
	out.v.Xor(&a.v, &b.v)
	return out
}

// SHL shifts left by n bits. Per spec, a shift count >= 256 yields 0.
func (a U256) SHL(n uint64) U256 {
	if n >= 256 {
		return U256{}
	}
	var out U256
	out.v.Lsh(&a.v, uint(n))
	return out
}

// SHR shifts right by n bits (logical). A shift count >= 256 yields 0.
func (a U256) SHR(n uint64) U256 {
	if n >= 256 {
		return U256{}
	}
	var out U256
	out.v.Rsh(&a.v, uint(n))
	return out
}

// Uint64 returns the low 64 bits, discarding any higher bits.
func (u U256) Uint64() uint64 { return u.v.Uint64() }

// FitsUint64 reports whether the value fits in 64 bits.
func (u U256) FitsUint64() bool { return u.v.IsUint64() }

// ToI256 converts to I256, failing if the value is greater than 2^255-1
// (i.e. its sign bit would flip under two's complement reinterpretation).
func (u U256) ToI256() (I256, bool) {
	b := u.v.Bytes32()
	if b[0]&0x80 != 0 {
		return I256{}, false
	}
	return i256FromUint256(u), true
}

// signBit reports whether the two's-complement sign bit (bit 255) is set.
func (u U256) signBit() bool {
	b := u.v.Bytes32()
	return b[0]&0x80 != 0
}
