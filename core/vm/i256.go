package vm

import "math/big"

// I256 is a signed 256-bit integer in the range [-2^255, 2^255-1]. It is
// built on math/big.Int, the portable arbitrary-precision integer the design
// calls for, canonicalized to the I256 range after every operation. All
// arithmetic is checked: it reports overflow instead of wrapping.
type I256 struct {
	v big.Int
}

var (
	i256Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	i256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
)

// I256FromInt64 constructs an I256 from an int64.
func I256FromInt64(x int64) I256 {
	var i I256
	i.v.SetInt64(x)
	return i
}

// I256Zero is the additive identity.
func I256Zero() I256 { return I256{} }

// inRange reports whether v lies within [-2^255, 2^255-1].
func inRange(v *big.Int) bool {
	return v.Cmp(i256Min) >= 0 && v.Cmp(i256Max) <= 0
}

// i256FromUint256 reinterprets u's 256-bit pattern as two's complement,
// assuming the caller has already verified the sign bit is clear.
func i256FromUint256(u U256) I256 {
	var i I256
	i.v.SetBytes(u.Bytes32()[:])
	return i
}

// toUint256 converts an I256 into its 256-bit two's complement pattern.
func (a I256) toUint256() U256 {
	var buf [32]byte
	if a.v.Sign() >= 0 {
		a.v.FillBytes(buf[:])
	} else {
		// two's complement: 2^256 + a.v
		mod := new(big.Int).Lsh(big.NewInt(1), 256)
		mod.Add(mod, &a.v)
		mod.FillBytes(buf[:])
	}
	return U256FromBytes(buf[:])
}

// Bytes32 returns the 32-byte two's complement big-endian encoding.
func (a I256) Bytes32() [32]byte {
	return a.toUint256().Bytes32()
}

// I256FromBytes32 decodes a two's complement big-endian encoding.
func I256FromBytes32(b [32]byte) I256 {
	u := U256FromBytes(b[:])
	if u.signBit() {
		mod := new(big.Int).Lsh(big.NewInt(1), 256)
		raw := new(big.Int).SetBytes(b[:])
		var i I256
		i.v.Sub(raw, mod)
		return i
	}
	var i I256
	i.v.SetBytes(b[:])
	return i
}

// MinimalBytes returns a's two's-complement big-endian encoding trimmed
// to the fewest bytes whose leading byte's sign bit still matches a's
// sign (the big-endian minimum-length rule §4.1/§6 require for
// I256Const). Zero encodes as a single 0x00 byte.
func (a I256) MinimalBytes() []byte {
	full := a.Bytes32()
	b := full[:]
	for len(b) > 1 {
		if b[0] == 0x00 && b[1]&0x80 == 0 {
			b = b[1:]
			continue
		}
		if b[0] == 0xFF && b[1]&0x80 != 0 {
			b = b[1:]
			continue
		}
		break
	}
	return b
}

// I256FromMinimalBytes decodes an encoding produced by MinimalBytes,
// sign-extending from the top bit of the first byte. An empty slice
// decodes as zero.
func I256FromMinimalBytes(b []byte) I256 {
	if len(b) == 0 {
		return I256Zero()
	}
	var arr [32]byte
	if b[0]&0x80 != 0 {
		for i := range arr {
			arr[i] = 0xFF
		}
	}
	copy(arr[32-len(b):], b)
	return I256FromBytes32(arr)
}

func (a I256) String() string { return a.v.String() }

func (a I256) IsZero() bool { return a.v.Sign() == 0 }
func (a I256) Sign() int    { return a.v.Sign() }

func (a I256) Eq(b I256) bool { return a.v.Cmp(&b.v) == 0 }
func (a I256) Lt(b I256) bool { return a.v.Cmp(&b.v) < 0 }
func (a I256) Gt(b I256) bool { return a.v.Cmp(&b.v) > 0 }
func (a I256) Le(b I256) bool { return a.v.Cmp(&b.v) <= 0 }
func (a I256) Ge(b I256) bool { return a.v.Cmp(&b.v) >= 0 }

// CheckedAdd returns (a+b, true) unless the true-math sum falls outside
// [-2^255, 2^255-1].
func (a I256) CheckedAdd(b I256) (I256, bool) {
	var out I256
	out.v.Add(&a.v, &b.v)
	if !inRange(&out.v) {
		return I256{}, false
	}
	return out, true
}

// CheckedSub returns (a-b, true) unless the true-math difference overflows.
func (a I256) CheckedSub(b I256) (I256, bool) {
	var out I256
	out.v.Sub(&a.v, &b.v)
	if !inRange(&out.v) {
		return I256{}, false
	}
	return out, true
}

// CheckedMul returns (a*b, true) unless the true-math product overflows.
func (a I256) CheckedMul(b I256) (I256, bool) {
	var out I256
	out.v.Mul(&a.v, &b.v)
	if !inRange(&out.v) {
		return I256{}, false
	}
	return out, true
}

// CheckedDiv returns (a/b, true) unless b is zero or the division overflows
// (the sole case being I256::MIN / -1, whose true-math result is 2^255,
// one past the representable maximum).
func (a I256) CheckedDiv(b I256) (I256, bool) {
	if b.v.Sign() == 0 {
		return I256{}, false
	}
	var out I256
	out.v.Quo(&a.v, &b.v) // truncated division, matching two's complement CPU semantics
	if !inRange(&out.v) {
		return I256{}, false
	}
	return out, true
}

// CheckedMod returns (a%b, true) unless b is zero. The remainder takes the
// sign of the dividend (truncated division remainder), matching CheckedDiv.
func (a I256) CheckedMod(b I256) (I256, bool) {
	if b.v.Sign() == 0 {
		return I256{}, false
	}
	var out I256
	out.v.Rem(&a.v, &b.v)
	return out, true
}

// ToU256 converts to U256, failing if the value is negative.
func (a I256) ToU256() (U256, bool) {
	if a.v.Sign() < 0 {
		return U256{}, false
	}
	var u U256
	u.v.SetFromBig(&a.v)
	return u, true
}
