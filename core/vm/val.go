package vm

import "fmt"

// Type tags a Val's variant. Method signatures (locals, returns, fields)
// are checked against these tags, never against Go's dynamic type alone.
type Type byte

const (
	TBool Type = iota
	TI256
	TU256
	TByteVec
	TAddress
)

func (t Type) String() string {
	switch t {
	case TBool:
		return "Bool"
	case TI256:
		return "I256"
	case TU256:
		return "U256"
	case TByteVec:
		return "ByteVec"
	case TAddress:
		return "Address"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// Val is the VM's tagged operand-stack value. Values are immutable once
// constructed; equality is structural. Exactly one of the typed fields is
// meaningful, selected by Tag.
type Val struct {
	Tag     Type
	boolean bool
	i256    I256
	u256    U256
	bytes   []byte
	addr    Address
}

// ValBool constructs a Bool value.
func ValBool(b bool) Val { return Val{Tag: TBool, boolean: b} }

// ValI256 constructs an I256 value.
func ValI256(i I256) Val { return Val{Tag: TI256, i256: i} }

// ValU256 constructs a U256 value.
func ValU256(u U256) Val { return Val{Tag: TU256, u256: u} }

// ValByteVec constructs a ByteVec value. The backing slice is not copied;
// callers must treat it as immutable once wrapped.
func ValByteVec(b []byte) Val { return Val{Tag: TByteVec, bytes: b} }

// ValAddress constructs an Address value.
func ValAddress(a Address) Val { return Val{Tag: TAddress, addr: a} }

// Type returns the value's type tag.
func (v Val) Type() Type { return v.Tag }

// AsBool returns the boolean payload. Callers must check Tag == TBool first.
func (v Val) AsBool() bool { return v.boolean }

// AsI256 returns the I256 payload. Callers must check Tag == TI256 first.
func (v Val) AsI256() I256 { return v.i256 }

// AsU256 returns the U256 payload. Callers must check Tag == TU256 first.
func (v Val) AsU256() U256 { return v.u256 }

// AsByteVec returns the ByteVec payload. Callers must check Tag == TByteVec first.
func (v Val) AsByteVec() []byte { return v.bytes }

// AsAddress returns the Address payload. Callers must check Tag == TAddress first.
func (v Val) AsAddress() Address { return v.addr }

// Equal reports structural equality between two values of possibly
// different types (always false across differing tags).
func (v Val) Equal(other Val) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case TBool:
		return v.boolean == other.boolean
	case TI256:
		return v.i256.Eq(other.i256)
	case TU256:
		return v.u256.Eq(other.u256)
	case TByteVec:
		if len(v.bytes) != len(other.bytes) {
			return false
		}
		for i := range v.bytes {
			if v.bytes[i] != other.bytes[i] {
				return false
			}
		}
		return true
	case TAddress:
		return v.addr.Equal(other.addr)
	default:
		return false
	}
}

func (v Val) String() string {
	switch v.Tag {
	case TBool:
		return fmt.Sprintf("Bool(%v)", v.boolean)
	case TI256:
		return fmt.Sprintf("I256(%s)", v.i256.String())
	case TU256:
		return fmt.Sprintf("U256(%s)", v.u256.String())
	case TByteVec:
		return fmt.Sprintf("ByteVec(%x)", v.bytes)
	case TAddress:
		return fmt.Sprintf("Address(%s)", v.addr.String())
	default:
		return "Val(?)"
	}
}
