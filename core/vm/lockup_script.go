package vm

import (
	"github.com/mr-tron/base58"

	"github.com/alephium/gvm/core/types"
	"github.com/alephium/gvm/crypto"
)

// LockupScriptTag identifies a LockupScript variant in its wire encoding.
type LockupScriptTag byte

const (
	TagP2PKH  LockupScriptTag = 0
	TagP2MPKH LockupScriptTag = 1
	TagP2SH   LockupScriptTag = 2
	TagP2C    LockupScriptTag = 3
)

// LockupScript is the sum type governing spend of an output (§3). P2PKH,
// P2MPKH and P2SH are asset lockups; P2C is valid only for contract outputs.
type LockupScript struct {
	Tag LockupScriptTag

	PKHash   types.Hash   // P2PKH
	PKHashes []types.Hash // P2MPKH
	M        int          // P2MPKH threshold, 0 < M < len(PKHashes)

	ScriptHash types.Hash // P2SH

	ContractID types.Hash // P2C
}

// NewP2PKH constructs a pay-to-public-key-hash lockup.
func NewP2PKH(pkHash types.Hash) LockupScript {
	return LockupScript{Tag: TagP2PKH, PKHash: pkHash}
}

// NewP2MPKH constructs a pay-to-multi-public-key-hash lockup. Panics if the
// threshold invariant 0 < m < len(hashes) does not hold -- callers decoding
// untrusted bytes must validate before calling this constructor.
func NewP2MPKH(hashes []types.Hash, m int) LockupScript {
	if m <= 0 || m >= len(hashes) {
		panic("vm: invalid P2MPKH threshold")
	}
	return LockupScript{Tag: TagP2MPKH, PKHashes: hashes, M: m}
}

// NewP2SH constructs a pay-to-script-hash lockup.
func NewP2SH(scriptHash types.Hash) LockupScript {
	return LockupScript{Tag: TagP2SH, ScriptHash: scriptHash}
}

// NewP2C constructs a pay-to-contract lockup, valid only for contract
// outputs and a StatefulContractObj's own address.
func NewP2C(contractID types.Hash) LockupScript {
	return LockupScript{Tag: TagP2C, ContractID: contractID}
}

// IsAssetLockup reports whether the script guards a spendable asset output
// (P2PKH/P2MPKH/P2SH), as opposed to P2C which only addresses a contract.
func (l LockupScript) IsAssetLockup() bool {
	return l.Tag != TagP2C
}

// Equal reports structural equality.
func (l LockupScript) Equal(o LockupScript) bool {
	if l.Tag != o.Tag {
		return false
	}
	switch l.Tag {
	case TagP2PKH:
		return l.PKHash == o.PKHash
	case TagP2MPKH:
		if l.M != o.M || len(l.PKHashes) != len(o.PKHashes) {
			return false
		}
		for i := range l.PKHashes {
			if l.PKHashes[i] != o.PKHashes[i] {
				return false
			}
		}
		return true
	case TagP2SH:
		return l.ScriptHash == o.ScriptHash
	case TagP2C:
		return l.ContractID == o.ContractID
	default:
		return false
	}
}

// Bytes encodes the lockup script in its wire form: tag byte + payload
// (§6). [T] lists use varint(length) || elements.
func (l LockupScript) Bytes() []byte {
	switch l.Tag {
	case TagP2PKH:
		out := make([]byte, 0, 33)
		out = append(out, byte(TagP2PKH))
		out = append(out, l.PKHash.Bytes()...)
		return out
	case TagP2MPKH:
		out := []byte{byte(TagP2MPKH)}
		out = append(out, encodeVarint(uint64(len(l.PKHashes)))...)
		for _, h := range l.PKHashes {
			out = append(out, h.Bytes()...)
		}
		out = append(out, encodeVarint(uint64(l.M))...)
		return out
	case TagP2SH:
		out := make([]byte, 0, 33)
		out = append(out, byte(TagP2SH))
		out = append(out, l.ScriptHash.Bytes()...)
		return out
	case TagP2C:
		out := make([]byte, 0, 33)
		out = append(out, byte(TagP2C))
		out = append(out, l.ContractID.Bytes()...)
		return out
	default:
		return nil
	}
}

// DecodeLockupScript parses the wire form produced by Bytes, returning the
// number of bytes consumed.
func DecodeLockupScript(b []byte) (LockupScript, int, error) {
	if len(b) == 0 {
		return LockupScript{}, 0, ErrInvalidCode
	}
	tag := LockupScriptTag(b[0])
	pos := 1
	switch tag {
	case TagP2PKH:
		if len(b) < pos+types.HashLength {
			return LockupScript{}, 0, ErrOutOfBound
		}
		h := types.BytesToHash(b[pos : pos+types.HashLength])
		return NewP2PKH(h), pos + types.HashLength, nil
	case TagP2MPKH:
		n, adv, err := decodeVarint(b[pos:])
		if err != nil {
			return LockupScript{}, 0, err
		}
		pos += adv
		hashes := make([]types.Hash, 0, n)
		for i := uint64(0); i < n; i++ {
			if len(b) < pos+types.HashLength {
				return LockupScript{}, 0, ErrOutOfBound
			}
			hashes = append(hashes, types.BytesToHash(b[pos:pos+types.HashLength]))
			pos += types.HashLength
		}
		m, adv, err := decodeVarint(b[pos:])
		if err != nil {
			return LockupScript{}, 0, err
		}
		pos += adv
		if m == 0 || m >= n {
			return LockupScript{}, 0, ErrInvalidCode
		}
		return LockupScript{Tag: TagP2MPKH, PKHashes: hashes, M: int(m)}, pos, nil
	case TagP2SH:
		if len(b) < pos+types.HashLength {
			return LockupScript{}, 0, ErrOutOfBound
		}
		h := types.BytesToHash(b[pos : pos+types.HashLength])
		return NewP2SH(h), pos + types.HashLength, nil
	case TagP2C:
		if len(b) < pos+types.HashLength {
			return LockupScript{}, 0, ErrOutOfBound
		}
		h := types.BytesToHash(b[pos : pos+types.HashLength])
		return NewP2C(h), pos + types.HashLength, nil
	default:
		return LockupScript{}, 0, ErrInvalidCode
	}
}

// ScriptHint derives the group-selection value used for sharding
// addresses: the low 32 bits of the script's Blake2b hash.
func (l LockupScript) ScriptHint() uint32 {
	h := crypto.Blake2b256(l.Bytes())
	return uint32(h[28])<<24 | uint32(h[29])<<16 | uint32(h[30])<<8 | uint32(h[31])
}

// Address is a human-readable wrapper around a LockupScript (§3, §6):
// base58-encoded wire bytes.
type Address struct {
	Script LockupScript
}

// NewAddress wraps a LockupScript as an Address value.
func NewAddress(l LockupScript) Address { return Address{Script: l} }

// Equal reports structural equality.
func (a Address) Equal(o Address) bool { return a.Script.Equal(o.Script) }

// String renders the base58check-free address form: base58(tag||payload).
func (a Address) String() string {
	return base58.Encode(a.Script.Bytes())
}

// ParseAddress decodes a base58 human-readable address back into its
// LockupScript.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, ErrInvalidCode
	}
	script, n, err := DecodeLockupScript(b)
	if err != nil {
		return Address{}, err
	}
	if n != len(b) {
		return Address{}, ErrInvalidCode
	}
	return Address{Script: script}, nil
}
