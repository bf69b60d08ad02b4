package vm

import (
	"encoding/binary"

	"github.com/alephium/gvm/core/types"
	"github.com/alephium/gvm/crypto"
)

// contract_deployer.go implements the contract lifecycle instructions
// (§4.5): create, copy-create, destroy and issue-token.

// execCreateContract handles both CreateContract and CopyCreateContract.
// CreateContract pops fields and raw code bytes, deserializing the code
// as a StatefulContract; CopyCreateContract pops fields and an existing
// contract id, reusing that contract's code under a freshly derived id.
func (ctx *ExecutionContext) execCreateContract(f *Frame, st *Stack, copyCreate bool) error {
	if f.Method == nil || !f.Method.IsPayable {
		return ErrNonPayableFrame
	}

	fieldsVal, err := st.PopByteVec() // encoded []Val, see encodeFields below
	if err != nil {
		return err
	}
	fields, err := decodeFields(fieldsVal)
	if err != nil {
		return err
	}

	var code *Code
	if copyCreate {
		idBytes, err := st.PopByteVec()
		if err != nil {
			return err
		}
		existing, err := ctx.World.LoadContract(types.BytesToHash(idBytes))
		if err != nil {
			return ErrContractNotFound
		}
		code = existing.Code
	} else {
		raw, err := st.PopByteVec()
		if err != nil {
			return err
		}
		code, err = DecodeCode(raw, true)
		if err != nil {
			return ErrSerdeErrorCreateContract
		}
	}

	if len(fields) != len(code.FieldTypes) {
		return ErrInvalidMethodArgLength
	}
	for i, v := range fields {
		if v.Type() != code.FieldTypes[i] {
			return ErrInvalidMethodParamsType
		}
	}

	contractID := ctx.nextContractID()
	codeBytes, err := EncodeCode(code)
	if err != nil {
		return err
	}
	obj := &StatefulContractObj{
		ContractObj: ContractObj{Code: code, Fields: fields},
		ContractID:  contractID,
		CodeHash:    types.BytesToHash(crypto.Blake2b256(codeBytes)),
	}
	if err := ctx.World.PutContract(obj); err != nil {
		return err
	}

	// Initial balances are drawn from the caller's approved pool (§4.5).
	if f.Stateful != nil {
		selfAddr := f.Stateful.Address()
		alf, tokens := ctx.Balances.TakeApproved(selfAddr)
		destAddr := obj.Address()
		if !alf.IsZero() {
			if err := ctx.Balances.AddAlf(destAddr, alf); err != nil {
				return err
			}
		}
		for tokenID, amount := range tokens {
			if amount.IsZero() {
				continue
			}
			if err := ctx.Balances.AddToken(destAddr, tokenID, amount); err != nil {
				return err
			}
		}
	}

	return st.Push(ValByteVec(contractID.Bytes()))
}

// nextContractID derives a fresh contract id as hash(firstRef || nonce)
// (§4.5), where firstRef is the hash given to NewExecutionContext (the
// first input's referenced transaction hash when built by
// NewExecutionContextForTx; the input's index is not part of the seed),
// incrementing the transaction-scoped nonce so repeated
// creations within one transaction never collide.
func (ctx *ExecutionContext) nextContractID() types.Hash {
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], ctx.nonce)
	ctx.nonce++
	return types.BytesToHash(crypto.Blake2b256(ctx.firstRef.Bytes(), nonceBytes[:]))
}

// execDestroyContract pops a refund address and a contract id, requires
// the caller to be that very contract, transfers residual balance to the
// refund address, and removes the entry from world state (§4.5).
func (ctx *ExecutionContext) execDestroyContract(f *Frame, st *Stack) error {
	if f.Stateful == nil {
		return ErrExpectACaller
	}
	refundAddr, err := st.PopAddress()
	if err != nil {
		return err
	}
	idBytes, err := st.PopByteVec()
	if err != nil {
		return err
	}
	contractID := types.BytesToHash(idBytes)
	if contractID != f.Stateful.ContractID {
		return ErrExpectACaller
	}

	selfAddr := f.Stateful.Address()
	alf, err := ctx.Balances.AlfRemaining(selfAddr)
	if err == nil && !alf.IsZero() {
		if err := ctx.Balances.UseAlf(selfAddr, alf); err != nil {
			return err
		}
		if err := ctx.Outputs.AddAlf(refundAddr, alf); err != nil {
			return err
		}
	}
	return ctx.World.DestroyContract(contractID)
}

// execIssueToken implements IssueToken (§4.5): only inside a payable
// method, token id equals the current contract's id, and at most one
// IssueToken may succeed per transaction (§9 open question decision).
func (ctx *ExecutionContext) execIssueToken(f *Frame, st *Stack) error {
	if f.Stateful == nil || f.Method == nil || !f.Method.IsPayable {
		return ErrNonPayableFrame
	}
	if ctx.issuedToken {
		return ErrInvalidIssueToken
	}
	amount, err := st.PopU256()
	if err != nil {
		return err
	}
	selfAddr := f.Stateful.Address()
	if err := ctx.Outputs.AddToken(selfAddr, f.Stateful.ContractID, amount); err != nil {
		return err
	}
	ctx.issuedToken = true
	return nil
}

// encodeFields and decodeFields serialize a []Val as a varint count
// followed by each value's type tag and payload: one byte for a Bool, a
// varint-prefixed byte string for the others. An I256 is written as its
// full 32-byte two's-complement form, not the minimal form I256Const uses.
func encodeFields(vals []Val) []byte {
	out := encodeVarint(uint64(len(vals)))
	for _, v := range vals {
		out = append(out, byte(v.Type()))
		switch v.Type() {
		case TBool:
			b := byte(0)
			if v.AsBool() {
				b = 1
			}
			out = append(out, b)
		case TI256:
			b32 := v.AsI256().Bytes32()
			out = append(out, encodeBytes(b32[:])...)
		case TU256:
			out = append(out, encodeBytes(v.AsU256().Bytes())...)
		case TByteVec:
			out = append(out, encodeBytes(v.AsByteVec())...)
		case TAddress:
			out = append(out, encodeBytes(v.AsAddress().Script.Bytes())...)
		}
	}
	return out
}

func decodeFields(b []byte) ([]Val, error) {
	n, pos, err := decodeVarint(b)
	if err != nil {
		return nil, err
	}
	out := make([]Val, 0, n)
	for i := uint64(0); i < n; i++ {
		if pos >= len(b) {
			return nil, ErrOutOfBound
		}
		tag := Type(b[pos])
		pos++
		switch tag {
		case TBool:
			if pos >= len(b) {
				return nil, ErrOutOfBound
			}
			out = append(out, ValBool(b[pos] != 0))
			pos++
		case TI256:
			raw, adv, err := decodeBytes(b[pos:])
			if err != nil {
				return nil, err
			}
			var arr [32]byte
			copy(arr[32-len(raw):], raw)
			out = append(out, ValI256(I256FromBytes32(arr)))
			pos += adv
		case TU256:
			raw, adv, err := decodeBytes(b[pos:])
			if err != nil {
				return nil, err
			}
			out = append(out, ValU256(U256FromBytes(raw)))
			pos += adv
		case TByteVec:
			raw, adv, err := decodeBytes(b[pos:])
			if err != nil {
				return nil, err
			}
			out = append(out, ValByteVec(raw))
			pos += adv
		case TAddress:
			raw, adv, err := decodeBytes(b[pos:])
			if err != nil {
				return nil, err
			}
			script, n2, err := DecodeLockupScript(raw)
			if err != nil {
				return nil, err
			}
			if n2 != len(raw) {
				return nil, ErrInvalidCode
			}
			out = append(out, ValAddress(Address{Script: script}))
			pos += adv
		default:
			return nil, ErrInvalidType
		}
	}
	return out, nil
}
