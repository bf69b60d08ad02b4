package vm

import (
	"github.com/alephium/gvm/crypto"
)

// instructions.go implements every opcode's execute step except
// CallLocal/CallExternal/Return, which the driver (interpreter.go)
// handles directly since they manipulate the frame stack itself.

func (ctx *ExecutionContext) dispatch(f *Frame, in Instr) error {
	st := f.OpStack
	switch in.Op {

	// -- constants --
	case ConstTrue:
		return st.Push(ValBool(true))
	case ConstFalse:
		return st.Push(ValBool(false))
	case I256Const0:
		return st.Push(ValI256(I256FromInt64(0)))
	case I256Const1:
		return st.Push(ValI256(I256FromInt64(1)))
	case I256Const2:
		return st.Push(ValI256(I256FromInt64(2)))
	case I256Const3:
		return st.Push(ValI256(I256FromInt64(3)))
	case I256Const4:
		return st.Push(ValI256(I256FromInt64(4)))
	case I256Const5:
		return st.Push(ValI256(I256FromInt64(5)))
	case I256ConstN1:
		return st.Push(ValI256(I256FromInt64(-1)))
	case U256Const0:
		return st.Push(ValU256(U256FromUint64(0)))
	case U256Const1:
		return st.Push(ValU256(U256FromUint64(1)))
	case U256Const2:
		return st.Push(ValU256(U256FromUint64(2)))
	case U256Const3:
		return st.Push(ValU256(U256FromUint64(3)))
	case U256Const4:
		return st.Push(ValU256(U256FromUint64(4)))
	case U256Const5:
		return st.Push(ValU256(U256FromUint64(5)))
	case I256Const:
		return st.Push(ValI256(in.I256Val))
	case U256Const:
		return st.Push(ValU256(in.U256Val))
	case BytesConst:
		return st.Push(ValByteVec(in.Bytes))
	case AddressConst:
		return st.Push(ValAddress(in.Addr))

	// -- locals / fields --
	case LoadLocal:
		v, err := f.GetLocal(int(in.Index))
		if err != nil {
			return err
		}
		return st.Push(v)
	case StoreLocal:
		v, err := st.Pop()
		if err != nil {
			return err
		}
		return f.SetLocal(int(in.Index), v)
	case Pop:
		_, err := st.Pop()
		return err
	case LoadField:
		v, err := f.GetField(int(in.Index))
		if err != nil {
			return err
		}
		return st.Push(v)
	case StoreField:
		v, err := st.Pop()
		if err != nil {
			return err
		}
		return f.SetField(int(in.Index), v)

	// -- boolean logic --
	case NotBool:
		a, err := st.PopBool()
		if err != nil {
			return err
		}
		return st.Push(ValBool(!a))
	case AndBool:
		b, a, err := pop2Bool(st)
		if err != nil {
			return err
		}
		return st.Push(ValBool(a && b))
	case OrBool:
		b, a, err := pop2Bool(st)
		if err != nil {
			return err
		}
		return st.Push(ValBool(a || b))
	case EqBool:
		b, a, err := pop2Bool(st)
		if err != nil {
			return err
		}
		return st.Push(ValBool(a == b))
	case NeBool:
		b, a, err := pop2Bool(st)
		if err != nil {
			return err
		}
		return st.Push(ValBool(a != b))

	// -- I256 arithmetic / comparison --
	case I256Add:
		return i256Binary(st, func(a, b I256) (I256, bool) { return a.CheckedAdd(b) })
	case I256Sub:
		return i256Binary(st, func(a, b I256) (I256, bool) { return a.CheckedSub(b) })
	case I256Mul:
		return i256Binary(st, func(a, b I256) (I256, bool) { return a.CheckedMul(b) })
	case I256Div:
		return i256Binary(st, func(a, b I256) (I256, bool) { return a.CheckedDiv(b) })
	case I256Mod:
		return i256Binary(st, func(a, b I256) (I256, bool) { return a.CheckedMod(b) })
	case I256Eq:
		return i256Compare(st, I256.Eq)
	case I256Neq:
		return i256Compare(st, func(a, b I256) bool { return !a.Eq(b) })
	case I256Lt:
		return i256Compare(st, I256.Lt)
	case I256Le:
		return i256Compare(st, I256.Le)
	case I256Gt:
		return i256Compare(st, I256.Gt)
	case I256Ge:
		return i256Compare(st, I256.Ge)

	// -- U256 arithmetic / comparison / bitwise / shift --
	case U256Add:
		return u256Binary(st, func(a, b U256) (U256, bool) { return a.CheckedAdd(b) })
	case U256Sub:
		return u256Binary(st, func(a, b U256) (U256, bool) { return a.CheckedSub(b) })
	case U256Mul:
		return u256Binary(st, func(a, b U256) (U256, bool) { return a.CheckedMul(b) })
	case U256Div:
		return u256Binary(st, func(a, b U256) (U256, bool) { return a.CheckedDiv(b) })
	case U256Mod:
		return u256Binary(st, func(a, b U256) (U256, bool) { return a.CheckedMod(b) })
	case U256Eq:
		return u256Compare(st, U256.Eq)
	case U256Neq:
		return u256Compare(st, func(a, b U256) bool { return !a.Eq(b) })
	case U256Lt:
		return u256Compare(st, U256.Lt)
	case U256Le:
		return u256Compare(st, U256.Le)
	case U256Gt:
		return u256Compare(st, U256.Gt)
	case U256Ge:
		return u256Compare(st, U256.Ge)
	case U256ModAdd:
		return u256BinaryNoFail(st, U256.ModAdd)
	case U256ModSub:
		return u256BinaryNoFail(st, U256.ModSub)
	case U256ModMul:
		return u256BinaryNoFail(st, U256.ModMul)
	case U256BitAnd:
		return u256BinaryNoFail(st, U256.BitAnd)
	case U256BitOr:
		return u256BinaryNoFail(st, U256.BitOr)
	case U256Xor:
		return u256BinaryNoFail(st, U256.Xor)
	case U256SHL:
		b, a, err := pop2U256(st)
		if err != nil {
			return err
		}
		return st.Push(ValU256(a.SHL(shiftCount(b))))
	case U256SHR:
		b, a, err := pop2U256(st)
		if err != nil {
			return err
		}
		return st.Push(ValU256(a.SHR(shiftCount(b))))

	// -- conversions --
	case I256ToU256:
		a, err := st.PopI256()
		if err != nil {
			return err
		}
		u, ok := a.ToU256()
		if !ok {
			return ErrInvalidConversion
		}
		return st.Push(ValU256(u))
	case U256ToI256:
		a, err := st.PopU256()
		if err != nil {
			return err
		}
		i, ok := a.ToI256()
		if !ok {
			return ErrInvalidConversion
		}
		return st.Push(ValI256(i))

	// -- control flow --
	case Assert:
		cond, err := st.PopBool()
		if err != nil {
			return err
		}
		if !cond {
			return ErrAssertionFailed
		}
		return nil

	// -- hashing --
	case Blake2b:
		return ctx.dispatchHash(st, crypto.Blake2b256)
	case Keccak256:
		return ctx.dispatchHash(st, crypto.Keccak256)
	case Sha256:
		return ctx.dispatchHash(st, crypto.Sha256)
	case Sha3:
		return ctx.dispatchHash(st, crypto.Sha3_256)

	// -- signature --
	case CheckSignature:
		pk, err := st.PopByteVec()
		if err != nil {
			return err
		}
		return checkSignature(ctx.Sigs, pk, ctx.txID())

	// -- block env --
	case BlockTimeStamp:
		if ctx.Block.TimeStamp < 0 {
			return ErrNegativeTimeStamp
		}
		return st.Push(ValU256(U256FromUint64(uint64(ctx.Block.TimeStamp))))
	case BlockTarget:
		return st.Push(ValU256(U256FromUint64(ctx.Block.Target)))

	// -- contract introspection --
	case SelfAddress:
		if f.Stateful == nil {
			return ErrExpectACaller
		}
		return st.Push(ValAddress(f.Stateful.Address()))
	case SelfContractId:
		if f.Stateful == nil {
			return ErrExpectACaller
		}
		return st.Push(ValByteVec(f.Stateful.ContractID.Bytes()))
	case CallerAddress:
		if f.Caller == nil {
			return ErrExpectACaller
		}
		return st.Push(ValAddress(*f.Caller))
	case CallerCodeHash:
		if f.Caller == nil {
			return ErrExpectACaller
		}
		return st.Push(ValByteVec(f.CallerCodeHash.Bytes()))
	case ContractCodeHash:
		if f.Stateful == nil {
			return ErrExpectACaller
		}
		return st.Push(ValByteVec(f.Stateful.CodeHash.Bytes()))

	// -- asset instructions --
	case ApproveAlf:
		return ctx.execApproveAlf(st)
	case ApproveToken:
		return ctx.execApproveToken(st)
	case AlfRemaining:
		return ctx.execAlfRemaining(st)
	case TokenRemaining:
		return ctx.execTokenRemaining(st)
	case TransferAlf:
		return ctx.execTransferAlf(f, st, false, false)
	case TransferAlfFromSelf:
		return ctx.execTransferAlf(f, st, true, false)
	case TransferAlfToSelf:
		return ctx.execTransferAlf(f, st, false, true)
	case TransferToken:
		return ctx.execTransferToken(f, st, false, false)
	case TransferTokenFromSelf:
		return ctx.execTransferToken(f, st, true, false)
	case TransferTokenToSelf:
		return ctx.execTransferToken(f, st, false, true)

	// -- contract lifecycle --
	case CreateContract:
		return ctx.execCreateContract(f, st, false)
	case CopyCreateContract:
		return ctx.execCreateContract(f, st, true)
	case DestroyContract:
		return ctx.execDestroyContract(f, st)
	case IssueToken:
		return ctx.execIssueToken(f, st)

	default:
		return ErrInvalidCode
	}
}

// execJump implements Jump/IfTrue/IfFalse (§4.2, §4.3): on a taken
// branch the frame's PC moves by Offset; otherwise it simply advances
// to the next instruction.
func (ctx *ExecutionContext) execJump(f *Frame, in Instr) error {
	taken := true
	if in.Op != Jump {
		cond, err := f.OpStack.PopBool()
		if err != nil {
			return err
		}
		if in.Op == IfTrue {
			taken = cond
		} else {
			taken = !cond
		}
	}
	if taken {
		return f.OffsetPC(in.Offset)
	}
	f.PC++
	return nil
}

func pop2Bool(st *Stack) (b, a bool, err error) {
	b, err = st.PopBool()
	if err != nil {
		return false, false, err
	}
	a, err = st.PopBool()
	if err != nil {
		return false, false, err
	}
	return b, a, nil
}

func pop2U256(st *Stack) (b, a U256, err error) {
	b, err = st.PopU256()
	if err != nil {
		return U256{}, U256{}, err
	}
	a, err = st.PopU256()
	if err != nil {
		return U256{}, U256{}, err
	}
	return b, a, nil
}

func pop2I256(st *Stack) (b, a I256, err error) {
	b, err = st.PopI256()
	if err != nil {
		return I256{}, I256{}, err
	}
	a, err = st.PopI256()
	if err != nil {
		return I256{}, I256{}, err
	}
	return b, a, nil
}

// i256Binary pops RHS then LHS, per §4.3.
func i256Binary(st *Stack, op func(a, b I256) (I256, bool)) error {
	b, a, err := pop2I256(st)
	if err != nil {
		return err
	}
	out, ok := op(a, b)
	if !ok {
		return ErrArithmeticError
	}
	return st.Push(ValI256(out))
}

func i256Compare(st *Stack, cmp func(a, b I256) bool) error {
	b, a, err := pop2I256(st)
	if err != nil {
		return err
	}
	return st.Push(ValBool(cmp(a, b)))
}

func u256Binary(st *Stack, op func(a, b U256) (U256, bool)) error {
	b, a, err := pop2U256(st)
	if err != nil {
		return err
	}
	out, ok := op(a, b)
	if !ok {
		return ErrArithmeticError
	}
	return st.Push(ValU256(out))
}

func u256BinaryNoFail(st *Stack, op func(a, b U256) U256) error {
	b, a, err := pop2U256(st)
	if err != nil {
		return err
	}
	return st.Push(ValU256(op(a, b)))
}

func u256Compare(st *Stack, cmp func(a, b U256) bool) error {
	b, a, err := pop2U256(st)
	if err != nil {
		return err
	}
	return st.Push(ValBool(cmp(a, b)))
}

// shiftCount clamps a U256 shift amount to a safe uint64 for SHL/SHR,
// which themselves treat any count >= 256 as "shift out everything".
func shiftCount(u U256) uint64 {
	if !u.FitsUint64() {
		return 256
	}
	return u.Uint64()
}

// dispatchHash charges the size-dependent hash cost (§4.4, §4.7) and
// pushes the digest.
func (ctx *ExecutionContext) dispatchHash(st *Stack, h func(...[]byte) []byte) error {
	b, err := st.PopByteVec()
	if err != nil {
		return err
	}
	if err := ctx.chargeGas(hashGas(len(b))); err != nil {
		return err
	}
	return st.Push(ValByteVec(h(b)))
}

// txID is the transaction id that CheckSignature verifies against
// (§4.6), computed once by UnsignedTransaction.ID and carried into the
// driver at construction.
func (ctx *ExecutionContext) txID() []byte {
	return ctx.txIDHash.Bytes()
}
