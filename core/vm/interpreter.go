package vm

import (
	"github.com/alephium/gvm/core/types"
	"github.com/alephium/gvm/log"
)

// interpreter.go is the execution driver (§4.8): it owns the frame
// stack, charges gas before every instruction's side effects, and
// drives CallLocal/CallExternal/Return transitions through to Done or
// Aborted. Execution of one transaction is strictly sequential (§5).

// BlockEnv is the immutable block-level context captured at execution
// start (§5): the only source of "wall clock" a script may observe.
type BlockEnv struct {
	TimeStamp int64
	Target    uint64
}

// RunState is the driver's state machine position (§4.8).
type RunState int

const (
	StateReady RunState = iota
	StateRunning
	StateDone
	StateAborted
)

// ExecutionContext drives one transaction's execution. It is not safe
// for concurrent use; callers needing parallelism across transactions
// construct one ExecutionContext per transaction over disjoint
// WorldState snapshots (§5).
type ExecutionContext struct {
	World     WorldState
	Block     BlockEnv
	Sigs      *SignatureStack
	Balances  *BalanceState
	Outputs   *OutputBalances
	GasLimit  uint64
	gasUsed   uint64
	frames    *FrameStack
	state     RunState
	firstRef  types.Hash // first input ref, for contract_id derivation
	txIDHash  types.Hash // transaction id, for CheckSignature's signed message
	nonce     uint64
	issuedToken bool // IssueToken multiplicity flag, per-transaction (§9 open question)
	logger    log.Logger
	tracer    Tracer
}

// SetTracer attaches a step tracer, replacing any previously attached
// one. Must be called before Run.
func (ctx *ExecutionContext) SetTracer(t Tracer) { ctx.tracer = t }

// NewExecutionContextForTx constructs a driver ready to run the given
// unsigned transaction's script, deriving both the contract-id seed
// (§4.5) and the CheckSignature message (§4.6) from tx itself.
func NewExecutionContextForTx(world WorldState, block BlockEnv, sigs [][]byte, gasLimit uint64, tx *UnsignedTransaction) (*ExecutionContext, error) {
	firstRef, err := tx.FirstInputRef()
	if err != nil {
		return nil, err
	}
	return NewExecutionContext(world, block, sigs, gasLimit, firstRef.TxHash, tx.ID()), nil
}

// NewExecutionContext constructs a driver ready to run one transaction,
// given its first input's referenced hash (contract-id derivation seed)
// and its own id (the CheckSignature message) directly.
func NewExecutionContext(world WorldState, block BlockEnv, sigs [][]byte, gasLimit uint64, firstInputRef, txID types.Hash) *ExecutionContext {
	return &ExecutionContext{
		World:    world,
		Block:    block,
		Sigs:     NewSignatureStack(sigs),
		Balances: NewBalanceState(),
		Outputs:  NewOutputBalances(),
		GasLimit: gasLimit,
		frames:   NewFrameStack(),
		state:    StateReady,
		firstRef: firstInputRef,
		txIDHash: txID,
		logger:   *log.Default().Module("vm"),
	}
}

// GasRemaining returns gas left to spend.
func (ctx *ExecutionContext) GasRemaining() uint64 {
	if ctx.gasUsed > ctx.GasLimit {
		return 0
	}
	return ctx.GasLimit - ctx.gasUsed
}

// chargeGas deducts cost, failing OutOfGas if insufficient (§4.7: gas is
// charged before side effects).
func (ctx *ExecutionContext) chargeGas(cost uint64) error {
	if ctx.GasRemaining() < cost {
		return ErrOutOfGas
	}
	ctx.gasUsed += cost
	return nil
}

// Run starts execution of a root method (script or contract entry) with
// the given object and arguments, and drives it to completion (§4.8).
func (ctx *ExecutionContext) Run(obj *ContractObj, stateful *StatefulContractObj, method *Method, args []Val) ([]Val, error) {
	if ctx.state != StateReady {
		return nil, ErrInvalidCode
	}
	if err := method.CheckArgs(args); err != nil {
		ctx.state = StateAborted
		return nil, err
	}
	root := &Frame{
		Obj:      obj,
		Stateful: stateful,
		Method:   method,
		Locals:   append([]Val(nil), args...),
		OpStack:  NewStack(),
		PC:       0,
	}
	if err := ctx.frames.Push(root); err != nil {
		ctx.state = StateAborted
		return nil, err
	}
	ctx.state = StateRunning
	if ctx.tracer != nil {
		ctx.tracer.CaptureStart(method, args, ctx.GasLimit)
	}

	var result []Val
	for ctx.state == StateRunning {
		f := ctx.frames.Current()
		if f == nil {
			ctx.state = StateDone
			break
		}
		if f.PC >= len(f.Method.Instrs) {
			// Falling off the end of a method body without an explicit
			// Return is InvalidPC: every method must end in Return.
			err := ctx.abort(f, ErrInvalidPC)
			if ctx.tracer != nil {
				ctx.tracer.CaptureEnd(nil, ctx.gasUsed, err)
			}
			return nil, err
		}
		in := f.Method.Instrs[f.PC]
		if ctx.tracer != nil {
			ctx.tracer.CaptureState(f.PC, in.Op, ctx.GasRemaining(), 0, f.OpStack.Data(), f.Depth)
		}
		done, vals, err := ctx.step(f, in)
		if err != nil {
			if ctx.tracer != nil {
				ctx.tracer.CaptureFault(f.PC, in.Op, ctx.GasRemaining(), f.Depth, err)
			}
			fe := ctx.abort(f, err)
			if ctx.tracer != nil {
				ctx.tracer.CaptureEnd(nil, ctx.gasUsed, fe)
			}
			return nil, fe
		}
		if done {
			result = vals
		}
	}
	if ctx.tracer != nil {
		ctx.tracer.CaptureEnd(result, ctx.gasUsed, nil)
	}
	gasUsedHistogram.Observe(float64(ctx.gasUsed))
	if ctx.state == StateAborted {
		return nil, ErrAssertionFailed // unreachable: abort() always returns first
	}
	return result, nil
}

func (ctx *ExecutionContext) abort(f *Frame, err error) error {
	ctx.state = StateAborted
	op := OpCode(0)
	pc := 0
	depth := 0
	if f != nil {
		if f.PC < len(f.Method.Instrs) {
			op = f.Method.Instrs[f.PC].Op
		}
		pc = f.PC
		depth = f.Depth
	}
	fe := newFrameError(err, op, pc, depth)
	ctx.logger.Warn("execution aborted", "err", err, "op", op, "pc", pc, "depth", depth)
	executionsAborted.WithLabelValues(op.String()).Inc()
	return fe
}

// step dispatches one instruction in frame f. Returns (true, vals, nil)
// when the whole run has completed (the root frame returned).
func (ctx *ExecutionContext) step(f *Frame, in Instr) (bool, []Val, error) {
	table := tableFor(f.isStateful())
	if !table.has(in.Op) {
		return false, nil, ErrInvalidCode
	}

	switch in.Op {
	case CallLocal:
		return false, nil, ctx.execCallLocal(f, in)
	case CallExternal:
		return false, nil, ctx.execCallExternal(f, in)
	case Return:
		return ctx.execReturn(f)
	case Jump, IfTrue, IfFalse:
		cost, err := gasCost(table, in)
		if err != nil {
			return false, nil, err
		}
		if err := ctx.chargeGas(cost); err != nil {
			return false, nil, err
		}
		return false, nil, ctx.execJump(f, in)
	default:
		cost, err := gasCost(table, in)
		if err != nil {
			return false, nil, err
		}
		if table.info(in.Op).sizeDependent {
			// charged inside dispatchHash once operand length is known
		} else if err := ctx.chargeGas(cost); err != nil {
			return false, nil, err
		}
		if err := ctx.dispatch(f, in); err != nil {
			return false, nil, err
		}
		f.PC++
		return false, nil, nil
	}
}

func (f *Frame) isStateful() bool {
	return f.Stateful != nil || f.Obj.Code.IsStateful
}

// execReturn pops the declared return values and either finishes the
// whole run (root frame) or resumes the caller (§4.2, §4.8).
func (ctx *ExecutionContext) execReturn(f *Frame) (bool, []Val, error) {
	if err := ctx.chargeGas(uint64(CostZero)); err != nil {
		return false, nil, err
	}
	vals, err := f.Finish()
	if err != nil {
		return false, nil, err
	}
	ctx.frames.Pop()
	if f.ReturnTo != nil {
		if err := f.ReturnTo(vals); err != nil {
			return false, nil, err
		}
	}
	if ctx.frames.Current() == nil {
		ctx.state = StateDone
		return true, vals, nil
	}
	ctx.frames.Current().PC++
	return false, nil, nil
}

// execCallLocal resolves method i on the same object, allocates a new
// frame, and transfers arguments from the caller's stack in reverse pop
// order into the callee's locals (§4.2).
func (ctx *ExecutionContext) execCallLocal(caller *Frame, in Instr) error {
	if err := ctx.chargeGas(uint64(GasCall)); err != nil {
		return err
	}
	idx := int(in.Index)
	if idx < 0 || idx >= len(caller.Obj.Code.Methods) {
		return ErrOutOfBound
	}
	method := &caller.Obj.Code.Methods[idx]
	locals := make([]Val, len(method.LocalsType))
	for i := len(locals) - 1; i >= 0; i-- {
		v, err := caller.OpStack.Pop()
		if err != nil {
			return err
		}
		if v.Type() != method.LocalsType[i] {
			return ErrInvalidType
		}
		locals[i] = v
	}
	callerStack := caller.OpStack
	callee := &Frame{
		Obj:      caller.Obj,
		Stateful: caller.Stateful,
		Method:   method,
		Locals:   locals,
		OpStack:  NewStack(),
		PC:       0,
		ReturnTo: func(vals []Val) error {
			for _, v := range vals {
				if err := callerStack.Push(v); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return ctx.frames.Push(callee)
}

// execCallExternal loads the target contract from world state, checks
// the method is externally callable, and pushes a new frame (§4.2). A
// calling contract's own approved balances are drained at entry and,
// without being credited to the callee, returned in full to its
// remaining pool when the callee returns cleanly. The method index travels in the
// instruction payload, exactly as CallLocal's does; only the target
// contract id is a runtime operand, since it varies per call site.
func (ctx *ExecutionContext) execCallExternal(caller *Frame, in Instr) error {
	if err := ctx.chargeGas(uint64(GasCall)); err != nil {
		return err
	}
	idBytes, err := caller.OpStack.PopByteVec()
	if err != nil {
		return err
	}
	contractID := types.BytesToHash(idBytes)
	target, err := ctx.World.LoadContract(contractID)
	if err != nil {
		return ErrContractNotFound
	}
	idx := int(in.Index)
	if idx < 0 || idx >= len(target.Code.Methods) {
		return ErrOutOfBound
	}
	method := &target.Code.Methods[idx]
	if !method.IsPublic {
		return ErrPrivateMethod
	}
	locals := make([]Val, len(method.LocalsType))
	for i := len(locals) - 1; i >= 0; i-- {
		v, err := caller.OpStack.Pop()
		if err != nil {
			return err
		}
		if v.Type() != method.LocalsType[i] {
			return ErrInvalidType
		}
		locals[i] = v
	}
	callerStack := caller.OpStack

	var approvedAlf U256
	var approvedTokens map[types.Hash]U256
	if caller.Stateful != nil {
		approvedAlf, approvedTokens = ctx.Balances.TakeApproved(caller.Stateful.Address())
	}
	var callerAddrForFrame *Address
	var callerCodeHash types.Hash
	if caller.Stateful != nil {
		callerAddr := caller.Stateful.Address()
		callerAddrForFrame = &callerAddr
		callerCodeHash = caller.Stateful.CodeHash
	}

	callee := &Frame{
		Obj:            &target.ContractObj,
		Stateful:       target,
		Method:         method,
		Locals:         locals,
		OpStack:        NewStack(),
		PC:             0,
		Caller:         callerAddrForFrame,
		CallerCodeHash: callerCodeHash,
		ReturnTo: func(vals []Val) error {
			for _, v := range vals {
				if err := callerStack.Push(v); err != nil {
					return err
				}
			}
			if caller.Stateful != nil {
				return ctx.Balances.Refund(caller.Stateful.Address(), approvedAlf, approvedTokens)
			}
			return nil
		},
	}
	return ctx.frames.Push(callee)
}
