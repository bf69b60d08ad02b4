package vm

import "github.com/alephium/gvm/core/types"

// contract_call.go implements the asset instructions (§4.6): approving
// balances for a callee, reading remaining balances, and moving amounts
// into the transaction's output-balance accumulator.

func (ctx *ExecutionContext) selfLockup(f *Frame) (Address, error) {
	if f.Stateful == nil {
		return Address{}, ErrNonPayableFrame
	}
	return f.Stateful.Address(), nil
}

func (ctx *ExecutionContext) execApproveAlf(st *Stack) error {
	amount, err := st.PopU256()
	if err != nil {
		return err
	}
	addr, err := st.PopAddress()
	if err != nil {
		return err
	}
	return ctx.Balances.ApproveAlf(addr, amount)
}

func (ctx *ExecutionContext) execApproveToken(st *Stack) error {
	amount, err := st.PopU256()
	if err != nil {
		return err
	}
	tokenID, err := st.PopByteVec()
	if err != nil {
		return err
	}
	addr, err := st.PopAddress()
	if err != nil {
		return err
	}
	return ctx.Balances.ApproveToken(addr, types.BytesToHash(tokenID), amount)
}

func (ctx *ExecutionContext) execAlfRemaining(st *Stack) error {
	addr, err := st.PopAddress()
	if err != nil {
		return err
	}
	bal, err := ctx.Balances.AlfRemaining(addr)
	if err != nil {
		return err
	}
	return st.Push(ValU256(bal))
}

func (ctx *ExecutionContext) execTokenRemaining(st *Stack) error {
	tokenID, err := st.PopByteVec()
	if err != nil {
		return err
	}
	addr, err := st.PopAddress()
	if err != nil {
		return err
	}
	bal, err := ctx.Balances.TokenRemaining(addr, types.BytesToHash(tokenID))
	if err != nil {
		return err
	}
	return st.Push(ValU256(bal))
}

// execTransferAlf moves amount from a source's remaining ALPH pool into
// the transaction's output-balance accumulator (§4.6). fromSelf/toSelf
// select the current contract's own P2C lockup in place of a popped
// address for the source/destination respectively.
func (ctx *ExecutionContext) execTransferAlf(f *Frame, st *Stack, fromSelf, toSelf bool) error {
	amount, err := st.PopU256()
	if err != nil {
		return err
	}
	dest, err := ctx.resolveEndpoint(f, st, toSelf)
	if err != nil {
		return err
	}
	src, err := ctx.resolveEndpoint(f, st, fromSelf)
	if err != nil {
		return err
	}
	if err := ctx.Balances.UseAlf(src, amount); err != nil {
		return err
	}
	return ctx.Outputs.AddAlf(dest, amount)
}

func (ctx *ExecutionContext) execTransferToken(f *Frame, st *Stack, fromSelf, toSelf bool) error {
	amount, err := st.PopU256()
	if err != nil {
		return err
	}
	tokenBytes, err := st.PopByteVec()
	if err != nil {
		return err
	}
	tokenID := types.BytesToHash(tokenBytes)
	dest, err := ctx.resolveEndpoint(f, st, toSelf)
	if err != nil {
		return err
	}
	src, err := ctx.resolveEndpoint(f, st, fromSelf)
	if err != nil {
		return err
	}
	if err := ctx.Balances.UseToken(src, tokenID, amount); err != nil {
		return err
	}
	return ctx.Outputs.AddToken(dest, tokenID, amount)
}

// resolveEndpoint returns the current contract's own address if self is
// true, otherwise pops an address from the stack.
func (ctx *ExecutionContext) resolveEndpoint(f *Frame, st *Stack, self bool) (Address, error) {
	if self {
		return ctx.selfLockup(f)
	}
	return st.PopAddress()
}
