package vm

import (
	"testing"

	"github.com/alephium/gvm/core/types"
)

type memWorldState struct {
	contracts map[types.Hash]*StatefulContractObj
}

func newMemWorldState() *memWorldState {
	return &memWorldState{contracts: make(map[types.Hash]*StatefulContractObj)}
}

func (w *memWorldState) LoadContract(id types.Hash) (*StatefulContractObj, error) {
	c, ok := w.contracts[id]
	if !ok {
		return nil, ErrContractNotFound
	}
	return c, nil
}

func (w *memWorldState) PutContract(obj *StatefulContractObj) error {
	w.contracts[obj.ContractID] = obj
	return nil
}

func (w *memWorldState) DestroyContract(id types.Hash) error {
	if _, ok := w.contracts[id]; !ok {
		return ErrContractNotFound
	}
	delete(w.contracts, id)
	return nil
}

func newTestContext(gasLimit uint64) *ExecutionContext {
	world := newMemWorldState()
	ref := types.BytesToHash([]byte("input0"))
	return NewExecutionContext(world, BlockEnv{}, nil, gasLimit, ref, ref)
}

func runScript(t *testing.T, instrs []Instr, retType []Type, gasLimit uint64) ([]Val, error) {
	t.Helper()
	method := &Method{LocalsType: nil, ReturnType: retType, IsPublic: true, Instrs: instrs}
	code := &Code{Methods: []Method{*method}, IsStateful: false}
	obj := &ContractObj{Code: code}
	ctx := newTestContext(gasLimit)
	return ctx.Run(obj, nil, &code.Methods[0], nil)
}

// U256Const2 + U256Const3 + U256Add + Return: spec §8's worked example,
// costing 2*GasVeryLow (pushes) + GasVeryLow (add) = 9 gas.
func TestRunConstAddReturn(t *testing.T) {
	instrs := []Instr{
		{Op: U256Const2},
		{Op: U256Const3},
		{Op: U256Add},
		{Op: Return},
	}
	vals, err := runScript(t, instrs, []Type{TU256}, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 1 || !vals[0].AsU256().Eq(U256FromUint64(5)) {
		t.Fatalf("got %v, want [5]", vals)
	}
}

// ConstTrue + Assert + Return: spec §8's worked example, costing
// 2*GasVeryLow = 6 gas.
func TestRunAssertPass(t *testing.T) {
	instrs := []Instr{
		{Op: ConstTrue},
		{Op: Assert},
		{Op: Return},
	}
	_, err := runScript(t, instrs, nil, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunAssertFailAborts(t *testing.T) {
	instrs := []Instr{
		{Op: ConstFalse},
		{Op: Assert},
		{Op: Return},
	}
	_, err := runScript(t, instrs, nil, 1000)
	if err == nil {
		t.Fatalf("expected an assertion failure")
	}
}

func TestRunOutOfGasAborts(t *testing.T) {
	instrs := []Instr{
		{Op: U256Const2},
		{Op: U256Const3},
		{Op: U256Add},
		{Op: Return},
	}
	_, err := runScript(t, instrs, []Type{TU256}, 1)
	if err == nil {
		t.Fatalf("expected an out-of-gas failure")
	}
}

func TestRunCallLocal(t *testing.T) {
	callee := Method{
		LocalsType: []Type{TU256},
		ReturnType: []Type{TU256},
		IsPublic:   false,
		Instrs: []Instr{
			{Op: LoadLocal, Index: 0},
			{Op: U256Const1},
			{Op: U256Add},
			{Op: Return},
		},
	}
	caller := Method{
		ReturnType: []Type{TU256},
		IsPublic:   true,
		Instrs: []Instr{
			{Op: U256Const2},
			{Op: CallLocal, Index: 1},
			{Op: Return},
		},
	}
	code := &Code{Methods: []Method{caller, callee}, IsStateful: false}
	obj := &ContractObj{Code: code}
	ctx := newTestContext(10000)
	vals, err := ctx.Run(obj, nil, &code.Methods[0], nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 1 || !vals[0].AsU256().Eq(U256FromUint64(3)) {
		t.Fatalf("got %v, want [3]", vals)
	}
}

func TestRunDivisionByZero(t *testing.T) {
	instrs := []Instr{
		{Op: U256Const1},
		{Op: U256Const0},
		{Op: U256Div},
		{Op: Return},
	}
	_, err := runScript(t, instrs, []Type{TU256}, 1000)
	if err == nil {
		t.Fatalf("expected division-by-zero error")
	}
}

func TestRunShiftAtOrAbove256IsZero(t *testing.T) {
	instrs := []Instr{
		{Op: U256Const1},
		{Op: U256Const, U256Val: U256FromUint64(256)},
		{Op: U256SHL},
		{Op: Return},
	}
	vals, err := runScript(t, instrs, []Type{TU256}, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vals[0].AsU256().IsZero() {
		t.Fatalf("got %v, want 0", vals[0])
	}
}

func TestStructLogTracerCapturesSteps(t *testing.T) {
	instrs := []Instr{
		{Op: ConstTrue},
		{Op: Assert},
		{Op: Return},
	}
	method := &Method{ReturnType: nil, IsPublic: true, Instrs: instrs}
	code := &Code{Methods: []Method{*method}, IsStateful: false}
	obj := &ContractObj{Code: code}
	ctx := newTestContext(1000)
	tracer := NewStructLogTracer()
	ctx.SetTracer(tracer)
	if _, err := ctx.Run(obj, nil, &code.Methods[0], nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracer.Logs) != len(instrs) {
		t.Fatalf("got %d steps, want %d", len(tracer.Logs), len(instrs))
	}
	if tracer.Logs[0].Op != ConstTrue {
		t.Fatalf("got first op %v, want ConstTrue", tracer.Logs[0].Op)
	}
}
