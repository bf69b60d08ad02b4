package vm

import "github.com/alephium/gvm/core/types"

// call_frame.go implements the frame model (§3, §4.2): per-invocation
// locals, a private operand stack, a program counter, and the return
// protocol that writes values back into the caller's stack. Frames form
// a strict stack owned by the driver; no reference to a frame escapes
// past its own lifetime (§9 design notes).

// maxFrameDepth bounds the call-frame stack. Not individually named as a
// protocol constant; fixed per the §9 open question on unspecified limits.
const maxFrameDepth = 1024

// Frame is one active invocation record (§3).
type Frame struct {
	Obj      *ContractObj
	Stateful *StatefulContractObj // non-nil only for frames over a deployed contract
	Method   *Method
	Locals   []Val
	OpStack  *Stack
	PC       int

	// ReturnTo pushes this frame's return values into the caller's
	// stack. Nil for the root frame, whose return values are instead
	// reported to the driver as the transaction's overall result.
	ReturnTo func([]Val) error

	// Caller is the contract address that invoked this frame via
	// CallExternal, nil for CallLocal frames and the root frame.
	// CallerAddress reads this; absence is ExpectACaller.
	Caller         *Address
	CallerCodeHash types.Hash

	Depth int
}

// GetLocal returns local i, failing OutOfBound if out of range.
func (f *Frame) GetLocal(i int) (Val, error) {
	if i < 0 || i >= len(f.Locals) {
		return Val{}, ErrOutOfBound
	}
	return f.Locals[i], nil
}

// SetLocal assigns local i, failing OutOfBound if out of range.
func (f *Frame) SetLocal(i int, v Val) error {
	if i < 0 || i >= len(f.Locals) {
		return ErrOutOfBound
	}
	f.Locals[i] = v
	return nil
}

// GetField reads field i of the frame's object. Stateless frames have no
// fields, so any index fails OutOfBound without needing a separate check.
func (f *Frame) GetField(i int) (Val, error) {
	return f.Obj.GetField(i)
}

// SetField writes field i of the frame's object.
func (f *Frame) SetField(i int, v Val) error {
	return f.Obj.SetField(i, v)
}

// OffsetPC moves the program counter by delta instructions, failing
// InvalidPC if the result falls outside the instruction stream. Because
// PC addresses a decoded instruction slice rather than a raw byte
// offset, every in-range index is already an instruction boundary.
func (f *Frame) OffsetPC(delta int32) error {
	next := f.PC + int(delta)
	if next < 0 || next >= len(f.Method.Instrs) {
		return ErrInvalidPC
	}
	f.PC = next
	return nil
}

// Finish pops exactly Method.ReturnType's length of values from the
// operand stack (innermost pushed last, so the pop order is reversed to
// restore the original left-to-right order), checks them against the
// declared return types, and returns them; execReturn hands them to
// ReturnTo.
func (f *Frame) Finish() ([]Val, error) {
	n := len(f.Method.ReturnType)
	vals := make([]Val, n)
	for i := n - 1; i >= 0; i-- {
		v, err := f.OpStack.Pop()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	for i, v := range vals {
		if v.Type() != f.Method.ReturnType[i] {
			return nil, ErrInvalidType
		}
	}
	return vals, nil
}

// FrameStack is the driver-owned call stack (§9: "model as a vector
// owned by the driver").
type FrameStack struct {
	frames []*Frame
}

// NewFrameStack returns an empty frame stack.
func NewFrameStack() *FrameStack {
	return &FrameStack{frames: make([]*Frame, 0, 16)}
}

// Depth returns the number of active frames.
func (fs *FrameStack) Depth() int { return len(fs.frames) }

// Push adds a new frame, failing StackOverflow past maxFrameDepth (§4.8,
// §7: frame-stack overflow is the same error kind as operand-stack
// overflow, not a distinct call-depth error).
func (fs *FrameStack) Push(f *Frame) error {
	if len(fs.frames) >= maxFrameDepth {
		return ErrStackOverflow
	}
	f.Depth = len(fs.frames)
	fs.frames = append(fs.frames, f)
	framesEntered.Inc()
	callDepth.Set(float64(len(fs.frames)))
	return nil
}

// Pop removes and returns the top frame, nil if empty.
func (fs *FrameStack) Pop() *Frame {
	n := len(fs.frames)
	if n == 0 {
		return nil
	}
	f := fs.frames[n-1]
	fs.frames = fs.frames[:n-1]
	callDepth.Set(float64(len(fs.frames)))
	return f
}

// Current returns the top frame without removing it, nil if empty.
func (fs *FrameStack) Current() *Frame {
	n := len(fs.frames)
	if n == 0 {
		return nil
	}
	return fs.frames[n-1]
}
