package vm

// stackLimit bounds operand stack depth. Not a protocol constant named in
// the external interfaces, but fixed at compile time per the "must match
// the reference client" note on unspecified limits (§9 open questions).
const stackLimit = 1024

// Stack is a frame's typed LIFO operand stack.
type Stack struct {
	data []Val
}

// NewStack returns a new empty stack.
func NewStack() *Stack {
	return &Stack{data: make([]Val, 0, 16)}
}

// Push appends val, failing StackOverflow at capacity.
func (st *Stack) Push(val Val) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, val)
	return nil
}

// Pop removes and returns the top value, failing StackUnderflow if empty.
func (st *Stack) Pop() (Val, error) {
	if len(st.data) == 0 {
		return Val{}, ErrStackUnderflow
	}
	v := st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return v, nil
}

// PopType pops the top value and checks its tag, failing InvalidType on
// mismatch (the popped value is still discarded from the stack).
func (st *Stack) PopType(t Type) (Val, error) {
	v, err := st.Pop()
	if err != nil {
		return Val{}, err
	}
	if v.Type() != t {
		return Val{}, ErrInvalidType
	}
	return v, nil
}

// PopBool, PopI256, PopU256, PopByteVec, PopAddress are typed convenience
// wrappers around PopType.
func (st *Stack) PopBool() (bool, error) {
	v, err := st.PopType(TBool)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

func (st *Stack) PopI256() (I256, error) {
	v, err := st.PopType(TI256)
	if err != nil {
		return I256{}, err
	}
	return v.AsI256(), nil
}

func (st *Stack) PopU256() (U256, error) {
	v, err := st.PopType(TU256)
	if err != nil {
		return U256{}, err
	}
	return v.AsU256(), nil
}

func (st *Stack) PopByteVec() ([]byte, error) {
	v, err := st.PopType(TByteVec)
	if err != nil {
		return nil, err
	}
	return v.AsByteVec(), nil
}

func (st *Stack) PopAddress() (Address, error) {
	v, err := st.PopType(TAddress)
	if err != nil {
		return Address{}, err
	}
	return v.AsAddress(), nil
}

// Peek returns the top value without removing it.
func (st *Stack) Peek() (Val, error) {
	if len(st.data) == 0 {
		return Val{}, ErrStackUnderflow
	}
	return st.data[len(st.data)-1], nil
}

// Len returns the number of items on the stack.
func (st *Stack) Len() int { return len(st.data) }

// Data returns the underlying slice, bottom to top. Callers must not
// mutate it.
func (st *Stack) Data() []Val { return st.data }
