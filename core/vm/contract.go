package vm

import (
	"github.com/alephium/gvm/core/types"
)

// Method is one callable entry point (§3): its locals/return signature,
// whether external callers may invoke it, whether it may move assets,
// and its instruction stream. IsPublic/IsPayable are not named in the
// data model's Method listing but are required by §4.2 ("externally
// callable") and §4.6 ("payable method") -- see DESIGN.md.
type Method struct {
	LocalsType []Type
	ReturnType []Type
	IsPublic   bool
	IsPayable  bool
	Instrs     []Instr
}

// CheckArgs validates that args match LocalsType exactly in length and
// per-element type (§3 invariant).
func (m *Method) CheckArgs(args []Val) error {
	if len(args) != len(m.LocalsType) {
		return ErrInvalidMethodArgLength
	}
	for i, a := range args {
		if a.Type() != m.LocalsType[i] {
			return ErrInvalidMethodParamsType
		}
	}
	return nil
}

// Code is the shared shape of StatelessScript, StatefulScript and
// StatefulContract (§3): field types plus methods. IsStateful gates
// whether its instruction stream may use stateful-only opcodes and
// whether its frames expose fields at all.
type Code struct {
	FieldTypes []Type
	Methods    []Method
	IsStateful bool
}

// Table returns the opcode table this code's instructions must have
// decoded against.
func (c *Code) Table() *opTable {
	return tableFor(c.IsStateful)
}

// EncodeCode serializes a Code value as
// fields_types ++ varint(method count) ++ methods (§6): each method is
// locals_type ++ return_type ++ flags ++ instrs, each [T] list
// varint-prefixed, where flags is one byte (bit 0 IsPublic, bit 1
// IsPayable).
func EncodeCode(c *Code) ([]byte, error) {
	out := encodeTypes(c.FieldTypes)
	out = append(out, encodeVarint(uint64(len(c.Methods)))...)
	table := c.Table()
	for _, m := range c.Methods {
		out = append(out, encodeTypes(m.LocalsType)...)
		out = append(out, encodeTypes(m.ReturnType)...)
		flags := byte(0)
		if m.IsPublic {
			flags |= 1
		}
		if m.IsPayable {
			flags |= 2
		}
		out = append(out, flags)
		instrBytes, err := EncodeInstrs(m.Instrs)
		if err != nil {
			return nil, err
		}
		out = append(out, instrBytes...)
	}
	_ = table
	return out, nil
}

// DecodeCode parses the wire form produced by EncodeCode. isStateful
// selects which opcode table method bodies are decoded against.
func DecodeCode(b []byte, isStateful bool) (*Code, error) {
	fieldTypes, pos, err := decodeTypes(b)
	if err != nil {
		return nil, err
	}
	nMethods, adv, err := decodeVarint(b[pos:])
	if err != nil {
		return nil, err
	}
	pos += adv
	table := tableFor(isStateful)
	methods := make([]Method, 0, nMethods)
	for i := uint64(0); i < nMethods; i++ {
		locals, adv, err := decodeTypes(b[pos:])
		if err != nil {
			return nil, err
		}
		pos += adv
		ret, adv, err := decodeTypes(b[pos:])
		if err != nil {
			return nil, err
		}
		pos += adv
		if pos >= len(b) {
			return nil, ErrOutOfBound
		}
		flags := b[pos]
		pos++
		instrs, adv, err := DecodeInstrs(b[pos:], table)
		if err != nil {
			return nil, err
		}
		pos += adv
		methods = append(methods, Method{
			LocalsType: locals,
			ReturnType: ret,
			IsPublic:   flags&1 != 0,
			IsPayable:  flags&2 != 0,
			Instrs:     instrs,
		})
	}
	return &Code{FieldTypes: fieldTypes, Methods: methods, IsStateful: isStateful}, nil
}

// ContractObj is a runtime instance of a Code value (§3): its
// instantiated field values alongside the shared, immutable code.
type ContractObj struct {
	Code   *Code
	Fields []Val
}

// StatefulContractObj is a deployed contract instance, additionally
// identified by its contract id and code hash.
type StatefulContractObj struct {
	ContractObj
	ContractID types.Hash
	CodeHash   types.Hash
}

// Address returns the P2C lockup address of this deployed contract.
func (c *StatefulContractObj) Address() Address {
	return NewAddress(NewP2C(c.ContractID))
}

// GetField returns field i, failing OutOfBound if out of range.
func (c *ContractObj) GetField(i int) (Val, error) {
	if i < 0 || i >= len(c.Fields) {
		return Val{}, ErrOutOfBound
	}
	return c.Fields[i], nil
}

// SetField assigns field i, failing OutOfBound if out of range.
func (c *ContractObj) SetField(i int, v Val) error {
	if i < 0 || i >= len(c.Fields) {
		return ErrOutOfBound
	}
	c.Fields[i] = v
	return nil
}
