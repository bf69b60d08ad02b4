package vm

// codec.go implements the wire encoding for instructions, methods and
// contract code (§4.1, §6): opcode_byte ++ payload, with varint-prefixed
// lists and big-endian minimum-length integer varints. Encoding and
// decoding are deliberately kept free of map iteration or any other
// non-deterministic ordering (§9 design notes).

// encodeVarint encodes n as a big-endian, minimum-length varint: a
// length-prefix byte followed by that many big-endian bytes. This is the
// "varint(length)" primitive used to prefix every [T] list and I256Const/
// U256Const payload.
func encodeVarint(n uint64) []byte {
	if n == 0 {
		return []byte{0}
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	raw := buf[i:]
	out := make([]byte, 0, len(raw)+1)
	out = append(out, byte(len(raw)))
	out = append(out, raw...)
	return out
}

// decodeVarint decodes a value encoded by encodeVarint, returning the
// value and the number of bytes consumed.
func decodeVarint(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrOutOfBound
	}
	n := int(b[0])
	if n > 8 {
		return 0, 0, ErrInvalidCode
	}
	if len(b) < 1+n {
		return 0, 0, ErrOutOfBound
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(b[1+i])
	}
	return v, 1 + n, nil
}

// encodeBytes length-prefixes a raw byte slice with a varint.
func encodeBytes(b []byte) []byte {
	out := encodeVarint(uint64(len(b)))
	return append(out, b...)
}

// decodeBytes reads a varint-prefixed byte slice, returning the bytes and
// bytes consumed.
func decodeBytes(b []byte) ([]byte, int, error) {
	n, adv, err := decodeVarint(b)
	if err != nil {
		return nil, 0, err
	}
	pos := adv
	if uint64(len(b)-pos) < n {
		return nil, 0, ErrOutOfBound
	}
	out := make([]byte, n)
	copy(out, b[pos:pos+int(n)])
	return out, pos + int(n), nil
}

// maxJumpOffset is the consensus-fixed bound on signed jump offsets (§6):
// encoding an offset outside [-maxJumpOffset, maxJumpOffset] must fail.
const maxJumpOffset = 65536

// Instr is one decoded instruction: an opcode plus whichever payload field
// its group uses (§4.1). Exactly one non-zero-value payload field is
// meaningful per opcode, selected by Op.
type Instr struct {
	Op      OpCode
	Index   byte   // LoadLocal/StoreLocal/LoadField/StoreField/CallLocal/CallExternal
	Offset  int32  // Jump/IfTrue/IfFalse, must satisfy |Offset| <= maxJumpOffset
	I256Val I256   // I256Const
	U256Val U256   // U256Const
	Bytes   []byte // BytesConst
	Addr    Address // AddressConst
}

// EncodeInstr serializes one instruction as opcode_byte ++ payload.
func EncodeInstr(in Instr) ([]byte, error) {
	out := []byte{byte(in.Op)}
	switch in.Op {
	case I256Const:
		out = append(out, encodeBytes(in.I256Val.MinimalBytes())...)
	case U256Const:
		out = append(out, encodeBytes(in.U256Val.Bytes())...)
	case BytesConst:
		out = append(out, encodeBytes(in.Bytes)...)
	case AddressConst:
		out = append(out, encodeBytes(in.Addr.Script.Bytes())...)
	case LoadLocal, StoreLocal, LoadField, StoreField, CallLocal, CallExternal:
		out = append(out, in.Index)
	case Jump, IfTrue, IfFalse:
		if in.Offset > maxJumpOffset || in.Offset < -maxJumpOffset {
			return nil, ErrInvalidOffset
		}
		out = append(out, byte(in.Offset>>24), byte(in.Offset>>16), byte(in.Offset>>8), byte(in.Offset))
	default:
		// no payload
	}
	return out, nil
}

// DecodeInstr decodes one instruction from b, starting at offset 0,
// dispatching the opcode through the given table (stateless or stateful).
// Returns the instruction and the number of bytes consumed.
func DecodeInstr(b []byte, table *opTable) (Instr, int, error) {
	if len(b) == 0 {
		return Instr{}, 0, ErrOutOfBound
	}
	op := OpCode(b[0])
	if !table.has(op) {
		return Instr{}, 0, ErrInvalidCode
	}
	pos := 1
	in := Instr{Op: op}
	switch op {
	case I256Const:
		raw, adv, err := decodeBytes(b[pos:])
		if err != nil {
			return Instr{}, 0, err
		}
		in.I256Val = I256FromMinimalBytes(raw)
		pos += adv
	case U256Const:
		raw, adv, err := decodeBytes(b[pos:])
		if err != nil {
			return Instr{}, 0, err
		}
		in.U256Val = U256FromBytes(raw)
		pos += adv
	case BytesConst:
		raw, adv, err := decodeBytes(b[pos:])
		if err != nil {
			return Instr{}, 0, err
		}
		in.Bytes = raw
		pos += adv
	case AddressConst:
		raw, adv, err := decodeBytes(b[pos:])
		if err != nil {
			return Instr{}, 0, err
		}
		script, n, err := DecodeLockupScript(raw)
		if err != nil {
			return Instr{}, 0, err
		}
		if n != len(raw) {
			return Instr{}, 0, ErrInvalidCode
		}
		in.Addr = Address{Script: script}
		pos += adv
	case LoadLocal, StoreLocal, LoadField, StoreField, CallLocal, CallExternal:
		if len(b) < pos+1 {
			return Instr{}, 0, ErrOutOfBound
		}
		in.Index = b[pos]
		pos++
	case Jump, IfTrue, IfFalse:
		if len(b) < pos+4 {
			return Instr{}, 0, ErrOutOfBound
		}
		off := int32(b[pos])<<24 | int32(b[pos+1])<<16 | int32(b[pos+2])<<8 | int32(b[pos+3])
		if off > maxJumpOffset || off < -maxJumpOffset {
			return Instr{}, 0, ErrInvalidOffset
		}
		in.Offset = off
		pos += 4
	default:
		// no payload
	}
	return in, pos, nil
}

// EncodeInstrs serializes a full instruction stream as
// varint(length) ++ concatenated instructions.
func EncodeInstrs(instrs []Instr) ([]byte, error) {
	var body []byte
	for _, in := range instrs {
		b, err := EncodeInstr(in)
		if err != nil {
			return nil, err
		}
		body = append(body, b...)
	}
	out := encodeVarint(uint64(len(instrs)))
	return append(out, body...), nil
}

// DecodeInstrs decodes a full instruction stream produced by EncodeInstrs.
func DecodeInstrs(b []byte, table *opTable) ([]Instr, int, error) {
	n, adv, err := decodeVarint(b)
	if err != nil {
		return nil, 0, err
	}
	pos := adv
	instrs := make([]Instr, 0, n)
	for i := uint64(0); i < n; i++ {
		in, consumed, err := DecodeInstr(b[pos:], table)
		if err != nil {
			return nil, 0, err
		}
		instrs = append(instrs, in)
		pos += consumed
	}
	return instrs, pos, nil
}

// encodeTypes serializes a type list as varint(length) ++ one byte per type.
func encodeTypes(types []Type) []byte {
	out := encodeVarint(uint64(len(types)))
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

func decodeTypes(b []byte) ([]Type, int, error) {
	n, adv, err := decodeVarint(b)
	if err != nil {
		return nil, 0, err
	}
	pos := adv
	if uint64(len(b)-pos) < n {
		return nil, 0, ErrOutOfBound
	}
	out := make([]Type, n)
	for i := uint64(0); i < n; i++ {
		out[i] = Type(b[pos])
		pos++
	}
	return out, pos, nil
}
