package vm

import (
	"testing"

	"github.com/alephium/gvm/core/types"
)

func TestEncodeDecodeInstrRoundTrip(t *testing.T) {
	cases := []Instr{
		{Op: Return},
		{Op: I256Const, I256Val: I256FromInt64(-7)},
		{Op: U256Const, U256Val: U256FromUint64(123456789)},
		{Op: BytesConst, Bytes: []byte{1, 2, 3, 4}},
		{Op: LoadLocal, Index: 3},
		{Op: StoreLocal, Index: 5},
		{Op: CallLocal, Index: 9},
		{Op: CallExternal, Index: 9},
		{Op: Jump, Offset: 1000},
		{Op: Jump, Offset: -1000},
		{Op: IfTrue, Offset: maxJumpOffset},
		{Op: IfFalse, Offset: -maxJumpOffset},
	}
	for _, in := range cases {
		b, err := EncodeInstr(in)
		if err != nil {
			t.Fatalf("encode %v: %v", in.Op, err)
		}
		got, consumed, err := DecodeInstr(b, statelessTable)
		if err != nil {
			t.Fatalf("decode %v: %v", in.Op, err)
		}
		if consumed != len(b) {
			t.Fatalf("decode %v: consumed %d of %d bytes", in.Op, consumed, len(b))
		}
		if got.Op != in.Op {
			t.Fatalf("op mismatch: got %v want %v", got.Op, in.Op)
		}
		switch in.Op {
		case I256Const:
			if !got.I256Val.Eq(in.I256Val) {
				t.Fatalf("I256Const round trip: got %v want %v", got.I256Val, in.I256Val)
			}
		case U256Const:
			if !got.U256Val.Eq(in.U256Val) {
				t.Fatalf("U256Const round trip: got %v want %v", got.U256Val, in.U256Val)
			}
		case BytesConst:
			if string(got.Bytes) != string(in.Bytes) {
				t.Fatalf("BytesConst round trip: got %v want %v", got.Bytes, in.Bytes)
			}
		case LoadLocal, StoreLocal, CallLocal, CallExternal:
			if got.Index != in.Index {
				t.Fatalf("Index round trip: got %d want %d", got.Index, in.Index)
			}
		case Jump, IfTrue, IfFalse:
			if got.Offset != in.Offset {
				t.Fatalf("Offset round trip: got %d want %d", got.Offset, in.Offset)
			}
		}
	}
}

func TestEncodeInstrRejectsOversizedJumpOffset(t *testing.T) {
	if _, err := EncodeInstr(Instr{Op: Jump, Offset: maxJumpOffset + 1}); err != ErrInvalidOffset {
		t.Fatalf("got %v, want ErrInvalidOffset", err)
	}
	if _, err := EncodeInstr(Instr{Op: Jump, Offset: -maxJumpOffset - 1}); err != ErrInvalidOffset {
		t.Fatalf("got %v, want ErrInvalidOffset", err)
	}
}

func TestDecodeInstrRejectsUnknownOpcode(t *testing.T) {
	// LoadField (160) is stateful-only; the stateless table must reject it.
	if _, _, err := DecodeInstr([]byte{byte(LoadField), 0}, statelessTable); err != ErrInvalidCode {
		t.Fatalf("got %v, want ErrInvalidCode", err)
	}
}

func TestDecodeInstrRejectsTruncatedPayload(t *testing.T) {
	if _, _, err := DecodeInstr([]byte{byte(LoadLocal)}, statelessTable); err != ErrOutOfBound {
		t.Fatalf("got %v, want ErrOutOfBound", err)
	}
	if _, _, err := DecodeInstr([]byte{byte(Jump), 0, 0, 0}, statelessTable); err != ErrOutOfBound {
		t.Fatalf("got %v, want ErrOutOfBound", err)
	}
}

func TestEncodeDecodeInstrsRoundTrip(t *testing.T) {
	instrs := []Instr{
		{Op: U256Const2},
		{Op: U256Const3},
		{Op: Return},
	}
	b, err := EncodeInstrs(instrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, consumed, err := DecodeInstrs(b, statelessTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != len(b) {
		t.Fatalf("consumed %d of %d bytes", consumed, len(b))
	}
	if len(got) != len(instrs) {
		t.Fatalf("got %d instrs, want %d", len(got), len(instrs))
	}
	for i := range instrs {
		if got[i].Op != instrs[i].Op {
			t.Fatalf("instr %d: got %v want %v", i, got[i].Op, instrs[i].Op)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, 65535, 1 << 32, ^uint64(0)} {
		b := encodeVarint(n)
		got, adv, err := decodeVarint(b)
		if err != nil {
			t.Fatalf("decode %d: %v", n, err)
		}
		if adv != len(b) {
			t.Fatalf("decode %d: consumed %d of %d bytes", n, adv, len(b))
		}
		if got != n {
			t.Fatalf("round trip %d: got %d", n, got)
		}
	}
}

func TestLockupScriptEncodeDecodeRoundTrip(t *testing.T) {
	h1 := types.BytesToHash([]byte("alice-pubkey-hash-000000000000!!"))
	h2 := types.BytesToHash([]byte("bob---pubkey-hash-000000000000!!"))
	scripts := []LockupScript{
		NewP2PKH(h1),
		NewP2SH(h1),
		NewP2C(h1),
		NewP2MPKH([]types.Hash{h1, h2}, 1),
	}
	for _, want := range scripts {
		b := want.Bytes()
		got, consumed, err := DecodeLockupScript(b)
		if err != nil {
			t.Fatalf("decode tag %d: %v", want.Tag, err)
		}
		if consumed != len(b) {
			t.Fatalf("decode tag %d: consumed %d of %d bytes", want.Tag, consumed, len(b))
		}
		if !got.Equal(want) {
			t.Fatalf("round trip tag %d: got %+v want %+v", want.Tag, got, want)
		}
	}
}
