package vm

import (
	"testing"

	"github.com/alephium/gvm/core/types"
)

func testAddr(seed byte) Address {
	h := types.BytesToHash([]byte{seed})
	return Address{Script: NewP2PKH(h)}
}

func TestBalanceStateAddUseAlf(t *testing.T) {
	b := NewBalanceState()
	addr := testAddr(1)
	if err := b.AddAlf(addr, U256FromUint64(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.UseAlf(addr, U256FromUint64(40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rem, err := b.AlfRemaining(addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rem.Eq(U256FromUint64(60)) {
		t.Fatalf("got %v, want 60", rem)
	}
}

func TestBalanceStateUseAlfInsufficientFails(t *testing.T) {
	b := NewBalanceState()
	addr := testAddr(1)
	_ = b.AddAlf(addr, U256FromUint64(10))
	if err := b.UseAlf(addr, U256FromUint64(11)); err != ErrNotEnoughBalance {
		t.Fatalf("got %v, want ErrNotEnoughBalance", err)
	}
}

func TestBalanceStateUseAlfNoEntryFails(t *testing.T) {
	b := NewBalanceState()
	if err := b.UseAlf(testAddr(1), U256FromUint64(1)); err != ErrNoAlfBalanceForTheAddress {
		t.Fatalf("got %v, want ErrNoAlfBalanceForTheAddress", err)
	}
}

func TestBalanceStateApproveAndTakeApproved(t *testing.T) {
	b := NewBalanceState()
	addr := testAddr(1)
	tokenID := types.BytesToHash([]byte("token"))
	_ = b.AddAlf(addr, U256FromUint64(100))
	_ = b.AddToken(addr, tokenID, U256FromUint64(50))

	if err := b.ApproveAlf(addr, U256FromUint64(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.ApproveToken(addr, tokenID, U256FromUint64(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alf, tokens := b.TakeApproved(addr)
	if !alf.Eq(U256FromUint64(30)) {
		t.Fatalf("got %v, want 30", alf)
	}
	if !tokens[tokenID].Eq(U256FromUint64(20)) {
		t.Fatalf("got %v, want 20", tokens[tokenID])
	}

	// A second take drains nothing further.
	alf2, tokens2 := b.TakeApproved(addr)
	if !alf2.IsZero() || len(tokens2) != 0 {
		t.Fatalf("expected approved pool to be drained, got %v %v", alf2, tokens2)
	}
}

func TestBalanceStateRefundReturnsToRemaining(t *testing.T) {
	b := NewBalanceState()
	addr := testAddr(1)
	tokenID := types.BytesToHash([]byte("token"))
	if err := b.Refund(addr, U256FromUint64(5), map[types.Hash]U256{tokenID: U256FromUint64(7)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rem, err := b.AlfRemaining(addr)
	if err != nil || !rem.Eq(U256FromUint64(5)) {
		t.Fatalf("got %v, %v", rem, err)
	}
	tokRem, err := b.TokenRemaining(addr, tokenID)
	if err != nil || !tokRem.Eq(U256FromUint64(7)) {
		t.Fatalf("got %v, %v", tokRem, err)
	}
}

func TestOutputBalancesTotalAlf(t *testing.T) {
	o := NewOutputBalances()
	a1, a2 := testAddr(1), testAddr(2)
	_ = o.AddAlf(a1, U256FromUint64(10))
	_ = o.AddAlf(a2, U256FromUint64(20))
	if !o.TotalAlf().Eq(U256FromUint64(30)) {
		t.Fatalf("got %v, want 30", o.TotalAlf())
	}
}
