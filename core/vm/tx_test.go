package vm

import (
	"testing"

	"github.com/alephium/gvm/core/types"
)

func sampleOutput(alf uint64) AssetOutput {
	return AssetOutput{
		Lockup: NewP2PKH(types.BytesToHash([]byte("pkhash"))),
		Alf:    U256FromUint64(alf),
		Tokens: nil,
	}
}

func TestUnsignedTransactionValidateRejectsNoInputs(t *testing.T) {
	tx := &UnsignedTransaction{Outputs: []AssetOutput{sampleOutput(2000)}}
	if err := tx.Validate(); err != ErrNoInputs {
		t.Fatalf("got %v, want ErrNoInputs", err)
	}
}

func TestUnsignedTransactionValidateRejectsDuplicateInput(t *testing.T) {
	ref := AssetOutputRef{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}
	tx := &UnsignedTransaction{
		Inputs:  []AssetOutputRef{ref, ref},
		Outputs: []AssetOutput{sampleOutput(2000)},
	}
	if err := tx.Validate(); err != ErrDuplicateInput {
		t.Fatalf("got %v, want ErrDuplicateInput", err)
	}
}

func TestUnsignedTransactionValidateRejectsDustOutput(t *testing.T) {
	tx := &UnsignedTransaction{
		Inputs:  []AssetOutputRef{{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}},
		Outputs: []AssetOutput{sampleOutput(1)},
	}
	if err := tx.Validate(); err != ErrDustAmount {
		t.Fatalf("got %v, want ErrDustAmount", err)
	}
}

func TestUnsignedTransactionValidateRejectsZeroTokenAmount(t *testing.T) {
	out := sampleOutput(2000)
	out.Tokens = map[types.Hash]U256{types.BytesToHash([]byte("tok")): U256Zero()}
	tx := &UnsignedTransaction{
		Inputs:  []AssetOutputRef{{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}},
		Outputs: []AssetOutput{out},
	}
	if err := tx.Validate(); err != ErrZeroTokenAmount {
		t.Fatalf("got %v, want ErrZeroTokenAmount", err)
	}
}

func TestUnsignedTransactionValidateAccepts(t *testing.T) {
	tx := &UnsignedTransaction{
		Inputs:  []AssetOutputRef{{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}},
		Outputs: []AssetOutput{sampleOutput(2000)},
		GasAmount: 1000,
		GasPrice:  U256FromUint64(1),
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnsignedTransactionIDIsStableUnderInputReordering(t *testing.T) {
	ref1 := AssetOutputRef{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}
	ref2 := AssetOutputRef{TxHash: types.BytesToHash([]byte("tx2")), Index: 1}
	tx1 := &UnsignedTransaction{Inputs: []AssetOutputRef{ref1, ref2}, Outputs: []AssetOutput{sampleOutput(2000)}}
	tx2 := &UnsignedTransaction{Inputs: []AssetOutputRef{ref2, ref1}, Outputs: []AssetOutput{sampleOutput(2000)}}
	if tx1.ID() != tx2.ID() {
		t.Fatalf("transaction id depends on input order")
	}
}

func TestUnsignedTransactionIDChangesWithOutputs(t *testing.T) {
	ref := AssetOutputRef{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}
	tx1 := &UnsignedTransaction{Inputs: []AssetOutputRef{ref}, Outputs: []AssetOutput{sampleOutput(2000)}}
	tx2 := &UnsignedTransaction{Inputs: []AssetOutputRef{ref}, Outputs: []AssetOutput{sampleOutput(3000)}}
	if tx1.ID() == tx2.ID() {
		t.Fatalf("transaction id did not change with differing outputs")
	}
}

func TestFirstInputRef(t *testing.T) {
	ref := AssetOutputRef{TxHash: types.BytesToHash([]byte("tx1")), Index: 0}
	tx := &UnsignedTransaction{Inputs: []AssetOutputRef{ref}}
	got, err := tx.FirstInputRef()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ref {
		t.Fatalf("got %v, want %v", got, ref)
	}
}
