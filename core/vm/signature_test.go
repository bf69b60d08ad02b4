package vm

import (
	"crypto/ed25519"
	"testing"
)

func TestCheckSignatureEd25519Valid(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txID := []byte("some-transaction-id-bytes")
	sig := ed25519.Sign(priv, txID)

	sigStack := NewSignatureStack([][]byte{sig})
	if err := checkSignature(sigStack, pub, txID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckSignatureEd25519WrongSignatureFails(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txID := []byte("some-transaction-id-bytes")
	sigStack := NewSignatureStack([][]byte{make([]byte, ed25519.SignatureSize)})
	if err := checkSignature(sigStack, pub, txID); err != ErrVerificationFailed {
		t.Fatalf("got %v, want ErrVerificationFailed", err)
	}
}

func TestCheckSignatureRejectsUnknownPubkeyLength(t *testing.T) {
	sigStack := NewSignatureStack([][]byte{{1, 2, 3}})
	if err := checkSignature(sigStack, make([]byte, 10), []byte("tx")); err != ErrInvalidPublicKey {
		t.Fatalf("got %v, want ErrInvalidPublicKey", err)
	}
}

func TestSignatureStackExhaustion(t *testing.T) {
	sigStack := NewSignatureStack(nil)
	if _, err := sigStack.Next(); err != ErrStackUnderflow {
		t.Fatalf("got %v, want ErrStackUnderflow", err)
	}
}

func TestSignatureStackConsumesInOrder(t *testing.T) {
	sigStack := NewSignatureStack([][]byte{{1}, {2}, {3}})
	for _, want := range [][]byte{{1}, {2}, {3}} {
		got, err := sigStack.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0] != want[0] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if _, err := sigStack.Next(); err != ErrStackUnderflow {
		t.Fatalf("got %v, want ErrStackUnderflow once exhausted", err)
	}
}
