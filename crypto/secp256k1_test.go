package crypto

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

func TestVerifySecp256k1_Valid(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	msgHash := Sha256([]byte("gvm transaction"))
	sig := ecdsa.Sign(priv, msgHash)

	raw := make([]byte, 64)
	rBytes := sig.R().Bytes()
	sBytes := sig.S().Bytes()
	copy(raw[32-len(rBytes):32], rBytes[:])
	copy(raw[64-len(sBytes):64], sBytes[:])

	ok, err := VerifySecp256k1(priv.PubKey().SerializeCompressed(), msgHash, raw)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifySecp256k1_WrongKey(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	other, _ := secp256k1.GeneratePrivateKey()
	msgHash := Sha256([]byte("gvm transaction"))
	sig := ecdsa.Sign(priv, msgHash)

	raw := make([]byte, 64)
	rBytes := sig.R().Bytes()
	sBytes := sig.S().Bytes()
	copy(raw[32-len(rBytes):32], rBytes[:])
	copy(raw[64-len(sBytes):64], sBytes[:])

	ok, err := VerifySecp256k1(other.PubKey().SerializeCompressed(), msgHash, raw)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected signature verification to fail for the wrong key")
	}
}

func TestVerifySecp256k1_BadLengths(t *testing.T) {
	if _, err := VerifySecp256k1(make([]byte, 10), make([]byte, 32), make([]byte, 64)); err != ErrInvalidPublicKeyLength {
		t.Fatalf("expected ErrInvalidPublicKeyLength, got %v", err)
	}
	priv, _ := secp256k1.GeneratePrivateKey()
	if _, err := VerifySecp256k1(priv.PubKey().SerializeCompressed(), make([]byte, 32), make([]byte, 10)); err != ErrInvalidSignatureLength {
		t.Fatalf("expected ErrInvalidSignatureLength, got %v", err)
	}
}
