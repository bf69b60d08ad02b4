package crypto

import "testing"

func TestKeccak256Length(t *testing.T) {
	h := Keccak256([]byte("hello"))
	if len(h) != 32 {
		t.Fatalf("expected 32-byte hash, got %d", len(h))
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	a := Keccak256([]byte("abc"))
	b := Keccak256([]byte("abc"))
	if string(a) != string(b) {
		t.Fatal("Keccak256 not deterministic")
	}
}

func TestBlake2b256Length(t *testing.T) {
	h := Blake2b256([]byte("hello"))
	if len(h) != 32 {
		t.Fatalf("expected 32-byte hash, got %d", len(h))
	}
}

func TestSha256Length(t *testing.T) {
	h := Sha256([]byte("hello"))
	if len(h) != 32 {
		t.Fatalf("expected 32-byte hash, got %d", len(h))
	}
}

func TestSha3_256Length(t *testing.T) {
	h := Sha3_256([]byte("hello"))
	if len(h) != 32 {
		t.Fatalf("expected 32-byte hash, got %d", len(h))
	}
}

func TestHashesDiffer(t *testing.T) {
	data := []byte("gvm")
	if string(Keccak256(data)) == string(Blake2b256(data)) {
		t.Fatal("Keccak256 and Blake2b256 should not collide on the same input")
	}
}
