package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/alephium/gvm/core/types"
)

// Keccak256 calculates the Keccak-256 hash of the given data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// Sha3_256 calculates the standard (non-legacy) SHA3-256 hash.
func Sha3_256(data ...[]byte) []byte {
	d := sha3.New256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Blake2b256 calculates the Blake2b-256 hash of the given data.
func Blake2b256(data ...[]byte) []byte {
	d, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // only fails for a non-nil key of bad length
	}
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Blake2b256Hash calculates Blake2b-256 and returns it as a types.Hash.
func Blake2b256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Blake2b256(data...))
}

// Sha256 calculates the SHA-256 hash of the given data. Plain stdlib
// crypto/sha256: no repo in the example pack reaches for a third-party
// sha256 implementation, matching upstream go-ethereum's own usage.
func Sha256(data ...[]byte) []byte {
	d := sha256.New()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}
