package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// VerifySecp256k1 verifies a 64-byte raw (r||s) signature over msgHash
// against a 33-byte compressed secp256k1 public key. This replaces the
// placeholder elliptic.P256() approach with the real curve via
// decred/dcrd, the secp256k1 implementation already present (indirectly)
// in the dependency graph.
func VerifySecp256k1(pubkey, msgHash, sig []byte) (bool, error) {
	if len(pubkey) != 33 {
		return false, ErrInvalidPublicKeyLength
	}
	if len(sig) != 64 {
		return false, ErrInvalidSignatureLength
	}
	pub, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false, ErrInvalidPublicKeyLength
	}
	var r, s secp256k1.ModNScalar
	r.SetByteSlice(sig[:32])
	s.SetByteSlice(sig[32:64])
	signature := ecdsa.NewSignature(&r, &s)
	return signature.Verify(msgHash, pub), nil
}
