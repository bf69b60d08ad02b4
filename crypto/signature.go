package crypto

import "crypto/ed25519"

// VerifyEd25519 verifies sig over msg against a 32-byte ed25519 public
// key, the other branch of CheckSignature's pubkey union (§4.4).
func VerifyEd25519(pubkey, msg, sig []byte) (bool, error) {
	if len(pubkey) != ed25519.PublicKeySize {
		return false, ErrInvalidPublicKeyLength
	}
	if len(sig) != ed25519.SignatureSize {
		return false, ErrInvalidSignatureLength
	}
	return ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig), nil
}
