package vm

import "github.com/alephium/gvm/crypto"

// SignatureStack holds a transaction's pre-loaded signatures in tx order
// (§4.4). CheckSignature always pops the next unconsumed entry regardless
// of which frame issues the call -- the stack is transaction-scoped, not
// per-frame, even across nested CallExternal (§9 open question).
type SignatureStack struct {
	sigs []([]byte)
	pos  int
}

// NewSignatureStack wraps a transaction's signature list.
func NewSignatureStack(sigs [][]byte) *SignatureStack {
	return &SignatureStack{sigs: sigs}
}

// Next pops the next unused signature, failing StackUnderflow if exhausted.
func (s *SignatureStack) Next() ([]byte, error) {
	if s.pos >= len(s.sigs) {
		return nil, ErrStackUnderflow
	}
	sig := s.sigs[s.pos]
	s.pos++
	return sig, nil
}

// checkSignature verifies pubkey (32-byte ed25519-like or 33-byte
// secp256k1-compressed) against the next unused signature, over txID.
func checkSignature(sigStack *SignatureStack, pubkey []byte, txID []byte) error {
	sig, err := sigStack.Next()
	if err != nil {
		return err
	}
	switch len(pubkey) {
	case 32:
		ok, err := crypto.VerifyEd25519(pubkey, txID, sig)
		if err != nil {
			return ErrInvalidPublicKey
		}
		if !ok {
			return ErrVerificationFailed
		}
		return nil
	case 33:
		ok, err := crypto.VerifySecp256k1(pubkey, txID, sig)
		if err != nil {
			return ErrInvalidPublicKey
		}
		if !ok {
			return ErrVerificationFailed
		}
		return nil
	default:
		return ErrInvalidPublicKey
	}
}
