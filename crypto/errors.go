package crypto

import "errors"

var (
	ErrInvalidPublicKeyLength = errors.New("crypto: invalid public key length")
	ErrInvalidSignatureLength = errors.New("crypto: invalid signature length")
)
