package vm

import "errors"

// Error kinds. Every failure aborts the enclosing transaction; the VM never
// recovers from one internally. The driver reports the kind to the caller
// for diagnostics (it does not undo WorldState writes already made; see
// WorldState), but consensus only ever observes the binary
// succeeded/aborted outcome.
var (
	ErrStackOverflow             = errors.New("vm: stack overflow")
	ErrStackUnderflow            = errors.New("vm: stack underflow")
	ErrInvalidType                = errors.New("vm: invalid type")
	ErrOutOfBound                = errors.New("vm: out of bound")
	ErrInvalidPC                  = errors.New("vm: invalid pc")
	ErrInvalidCode                = errors.New("vm: invalid code")
	ErrInvalidOffset               = errors.New("vm: invalid jump offset")
	ErrOutOfGas                   = errors.New("vm: out of gas")
	ErrArithmeticError             = errors.New("vm: arithmetic error")
	ErrInvalidConversion            = errors.New("vm: invalid conversion")
	ErrAssertionFailed              = errors.New("vm: assertion failed")
	ErrInvalidPublicKey             = errors.New("vm: invalid public key")
	ErrVerificationFailed           = errors.New("vm: signature verification failed")
	ErrNotEnoughBalance             = errors.New("vm: not enough balance")
	ErrBalanceOverflow              = errors.New("vm: balance overflow")
	ErrNoAlfBalanceForTheAddress    = errors.New("vm: no ALPH balance for the address")
	ErrNoTokenBalanceForTheAddress  = errors.New("vm: no token balance for the address")
	ErrInvalidTokenId               = errors.New("vm: invalid token id")
	ErrExpectACaller                = errors.New("vm: expected a contract caller")
	ErrNonPayableFrame               = errors.New("vm: frame is not payable")
	ErrContractNotFound              = errors.New("vm: contract not found")
	ErrPrivateMethod                 = errors.New("vm: method is not externally callable")
	ErrInvalidMethodArgLength        = errors.New("vm: invalid method argument length")
	ErrInvalidMethodParamsType       = errors.New("vm: invalid method parameter type")
	ErrSerdeErrorCreateContract      = errors.New("vm: failed to deserialize contract code")
	ErrNegativeTimeStamp             = errors.New("vm: negative timestamp")
	ErrInvalidTarget                 = errors.New("vm: invalid block target")
	ErrInvalidIssueToken             = errors.New("vm: invalid issue token")
	ErrNoInputs                      = errors.New("vm: transaction has no inputs")
	ErrTooManyInputs                 = errors.New("vm: transaction exceeds max input count")
	ErrDuplicateInput                = errors.New("vm: duplicate transaction input")
	ErrTooManyTokensInOutput         = errors.New("vm: output exceeds max tokens per utxo")
	ErrZeroTokenAmount               = errors.New("vm: zero token amount in output")
	ErrDustAmount                    = errors.New("vm: output ALPH amount below dust floor")
	ErrInputNotFound                 = errors.New("vm: referenced input does not exist")
)

// FrameError wraps an underlying error kind with the execution context in
// which it occurred: the opcode being dispatched, its program counter, and
// the depth of the frame stack. It never affects the aborted/succeeded
// outcome reported to consensus -- it exists purely for diagnostics.
type FrameError struct {
	Err    error
	Op     OpCode
	PC     int
	Depth  int
}

func (e *FrameError) Error() string {
	return e.Err.Error()
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

func newFrameError(err error, op OpCode, pc, depth int) *FrameError {
	return &FrameError{Err: err, Op: op, PC: pc, Depth: depth}
}
