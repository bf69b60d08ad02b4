package vm

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/alephium/gvm/core/types"
	"github.com/alephium/gvm/crypto"
)

// tx.go implements the unsigned transaction builder (§2, §4.6, §5): the
// UTXO-shaped container the VM's asset instructions ultimately draw
// balances from and pay outputs into, plus the structural invariants a
// transaction must satisfy before it is ever handed to an
// ExecutionContext.

// maxTxInputNum bounds the number of inputs a single transaction may
// spend (§9 unspecified-limit decision, chosen in proportion to
// maxFrameDepth so a pathological input count cannot dominate execution
// cost independently of the gas schedule).
const maxTxInputNum = 256

// maxTokenPerUtxo bounds the number of distinct token ids one output may
// carry, keeping its encoded size bounded.
const maxTokenPerUtxo = 64

// baseAlphPerOutput and alphPerToken ground the dust-output rule: every
// produced output must carry enough ALPH to cover its own on-chain
// storage cost, proportional to how many token ids it lists.
const (
	baseAlphPerOutput = 1000
	alphPerToken      = 100
)

// minimalAlphAmountPerTxOutput returns the minimum ALPH an output
// carrying tokenCount distinct tokens must hold (§4.6 dust rule).
func minimalAlphAmountPerTxOutput(tokenCount int) U256 {
	amount := U256FromUint64(baseAlphPerOutput + uint64(tokenCount)*alphPerToken)
	return amount
}

// AssetOutputRef identifies one unspent output: the hash of the
// transaction that created it and its index within that transaction's
// output list.
type AssetOutputRef struct {
	TxHash types.Hash
	Index  uint16
}

// Bytes returns the canonical encoding ID hashes for each input.
// Validate keys input uniqueness on the struct itself, and contract id
// derivation seeds on TxHash alone (see NewExecutionContextForTx), not on
// this encoding.
func (r AssetOutputRef) Bytes() []byte {
	out := make([]byte, 0, types.HashLength+2)
	out = append(out, r.TxHash.Bytes()...)
	out = append(out, byte(r.Index>>8), byte(r.Index))
	return out
}

// AssetOutput is one produced output: a lockup script, an ALPH amount,
// and zero or more token balances.
type AssetOutput struct {
	Lockup LockupScript
	Alf    U256
	Tokens map[types.Hash]U256
}

// UnsignedTransaction is the unsigned shape of a transaction (§2): a set
// of spent inputs, a set of produced outputs, and the gas the sender is
// willing to pay. Token issuance is not tracked here; IssueToken inside
// script execution mints under the issuing contract's own id, at most
// once per ExecutionContext (§4.5, §9).
type UnsignedTransaction struct {
	NetworkID byte
	Inputs    []AssetOutputRef
	Outputs   []AssetOutput
	GasAmount uint64
	GasPrice  U256
}

// Validate checks the structural invariants a transaction must satisfy
// before execution (§4.6, §9): unique inputs, a bounded input count,
// no more than maxTokenPerUtxo token ids per output, no zero-amount
// token entries, and every output meeting its dust floor.
func (tx *UnsignedTransaction) Validate() error {
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(tx.Inputs) > maxTxInputNum {
		return ErrTooManyInputs
	}
	seen := make(map[AssetOutputRef]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if _, dup := seen[in]; dup {
			return ErrDuplicateInput
		}
		seen[in] = struct{}{}
	}
	for _, out := range tx.Outputs {
		if len(out.Tokens) > maxTokenPerUtxo {
			return ErrTooManyTokensInOutput
		}
		for _, amount := range out.Tokens {
			if amount.IsZero() {
				return ErrZeroTokenAmount
			}
		}
		if out.Alf.Lt(minimalAlphAmountPerTxOutput(len(out.Tokens))) {
			return ErrDustAmount
		}
	}
	return nil
}

// ID computes this transaction's id by hashing a canonical encoding of
// its inputs, outputs and gas parameters (§4.6: the signed message
// CheckSignature verifies against). Outputs are hashed in their given
// order since that order is consensus-visible (it fixes each output's
// index); inputs are sorted first so the id does not depend on the
// order inputs happened to be gathered in.
func (tx *UnsignedTransaction) ID() types.Hash {
	inputs := append([]AssetOutputRef(nil), tx.Inputs...)
	sort.Slice(inputs, func(i, j int) bool {
		return lessRef(inputs[i], inputs[j])
	})
	buf := []byte{tx.NetworkID}
	buf = append(buf, encodeVarint(uint64(len(inputs)))...)
	for _, in := range inputs {
		buf = append(buf, in.Bytes()...)
	}
	buf = append(buf, encodeVarint(uint64(len(tx.Outputs)))...)
	for _, out := range tx.Outputs {
		buf = append(buf, encodeBytes(out.Lockup.Bytes())...)
		buf = append(buf, encodeBytes(out.Alf.Bytes())...)
		tokenIDs := make([]types.Hash, 0, len(out.Tokens))
		for id := range out.Tokens {
			tokenIDs = append(tokenIDs, id)
		}
		sort.Slice(tokenIDs, func(i, j int) bool {
			return lessHash(tokenIDs[i], tokenIDs[j])
		})
		buf = append(buf, encodeVarint(uint64(len(tokenIDs)))...)
		for _, id := range tokenIDs {
			buf = append(buf, id.Bytes()...)
			buf = append(buf, encodeBytes(out.Tokens[id].Bytes())...)
		}
	}
	buf = append(buf, encodeVarint(tx.GasAmount)...)
	buf = append(buf, encodeBytes(tx.GasPrice.Bytes())...)
	return types.BytesToHash(crypto.Blake2b256(buf))
}

// FirstInputRef returns the reference contract-id derivation seeds on
// (§4.5): the lexicographically-sorted-independent, caller-given first
// entry of Inputs. Callers must not reorder Inputs between submission
// and execution.
func (tx *UnsignedTransaction) FirstInputRef() (AssetOutputRef, error) {
	if len(tx.Inputs) == 0 {
		return AssetOutputRef{}, ErrNoInputs
	}
	return tx.Inputs[0], nil
}

// ValidateInputsExist checks every input against an external UTXO
// lookup concurrently (§4.6, §9): with maxTxInputNum inputs the lookups
// are independent and I/O-bound, so fanning them out is worth the
// coordination cost that a strictly sequential loop would avoid.
// exists must be safe for concurrent use.
func (tx *UnsignedTransaction) ValidateInputsExist(ctx context.Context, exists func(context.Context, AssetOutputRef) (bool, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, in := range tx.Inputs {
		in := in
		g.Go(func() error {
			ok, err := exists(gctx, in)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInputNotFound
			}
			return nil
		})
	}
	return g.Wait()
}

func lessRef(a, b AssetOutputRef) bool {
	if a.TxHash != b.TxHash {
		return lessHash(a.TxHash, b.TxHash)
	}
	return a.Index < b.Index
}

func lessHash(a, b types.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
