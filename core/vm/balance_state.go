package vm

import "github.com/alephium/gvm/core/types"

// addrKey derives a comparable map key for an Address. Address wraps
// LockupScript, which carries a PKHashes slice for P2MPKH and so is not
// itself comparable; its canonical wire encoding is.
func addrKey(addr Address) string {
	return string(addr.Script.Bytes())
}

// tokenKey identifies one (address, token id) balance slot.
type tokenKey struct {
	addr    string
	tokenID types.Hash
}

// BalanceState tracks per-address ALPH and token balances for the
// lifetime of one transaction (§3), split into a remaining (spendable)
// and an approved (committed to the current callee) ledger. Invariants:
// no negative balances, no sum overflows U256.
type BalanceState struct {
	remainingAlf   map[string]U256
	approvedAlf    map[string]U256
	remainingToken map[tokenKey]U256
	approvedToken  map[tokenKey]U256
}

// NewBalanceState returns an empty balance state.
func NewBalanceState() *BalanceState {
	return &BalanceState{
		remainingAlf:   make(map[string]U256),
		approvedAlf:    make(map[string]U256),
		remainingToken: make(map[tokenKey]U256),
		approvedToken:  make(map[tokenKey]U256),
	}
}

// AddAlf credits amount to address's remaining ALPH balance, failing
// BalanceOverflow if the sum would overflow U256.
func (b *BalanceState) AddAlf(addr Address, amount U256) error {
	k := addrKey(addr)
	sum, ok := b.remainingAlf[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	b.remainingAlf[k] = sum
	return nil
}

// UseAlf debits amount from address's remaining ALPH balance, failing
// NoAlfBalanceForTheAddress if the address has no entry at all, or
// NotEnoughBalance if the entry is insufficient.
func (b *BalanceState) UseAlf(addr Address, amount U256) error {
	k := addrKey(addr)
	cur, ok := b.remainingAlf[k]
	if !ok {
		return ErrNoAlfBalanceForTheAddress
	}
	next, ok := cur.CheckedSub(amount)
	if !ok {
		return ErrNotEnoughBalance
	}
	b.remainingAlf[k] = next
	return nil
}

// AlfRemaining returns the remaining ALPH balance for address, failing
// NoAlfBalanceForTheAddress if absent.
func (b *BalanceState) AlfRemaining(addr Address) (U256, error) {
	cur, ok := b.remainingAlf[addrKey(addr)]
	if !ok {
		return U256{}, ErrNoAlfBalanceForTheAddress
	}
	return cur, nil
}

// ApproveAlf moves amount from address's remaining pool to its approved
// pool (§4.6), failing NotEnoughBalance if insufficient.
func (b *BalanceState) ApproveAlf(addr Address, amount U256) error {
	if err := b.UseAlf(addr, amount); err != nil {
		return err
	}
	k := addrKey(addr)
	sum, ok := b.approvedAlf[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	b.approvedAlf[k] = sum
	return nil
}

// AddToken credits amount to (addr, tokenID)'s remaining token balance.
func (b *BalanceState) AddToken(addr Address, tokenID types.Hash, amount U256) error {
	k := tokenKey{addrKey(addr), tokenID}
	sum, ok := b.remainingToken[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	b.remainingToken[k] = sum
	return nil
}

// UseToken debits amount from (addr, tokenID)'s remaining token balance.
func (b *BalanceState) UseToken(addr Address, tokenID types.Hash, amount U256) error {
	k := tokenKey{addrKey(addr), tokenID}
	cur, ok := b.remainingToken[k]
	if !ok {
		return ErrNoTokenBalanceForTheAddress
	}
	next, ok := cur.CheckedSub(amount)
	if !ok {
		return ErrNotEnoughBalance
	}
	b.remainingToken[k] = next
	return nil
}

// TokenRemaining returns the remaining token balance for (addr, tokenID).
func (b *BalanceState) TokenRemaining(addr Address, tokenID types.Hash) (U256, error) {
	k := tokenKey{addrKey(addr), tokenID}
	cur, ok := b.remainingToken[k]
	if !ok {
		return U256{}, ErrNoTokenBalanceForTheAddress
	}
	return cur, nil
}

// ApproveToken moves amount from (addr, tokenID)'s remaining pool to its
// approved pool.
func (b *BalanceState) ApproveToken(addr Address, tokenID types.Hash, amount U256) error {
	if err := b.UseToken(addr, tokenID, amount); err != nil {
		return err
	}
	k := tokenKey{addrKey(addr), tokenID}
	sum, ok := b.approvedToken[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	b.approvedToken[k] = sum
	return nil
}

// TakeApproved drains addr's entire approved ALPH and token balances and
// returns them. CreateContract credits what it drains to the new
// contract. CallExternal drains the calling contract's approvals at
// entry but does not credit them to the callee; on the callee's clean
// return Refund puts the whole drained amount back into the remaining
// pool.
func (b *BalanceState) TakeApproved(addr Address) (alf U256, tokens map[types.Hash]U256) {
	k := addrKey(addr)
	alf = b.approvedAlf[k]
	delete(b.approvedAlf, k)
	tokens = make(map[types.Hash]U256)
	for tk, v := range b.approvedToken {
		if tk.addr == k {
			tokens[tk.tokenID] = v
			delete(b.approvedToken, tk)
		}
	}
	return alf, tokens
}

// Refund returns unused approved balances to addr's remaining pool after
// a callee frame completes cleanly.
func (b *BalanceState) Refund(addr Address, alf U256, tokens map[types.Hash]U256) error {
	if !alf.IsZero() {
		if err := b.AddAlf(addr, alf); err != nil {
			return err
		}
	}
	for tokenID, amount := range tokens {
		if amount.IsZero() {
			continue
		}
		if err := b.AddToken(addr, tokenID, amount); err != nil {
			return err
		}
	}
	return nil
}

// OutputBalances accumulates amounts moved out of BalanceState by
// TransferAlf/TransferToken instructions (§4.6), destined for the
// transaction's produced outputs.
type OutputBalances struct {
	alf   map[string]U256
	token map[tokenKey]U256
}

// NewOutputBalances returns an empty accumulator.
func NewOutputBalances() *OutputBalances {
	return &OutputBalances{
		alf:   make(map[string]U256),
		token: make(map[tokenKey]U256),
	}
}

// AddAlf credits amount to addr's accumulated output ALPH balance.
func (o *OutputBalances) AddAlf(addr Address, amount U256) error {
	k := addrKey(addr)
	sum, ok := o.alf[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	o.alf[k] = sum
	return nil
}

// AddToken credits amount to addr's accumulated output token balance.
func (o *OutputBalances) AddToken(addr Address, tokenID types.Hash, amount U256) error {
	k := tokenKey{addrKey(addr), tokenID}
	sum, ok := o.token[k].CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	o.token[k] = sum
	return nil
}

// TotalAlf returns the sum of all accumulated output ALPH across
// addresses, used to check conservation against the transaction's inputs.
func (o *OutputBalances) TotalAlf() U256 {
	total := U256Zero()
	for _, v := range o.alf {
		total, _ = total.CheckedAdd(v)
	}
	return total
}
