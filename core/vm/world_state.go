package vm

import "github.com/alephium/gvm/core/types"

// WorldState is the external collaborator (§1, §5) that serves contract
// state from an in-memory snapshot built before execution. The driver
// calls PutContract and DestroyContract on it directly as CreateContract,
// CopyCreateContract and DestroyContract execute; it keeps no pending
// write set of its own, so writes made before an abort are not undone by
// the driver.
type WorldState interface {
	// LoadContract returns the deployed contract for id, failing
	// ContractNotFound if it does not exist in the snapshot.
	LoadContract(id types.Hash) (*StatefulContractObj, error)

	// PutContract registers a newly created or copy-created contract.
	PutContract(obj *StatefulContractObj) error

	// DestroyContract removes a contract's entry.
	DestroyContract(id types.Hash) error
}
