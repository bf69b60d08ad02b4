package vm

// Gas cost constants (§4.7, §6). These are consensus-critical and MUST
// match the reference client exactly -- unlike an Ethereum fork's repricing
// hard forks, there is only ever one schedule in force.
const (
	GasZero    uint64 = 0
	GasBase    uint64 = 2
	GasVeryLow uint64 = 3
	GasLow     uint64 = 5
	GasMid     uint64 = 8
	GasHigh    uint64 = 10

	GasCall     uint64 = 100
	GasCreate   uint64 = 32000
	GasDestroy  uint64 = 5000
	GasBalance  uint64 = 30
	GasSignature uint64 = 2000

	GasHashBase    uint64 = 30
	GasHashPerWord uint64 = 6
)

// GasCost names a static cost bucket. Size-dependent instructions (hashing)
// add n*GasHashPerWord on top of their bucket.
type GasCost uint64

const (
	CostZero    GasCost = GasCost(GasZero)
	CostBase    GasCost = GasCost(GasBase)
	CostVeryLow GasCost = GasCost(GasVeryLow)
	CostLow     GasCost = GasCost(GasLow)
	CostMid     GasCost = GasCost(GasMid)
	CostHigh    GasCost = GasCost(GasHigh)
)

// wordCount returns ceil(n/32), the unit hashing and size-proportional
// instructions charge per.
func wordCount(n int) uint64 {
	return (uint64(n) + 31) / 32
}

// hashGas computes the gas cost of hashing n bytes: a fixed base plus a
// per-32-byte-word charge.
func hashGas(n int) uint64 {
	return GasHashBase + GasHashPerWord*wordCount(n)
}
