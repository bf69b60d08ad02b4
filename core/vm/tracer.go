package vm

// tracer.go adapts the teacher's step tracer interface to this VM's
// typed operand stack and frame model, giving callers (tests, CLIs, a
// future debugger) step-by-step visibility into one execution without
// the driver itself depending on any one consumer.

// Tracer captures execution step by step (§4.8 diagnostics). All
// methods are optional hooks; ExecutionContext calls them only when a
// non-nil Tracer is attached.
type Tracer interface {
	// CaptureStart is called once, before the root frame's first step.
	CaptureStart(method *Method, args []Val, gasLimit uint64)
	// CaptureState is called before each instruction dispatches.
	CaptureState(pc int, op OpCode, gas, cost uint64, stack []Val, depth int)
	// CaptureFault is called when an instruction fails, in place of the
	// CaptureState call that would otherwise follow.
	CaptureFault(pc int, op OpCode, gas uint64, depth int, err error)
	// CaptureEnd is called once, after the root frame returns or the run
	// aborts.
	CaptureEnd(output []Val, gasUsed uint64, err error)
}

// StructLogEntry is a single step recorded by StructLogTracer.
type StructLogEntry struct {
	PC      int
	Op      OpCode
	Gas     uint64
	GasCost uint64
	Depth   int
	Stack   []Val
	Err     error
}

// StructLogTracer collects step-by-step execution logs in memory, the
// way a test or a CLI's --trace flag would consume them.
type StructLogTracer struct {
	Logs    []StructLogEntry
	Output  []Val
	Err     error
	GasUsed uint64
}

// NewStructLogTracer returns a new StructLogTracer.
func NewStructLogTracer() *StructLogTracer {
	return &StructLogTracer{}
}

func (t *StructLogTracer) CaptureStart(method *Method, args []Val, gasLimit uint64) {}

// CaptureState records one opcode step, copying the stack so later
// mutation of the live operand stack cannot alias a past log entry.
func (t *StructLogTracer) CaptureState(pc int, op OpCode, gas, cost uint64, stack []Val, depth int) {
	stackCopy := append([]Val(nil), stack...)
	t.Logs = append(t.Logs, StructLogEntry{
		PC:      pc,
		Op:      op,
		Gas:     gas,
		GasCost: cost,
		Depth:   depth,
		Stack:   stackCopy,
	})
}

func (t *StructLogTracer) CaptureFault(pc int, op OpCode, gas uint64, depth int, err error) {
	t.Logs = append(t.Logs, StructLogEntry{PC: pc, Op: op, Gas: gas, Depth: depth, Err: err})
}

func (t *StructLogTracer) CaptureEnd(output []Val, gasUsed uint64, err error) {
	t.Output = output
	t.GasUsed = gasUsed
	t.Err = err
}
