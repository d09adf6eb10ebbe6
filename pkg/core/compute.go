package core

import (
	"os"
	"runtime"
)

// EnvComputeTarget overrides the detected compute target when set.
const EnvComputeTarget = "SHINKA_DEVICE"

// ComputeContext states where evaluation work is meant to run. It is an
// explicit value handed to the engine at construction; nothing in this
// module consults process-wide device state.
type ComputeContext struct {
	Target  string // accelerator label, e.g. "cpu", "cuda", "metal"
	Workers int    // suggested parallelism for evaluators that fan out
}

// DetectCompute probes the environment once and returns a compute context.
func DetectCompute() ComputeContext {
	target := "cpu"
	if v := os.Getenv(EnvComputeTarget); v != "" {
		target = v
	}
	return ComputeContext{
		Target:  target,
		Workers: runtime.NumCPU(),
	}
}

func (c ComputeContext) String() string {
	return c.Target
}
