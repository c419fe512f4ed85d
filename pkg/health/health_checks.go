package health

import (
	"runtime"
	"time"
)

// SimpleCheck creates a check that is always healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// AliveCheck is the liveness check: the process is serving requests
func AliveCheck() CheckFunc {
	return func() Check {
		return SimpleCheck("alive")
	}
}

// ModelCheck reports whether the classifier model is loaded
func ModelCheck(getStatus func() ModelStatus) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "model",
			Details: make(map[string]any),
		}

		s := getStatus()
		if !s.Loaded {
			check.Status = StatusUnhealthy
			check.Message = "Model not loaded"
			return check
		}

		check.Details["source"] = s.Source
		check.Details["in_channels"] = s.InChannels
		check.Details["hidden_channels"] = s.HiddenChannels
		check.Details["out_channels"] = s.OutChannels
		check.Status = StatusHealthy
		check.Message = "Model loaded"
		return check
	}
}

// MemoryCheck reports degraded when heap allocation exceeds limitBytes.
// A zero limit disables the threshold.
func MemoryCheck(limitBytes uint64) CheckFunc {
	return memoryCheck(limitBytes, func() (alloc, sys uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	})
}

func memoryCheck(limitBytes uint64, getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys
		check.Details["goroutines"] = runtime.NumGoroutine()

		if limitBytes > 0 && alloc > limitBytes {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
