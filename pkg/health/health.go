// Package health implements liveness and readiness probes.
package health

import (
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a single check
const DefaultCheckTimeout = 2 * time.Second

type probe int

const (
	probeGeneral probe = iota
	probeReady
	probeLive
)

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		started: time.Now(),
		timeout: DefaultCheckTimeout,
		probes: map[probe]map[string]CheckFunc{
			probeGeneral: {},
			probeReady:   {},
			probeLive:    {},
		},
	}
}

// SetTimeout changes how long a check may run before it is reported
// unhealthy. Non-positive values are ignored.
func (hc *HealthChecker) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.timeout = d
}

// RegisterCheck registers a check reported by the general /health endpoint
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.register(probeGeneral, name, check)
}

// RegisterReadinessCheck registers a readiness check. Readiness checks are
// also reported by Check.
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.register(probeReady, name, check)
}

// RegisterLivenessCheck registers a liveness check
func (hc *HealthChecker) RegisterLivenessCheck(name string, check CheckFunc) {
	hc.register(probeLive, name, check)
}

func (hc *HealthChecker) register(p probe, name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.probes[p][name] = check
}

// Check performs general and readiness checks
func (hc *HealthChecker) Check() Response {
	return hc.run(probeReady, probeGeneral)
}

// CheckReadiness performs readiness checks
func (hc *HealthChecker) CheckReadiness() Response {
	return hc.run(probeReady)
}

// CheckLiveness performs liveness checks
func (hc *HealthChecker) CheckLiveness() Response {
	return hc.run(probeLive)
}

// run copies the selected checks under the lock and executes them
// concurrently without it. A later probe overrides an earlier one on name
// collisions.
func (hc *HealthChecker) run(probes ...probe) Response {
	hc.mu.RLock()
	checks := make(map[string]CheckFunc)
	for _, p := range probes {
		for name, fn := range hc.probes[p] {
			checks[name] = fn
		}
	}
	timeout := hc.timeout
	hc.mu.RUnlock()

	now := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    now.Sub(hc.started).Seconds(),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, fn := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := runCheck(name, fn, timeout)
			mu.Lock()
			response.Checks[name] = check
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, check := range response.Checks {
		response.Status = worse(response.Status, check.Status)
	}
	return response
}

func runCheck(name string, fn CheckFunc, timeout time.Duration) Check {
	start := time.Now()
	done := make(chan Check, 1)
	go func() { done <- fn() }()

	var check Check
	select {
	case check = <-done:
	case <-time.After(timeout):
		check = Check{Status: StatusUnhealthy, Message: "check timed out"}
	}
	check.Duration = float64(time.Since(start).Microseconds()) / 1000
	check.LastChecked = start
	if check.Name == "" {
		check.Name = name
	}
	return check
}

func worse(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusUnhealthy:
			return 2
		case StatusDegraded:
			return 1
		}
		return 0
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
