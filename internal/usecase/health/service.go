package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down but recommendations still work.
	Degraded Status = "degraded"
	// Unhealthy indicates recommendations cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const cachePingTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Tracks int
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index IndexInfo
	cache CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(index IndexInfo, cache CachePinger) *Service {
	return &Service{index: index, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	status := Healthy

	tracks := 0
	if s.index != nil {
		tracks = s.index.Len()
	}
	if tracks > 0 {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
		status = Unhealthy
	}

	if s.cache != nil {
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		err := s.cache.Ping(pingCtx)
		cancel()
		if err != nil {
			checks["cache"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["cache"] = CheckOK
		}
	}

	return Report{Status: status, Tracks: tracks, Checks: checks}
}
