package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// MultiHealthChecker aggregates named checkers. Healthy reports true only
// when every registered checker is healthy.
type MultiHealthChecker struct {
	checkers map[string]HealthChecker
	order    []string
}

func NewMultiHealthChecker() *MultiHealthChecker {
	return &MultiHealthChecker{
		checkers: make(map[string]HealthChecker),
	}
}

func (hc *MultiHealthChecker) Register(name string, checker HealthChecker) *MultiHealthChecker {
	if _, ok := hc.checkers[name]; !ok {
		hc.order = append(hc.order, name)
	}
	hc.checkers[name] = checker
	return hc
}

func (hc *MultiHealthChecker) Healthy(ctx context.Context) bool {
	for _, name := range hc.order {
		if !hc.checkers[name].Healthy(ctx) {
			return false
		}
	}
	return true
}

// Report returns per-checker status keyed by the registered name.
func (hc *MultiHealthChecker) Report(ctx context.Context) map[string]bool {
	report := make(map[string]bool, len(hc.checkers))
	for _, name := range hc.order {
		report[name] = hc.checkers[name].Healthy(ctx)
	}
	return report
}
