package scanner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Scanner is the interface both posture checks implement. Scan always
// returns a structured Finding, never an error.
type Scanner interface {
	// Scan performs the check against a single target.
	Scan(ctx context.Context, target string) Finding

	// Name returns the name of this scanner (e.g., "scan cookies").
	Name() string
}

// AuditFunc is a callback invoked once per completed target.
type AuditFunc func(target string, finding Finding, duration float64) error

// Runner executes one scanner over many targets with a worker pool and a
// global rate limit. The scanners themselves carry no shared mutable state,
// so targets run concurrently without coordination.
type Runner struct {
	Concurrency int           // Maximum number of concurrent scans
	RateLimit   int           // Requests per second (global)
	Timeout     time.Duration // Timeout for each scan
}

// RunScans fans the targets out over the worker pool and collects findings.
// Results arrive in completion order; callers needing input order can key by
// Finding.Domain.
func (r *Runner) RunScans(ctx context.Context, targets []string, s Scanner, auditFn AuditFunc) []Finding {
	limiter := rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup
	mu := sync.Mutex{}
	findings := make([]Finding, 0, len(targets))

	for _, target := range targets {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			_ = limiter.Wait(ctx)

			start := time.Now()

			scanCtx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			finding := s.Scan(scanCtx, t)

			duration := time.Since(start).Seconds()

			if auditFn != nil {
				_ = auditFn(t, finding, duration)
			}

			mu.Lock()
			findings = append(findings, finding)
			mu.Unlock()
		}(target)
	}

	wg.Wait()
	return findings
}

// CheckCookies runs the cookie hygiene check against one domain with the
// default fetch configuration.
func CheckCookies(ctx context.Context, domain string) Finding {
	s := &CookieScanner{}
	return s.Scan(ctx, domain)
}

// CheckHSTS runs the HSTS policy check against one domain with the default
// fetch configuration.
func CheckHSTS(ctx context.Context, domain string) Finding {
	s := &HSTSScanner{}
	return s.Scan(ctx, domain)
}
