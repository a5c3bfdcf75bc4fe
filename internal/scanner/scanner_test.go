package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCookieScanner_Scan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "session=abc; Path=/")
		w.Header().Add("Set-Cookie", "prefs=dark; Secure; HttpOnly; SameSite=Lax")
	}))
	defer srv.Close()

	s := &CookieScanner{}
	finding := s.Scan(context.Background(), srv.URL)

	if !finding.Success {
		t.Fatalf("expected success, got %+v", finding)
	}
	if finding.Severity != SeverityWarning {
		t.Errorf("expected warning, got %s", finding.Severity)
	}
	if finding.Cookies.CookieCount != 2 {
		t.Errorf("expected 2 cookies, got %d", finding.Cookies.CookieCount)
	}
	if finding.Domain != srv.URL {
		t.Errorf("expected domain echoed back unmodified, got %s", finding.Domain)
	}
}

func TestHSTSScanner_Scan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}))
	defer srv.Close()

	s := &HSTSScanner{}
	finding := s.Scan(context.Background(), srv.URL)

	if finding.Severity != SeverityOK {
		t.Fatalf("expected ok, got %s (%s)", finding.Severity, finding.Message)
	}
	if !finding.HSTS.Enabled {
		t.Error("expected enabled=true")
	}
}

func TestScan_FetchFailureBecomesErrorFinding(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	cookies := (&CookieScanner{}).Scan(context.Background(), target)
	if cookies.Success {
		t.Fatal("expected success=false for unreachable target")
	}
	if cookies.Severity != SeverityError {
		t.Errorf("expected severity error, got %s", cookies.Severity)
	}
	if cookies.Message == "" || cookies.Error == "" {
		t.Error("expected failure description in message and error fields")
	}

	hsts := (&HSTSScanner{}).Scan(context.Background(), target)
	if hsts.Success || hsts.Severity != SeverityError {
		t.Fatalf("expected error finding, got %+v", hsts)
	}
	if hsts.HSTS == nil || hsts.HSTS.Enabled {
		t.Errorf("expected enabled=false on fetch failure, got %+v", hsts.HSTS)
	}
}

func TestScan_BareDomainDispatchedAsHTTPS(t *testing.T) {
	f := &Fetcher{Timeout: 50 * time.Millisecond}
	_, err := f.Fetch(context.Background(), "localhost-webposture-invalid.test")
	if err == nil {
		t.Fatal("expected fetch error for unresolvable host")
	}
	if !strings.Contains(err.Error(), "https://") {
		t.Errorf("expected https URL in error, got %v", err)
	}
}

func TestRunner_RunScans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}))
	defer srv.Close()

	runner := &Runner{Concurrency: 3, RateLimit: 100, Timeout: 5 * time.Second}
	targets := []string{srv.URL, srv.URL, srv.URL}

	var audited int32
	findings := runner.RunScans(context.Background(), targets, &HSTSScanner{}, func(target string, f Finding, duration float64) error {
		atomic.AddInt32(&audited, 1)
		return nil
	})

	if len(findings) != len(targets) {
		t.Fatalf("expected %d findings, got %d", len(targets), len(findings))
	}
	if atomic.LoadInt32(&audited) != int32(len(targets)) {
		t.Errorf("expected audit callback per target, got %d", audited)
	}
	for _, f := range findings {
		if f.Severity != SeverityOK {
			t.Errorf("unexpected severity for %s: %s", f.Domain, f.Severity)
		}
	}
}

func TestCheckConvenienceFunctions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "id=1; Secure; HttpOnly; SameSite=Lax")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}))
	defer srv.Close()

	if f := CheckCookies(context.Background(), srv.URL); f.Severity != SeverityOK {
		t.Errorf("CheckCookies severity = %s, want ok", f.Severity)
	}
	if f := CheckHSTS(context.Background(), srv.URL); f.Severity != SeverityOK {
		t.Errorf("CheckHSTS severity = %s, want ok", f.Severity)
	}
}
