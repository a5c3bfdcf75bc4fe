package scanner

import (
	"strings"
	"testing"
)

func TestAnalyzeCookies_NoCookies(t *testing.T) {
	finding := AnalyzeCookies("example.com", nil)

	if !finding.Success {
		t.Fatal("expected success for empty cookie set")
	}
	if finding.Severity != SeverityOK {
		t.Errorf("expected severity ok, got %s", finding.Severity)
	}
	if finding.Status != "No Cookies Set" {
		t.Errorf("unexpected status: %s", finding.Status)
	}
	if finding.Cookies == nil || finding.Cookies.CookieCount != 0 {
		t.Errorf("expected cookie_count 0, got %+v", finding.Cookies)
	}
}

func TestAnalyzeCookies_AllSecure(t *testing.T) {
	finding := AnalyzeCookies("example.com", []string{
		"session=abc; Secure; HttpOnly; SameSite=Lax",
		"prefs=dark; Secure; HttpOnly; SameSite=Strict",
	})

	if finding.Severity != SeverityOK {
		t.Fatalf("expected severity ok, got %s", finding.Severity)
	}
	if finding.Status != "All Cookies Secure" {
		t.Errorf("unexpected status: %s", finding.Status)
	}
	if finding.Message != "All 2 cookies are properly secured" {
		t.Errorf("unexpected message: %s", finding.Message)
	}
	if len(finding.Cookies.Issues) != 0 {
		t.Errorf("expected no issues, got %+v", finding.Cookies.Issues)
	}
}

func TestAnalyzeCookies_PartialSecure(t *testing.T) {
	finding := AnalyzeCookies("example.com", []string{
		"session=abc; Secure; HttpOnly; SameSite=Lax",
		"tracker=1; Path=/",
	})

	if finding.Severity != SeverityWarning {
		t.Fatalf("expected severity warning, got %s", finding.Severity)
	}
	if finding.Status != "Security Issues Found" {
		t.Errorf("unexpected status: %s", finding.Status)
	}
	if finding.Message != "Found 1 cookie(s) with security issues out of 2 total" {
		t.Errorf("unexpected message: %s", finding.Message)
	}
}

func TestAnalyzeCookies_AllMissingSecure(t *testing.T) {
	finding := AnalyzeCookies("example.com", []string{
		"session=abc; HttpOnly; SameSite=Lax",
		"prefs=dark; Path=/",
	})

	if finding.Severity != SeverityCritical {
		t.Fatalf("expected severity critical, got %s", finding.Severity)
	}
	if finding.Status != "Critical Security Issues" {
		t.Errorf("unexpected status: %s", finding.Status)
	}
	if len(finding.Cookies.Issues) != 2 {
		t.Errorf("expected 2 issue entries, got %d", len(finding.Cookies.Issues))
	}
}

func TestAnalyzeCookies_CountIncludesMalformed(t *testing.T) {
	finding := AnalyzeCookies("example.com", []string{
		"session=abc; Secure; HttpOnly; SameSite=Lax",
		"=; ;",
		"not-a-pair",
	})

	if finding.Cookies.CookieCount != 3 {
		t.Fatalf("expected cookie_count 3, got %d", finding.Cookies.CookieCount)
	}
}

func TestParseSetCookie_Name(t *testing.T) {
	record := parseSetCookie("session=abc123; Path=/", 0)
	if record.Name != "session" {
		t.Fatalf("expected name session, got %q", record.Name)
	}
}

func TestParseSetCookie_PlaceholderName(t *testing.T) {
	record := parseSetCookie("=value; Secure", 2)
	if record.Name != "Cookie 3" {
		t.Fatalf("expected positional placeholder, got %q", record.Name)
	}
	if !record.Secure {
		t.Error("expected Secure attribute to be detected")
	}
}

func TestParseSetCookie_CaseInsensitiveAttributes(t *testing.T) {
	record := parseSetCookie("id=1; SECURE; HttpOnly; SameSite=None", 0)
	if !record.Secure || !record.HTTPOnly || !record.SameSitePresent {
		t.Fatalf("expected all attributes detected, got %+v", record)
	}
}

func TestParseSetCookie_SecureRequiresExactToken(t *testing.T) {
	// "secure-ish" segments must not count as the Secure attribute.
	record := parseSetCookie("id=1; securepolicy=on; httponlyish", 0)
	if record.Secure {
		t.Error("expected Secure to require an exact token match")
	}
	if record.HTTPOnly {
		t.Error("expected HttpOnly to require an exact token match")
	}
}

func TestTruncateRaw(t *testing.T) {
	long := "session=" + strings.Repeat("x", 200)
	truncated := truncateRaw(long)
	if len(truncated) != rawCookieDisplayLimit+3 {
		t.Fatalf("expected %d chars, got %d", rawCookieDisplayLimit+3, len(truncated))
	}
	if !strings.HasSuffix(truncated, "...") {
		t.Errorf("expected ellipsis marker, got %q", truncated[len(truncated)-5:])
	}

	short := "session=abc"
	if truncateRaw(short) != short {
		t.Errorf("expected short value preserved verbatim")
	}
}

func TestAnalyzeCookies_IssueCarriesTruncatedRaw(t *testing.T) {
	long := "big=" + strings.Repeat("v", 150)
	finding := AnalyzeCookies("example.com", []string{long})

	if len(finding.Cookies.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(finding.Cookies.Issues))
	}
	issue := finding.Cookies.Issues[0]
	if issue.Name != "big" {
		t.Errorf("unexpected issue name: %s", issue.Name)
	}
	if len(issue.Raw) != rawCookieDisplayLimit+3 || !strings.HasSuffix(issue.Raw, "...") {
		t.Errorf("expected truncated raw value, got %d chars", len(issue.Raw))
	}
}
