// Package scanner implements the webposture checking framework.
//
// Architecture overview:
//
//   - Scanners implement the Scanner interface (Scan + Name) for the two
//     posture checks: CookieScanner inspects Set-Cookie attribute hygiene and
//     HSTSScanner evaluates Strict-Transport-Security policy strength.
//   - Fetcher is the single fetch collaborator: one top-level GET with an
//     explicit timeout, a redirect cap, and no retries. Any status code is a
//     valid response; the checks only read headers.
//   - Runner coordinates concurrent execution across targets with a global
//     rate limit, invoking an optional AuditFunc per target.
//   - The analysis functions (AnalyzeCookies, AnalyzeHSTS) are pure: given the
//     same header values they always produce the same Finding, which keeps
//     severity deterministic and the parsing testable without a network.
//
// Every entry point returns a Finding; fetch failures become records with
// Success=false and Severity=SeverityError instead of propagating an error.
package scanner
