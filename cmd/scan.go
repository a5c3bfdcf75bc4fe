package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	consts "github.com/webposture/webposture/internal/constants"
	"github.com/webposture/webposture/internal/scanner"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "

	cookieResultsFilename = "cookie_results.json"
	hstsResultsFilename   = "hsts_results.json"
)

// RunMetadata describes one scan run in the results file.
type RunMetadata struct {
	Tool         string    `json:"tool"`
	Version      string    `json:"version"`
	Check        string    `json:"check"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	TotalTargets int       `json:"total_targets"`
}

// RunOutput is the serialized form of a scan run.
type RunOutput struct {
	Metadata RunMetadata       `json:"metadata"`
	Findings []scanner.Finding `json:"findings"`
}

// scanJob pairs a scanner with the file its findings are written to.
type scanJob struct {
	Scanner         scanner.Scanner
	ResultsFilename string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run posture checks against one or more targets",
}

var scanCookiesCmd = &cobra.Command{
	Use:   "cookies [targets...]",
	Short: "Check Set-Cookie attribute hygiene (Secure, HttpOnly, SameSite)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanCommand(cmd, args, []scanJob{
			{Scanner: &scanner.CookieScanner{Fetcher: newFetcher()}, ResultsFilename: cookieResultsFilename},
		})
	},
}

var scanHSTSCmd = &cobra.Command{
	Use:   "hsts [targets...]",
	Short: "Check Strict-Transport-Security policy strength",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanCommand(cmd, args, []scanJob{
			{Scanner: &scanner.HSTSScanner{Fetcher: newFetcher()}, ResultsFilename: hstsResultsFilename},
		})
	},
}

var scanAllCmd = &cobra.Command{
	Use:   "all [targets...]",
	Short: "Run both posture checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanCommand(cmd, args, []scanJob{
			{Scanner: &scanner.CookieScanner{Fetcher: newFetcher()}, ResultsFilename: cookieResultsFilename},
			{Scanner: &scanner.HSTSScanner{Fetcher: newFetcher()}, ResultsFilename: hstsResultsFilename},
		})
	},
}

func newFetcher() *scanner.Fetcher {
	return &scanner.Fetcher{
		Timeout:      time.Duration(cliConfig.Scan.TimeoutSecs) * time.Second,
		MaxRedirects: cliConfig.Scan.MaxRedirects,
		UserAgent:    cliConfig.Scan.UserAgent,
	}
}

// runScanCommand executes the common scan flow: collect targets, run each
// job through the runner, persist findings, print a colorized summary.
func runScanCommand(cmd *cobra.Command, args []string, jobs []scanJob) error {
	targets, err := collectTargets(cmd, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets given (pass targets as arguments or via --input)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Printf("\n%s Received %s, finalizing partial results...\n", colorWarn("!"), sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := &scanner.Runner{
		Concurrency: cliConfig.Scan.Concurrency,
		RateLimit:   cliConfig.Scan.RateLimit,
		Timeout:     time.Duration(cliConfig.Scan.TimeoutSecs) * time.Second,
	}

	for _, job := range jobs {
		start := time.Now().UTC()

		var progress *progressPrinter
		var auditFn scanner.AuditFunc
		if cliConfig.Scan.ProgressEnabled {
			progress = newProgressPrinter(len(targets), job.Scanner.Name())
			progress.Start()
			auditFn = func(target string, finding scanner.Finding, duration float64) error {
				progress.Increment(finding.Severity, duration)
				return nil
			}
		}

		findings := runner.RunScans(ctx, targets, job.Scanner, auditFn)

		if progress != nil {
			progress.Stop()
		}

		resultsPath, err := writeFindings(resultsDir, job.ResultsFilename, job.Scanner.Name(), findings, start)
		if err != nil {
			return err
		}

		printScanSummary(job.Scanner.Name(), findings, resultsPath)
	}

	if ctx.Err() != nil {
		fmt.Printf("%s Run cancelled; results above are partial.\n", colorWarn("!"))
	}

	return nil
}

// collectTargets merges positional arguments with an optional --input file
// (one target per line, # comments allowed), preserving order and dropping
// duplicates.
func collectTargets(cmd *cobra.Command, args []string) ([]string, error) {
	targets := append([]string(nil), args...)

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath != "" {
		f, err := os.Open(inputPath) // #nosec G304 -- operator-supplied path to their own target list.
		if err != nil {
			return nil, fmt.Errorf("open targets file: %w", err)
		}
		defer f.Close()

		s := bufio.NewScanner(f)
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			targets = append(targets, line)
		}
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("read targets file: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(targets))
	unique := make([]string, 0, len(targets))
	for _, t := range targets {
		key := scanner.NormalizeTarget(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, t)
	}
	return unique, nil
}

// writeFindings persists one run's findings as indented JSON under dir.
func writeFindings(dir, filename, checkName string, findings []scanner.Finding, startedAt time.Time) (string, error) {
	out := RunOutput{
		Metadata: RunMetadata{
			Tool:         "webposture",
			Version:      Version,
			Check:        checkName,
			StartedAt:    startedAt,
			CompletedAt:  time.Now().UTC(),
			TotalTargets: len(findings),
		},
		Findings: findings,
	}

	b, err := json.MarshalIndent(out, jsonPrefix, jsonIndent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, b, consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}

// loadRunOutput reads a previously written results file.
func loadRunOutput(path string) (*RunOutput, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the configured results directory.
	if err != nil {
		return nil, err
	}
	var out RunOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse results file %s: %w", path, err)
	}
	return &out, nil
}

func printScanSummary(name string, findings []scanner.Finding, resultsPath string) {
	okCount, warnCount, critCount, errCount := summarizeSeverities(findings)

	fmt.Printf("%s %s\n", colorSuccess("Scan complete:"), name)
	fmt.Printf("%s %s\n", colorInfo("Results:"), resultsPath)
	fmt.Printf("Summary: %d ok, %d warning, %d critical, %d error (out of %d targets)\n",
		okCount, warnCount, critCount, errCount, len(findings))
	for _, f := range findings {
		fmt.Printf("  %-40s %-10s %s\n", f.Domain, formatSeverityWithColor(f.Severity), f.Status)
	}
}

func summarizeSeverities(findings []scanner.Finding) (okCount, warnCount, critCount, errCount int) {
	for _, f := range findings {
		switch f.Severity {
		case scanner.SeverityOK:
			okCount++
		case scanner.SeverityWarning:
			warnCount++
		case scanner.SeverityCritical:
			critCount++
		default:
			errCount++
		}
	}
	return okCount, warnCount, critCount, errCount
}

// addCommonScanFlags adds flags shared by all scan subcommands.
func addCommonScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "File with one target per line")
}

func init() {
	scanCmd.PersistentFlags().IntVarP(&cliConfig.Scan.Concurrency, "concurrency", "c", cliConfig.Scan.Concurrency, "max concurrent requests")
	scanCmd.PersistentFlags().IntVarP(&cliConfig.Scan.RateLimit, "rate", "r", cliConfig.Scan.RateLimit, "requests per second (global)")
	scanCmd.PersistentFlags().IntVarP(&cliConfig.Scan.TimeoutSecs, "timeout", "t", cliConfig.Scan.TimeoutSecs, "request timeout in seconds")
	scanCmd.PersistentFlags().IntVar(&cliConfig.Scan.MaxRedirects, "max-redirects", cliConfig.Scan.MaxRedirects, "maximum redirect hops to follow")
	scanCmd.PersistentFlags().StringVar(&cliConfig.Scan.UserAgent, "user-agent", cliConfig.Scan.UserAgent, "User-Agent header for outbound requests")
	scanCmd.PersistentFlags().BoolVar(&cliConfig.Scan.ProgressEnabled, "progress", cliConfig.Scan.ProgressEnabled, "Display live progress for scans")

	addCommonScanFlags(scanCookiesCmd)
	addCommonScanFlags(scanHSTSCmd)
	addCommonScanFlags(scanAllCmd)

	scanCmd.AddCommand(scanCookiesCmd)
	scanCmd.AddCommand(scanHSTSCmd)
	scanCmd.AddCommand(scanAllCmd)
}
