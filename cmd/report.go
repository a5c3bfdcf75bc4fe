package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"
	consts "github.com/webposture/webposture/internal/constants"
	"github.com/webposture/webposture/internal/scanner"
)

var resultFilenames = []string{
	cookieResultsFilename,
	hstsResultsFilename,
}

const markdownReportTemplate = `# webposture report

Generated: {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}
{{ range .Sections }}
## {{ .Check }} ({{ .Metadata.TotalTargets }} target(s), run {{ .Metadata.StartedAt.Format "2006-01-02 15:04" }})

| Domain | Severity | Status | Message |
|--------|----------|--------|---------|
{{- range .Findings }}
| {{ .Domain }} | {{ .Severity }} | {{ .Status }} | {{ .Message }} |
{{- end }}
{{ end }}`

type reportSection struct {
	Check    string
	Metadata RunMetadata
	Findings []scanner.Finding
}

type reportData struct {
	GeneratedAt time.Time
	Sections    []reportSection
}

var mdReportTemplate = template.Must(template.New("report.md").Parse(markdownReportTemplate))

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a summary report from saved scan results",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format = strings.ToLower(format)
		if format != "md" && format != "pdf" {
			return fmt.Errorf("invalid format: %s (must be md or pdf)", format)
		}

		data, err := loadReportData(resultsDir)
		if err != nil {
			return err
		}

		if output == "" {
			output = filepath.Join(resultsDir, "report."+format)
		}

		switch format {
		case "md":
			err = writeMarkdownReport(data, output)
		case "pdf":
			err = writePDFReport(data, output)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", colorSuccess("Report written:"), output)
		return nil
	},
}

// loadReportData gathers every known results file in dir; at least one must
// exist for a report to make sense.
func loadReportData(dir string) (*reportData, error) {
	data := &reportData{GeneratedAt: time.Now().UTC()}

	for _, filename := range resultFilenames {
		out, err := loadRunOutput(filepath.Join(dir, filename))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		data.Sections = append(data.Sections, reportSection{
			Check:    out.Metadata.Check,
			Metadata: out.Metadata,
			Findings: out.Findings,
		})
	}

	if len(data.Sections) == 0 {
		return nil, fmt.Errorf("no scan results found in %s (run 'webposture scan' first)", dir)
	}
	return data, nil
}

func writeMarkdownReport(data *reportData, path string) error {
	var buf bytes.Buffer
	if err := mdReportTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render markdown report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writePDFReport(data *reportData, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("webposture report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "webposture report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, "Generated: "+data.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	pdf.Ln(12)

	for _, section := range data.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 9, fmt.Sprintf("%s (%d target(s))", section.Check, section.Metadata.TotalTargets))
		pdf.Ln(9)

		pdf.SetFont("Helvetica", "", 9)
		for _, f := range section.Findings {
			pdf.Cell(0, 6, fmt.Sprintf("%s  [%s]  %s", f.Domain, f.Severity, f.Status))
			pdf.Ln(5)
			pdf.SetTextColor(90, 90, 90)
			pdf.Cell(0, 5, "    "+f.Message)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write PDF report: %w", err)
	}
	return nil
}

func init() {
	reportCmd.Flags().String("format", "md", "Report format (md or pdf)")
	reportCmd.Flags().String("output", "", "Output path (default <results-dir>/report.<format>)")
}
