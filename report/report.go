// Package report renders run reports as JSON or HTML.
package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"

	"github.com/TFMV/dsgen/metrics"
)

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator defines the methods for generating reports.
type ReportGenerator interface {
	GenerateRunReport(run metrics.RunReport) ([]byte, error)
	SaveReportToFile(run metrics.RunReport, filePath string) error
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

// GenerateRunReport serializes the RunReport to JSON.
func (j *JSONReportGenerator) GenerateRunReport(run metrics.RunReport) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(run metrics.RunReport, filePath string) error {
	data, err := j.GenerateRunReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLReportGenerator generates HTML reports.
type HTMLReportGenerator struct{}

var htmlReport = template.Must(template.New("report").Parse(htmlTemplate))

// HTML template for the report.
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>dsgen Run Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f4f4f4; }
        .status-pass { color: green; }
        .status-fail { color: red; }
    </style>
</head>
<body>
    <h1>Run {{.Metadata.ID}}</h1>
    <p><strong>Command:</strong> {{.Metadata.Command}}</p>
    <p><strong>Scale:</strong> {{.Metadata.Scale}}</p>
    <p><strong>Parallelism:</strong> {{.Metadata.Parallelism}}</p>
    <p><strong>Format:</strong> {{.Metadata.Format}}</p>
    <p><strong>Seed Base:</strong> {{.Metadata.SeedBase}}</p>
    <p><strong>Started:</strong> {{.Metadata.StartTime}}</p>
    <p><strong>Duration:</strong> {{.Metadata.Duration}}</p>
    <p><strong>Status:</strong> {{if .Status.Passed}}<span class="status-pass">PASS</span>{{else}}<span class="status-fail">FAIL</span> {{.Status.Message}}{{end}}</p>

    <h2>Tables</h2>
    <table>
        <tr>
            <th>Table</th>
            <th>Rows</th>
            <th>Chunks</th>
        </tr>
        {{range .Tables}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Rows}}</td>
            <td>{{.Chunks}}</td>
        </tr>
        {{end}}
    </table>

    {{if .Verifications}}
    <h2>Verification</h2>
    <table>
        <tr>
            <th>Table</th>
            <th>Parallelism</th>
            <th>Single Chunk</th>
            <th>Concatenated Chunks</th>
            <th>Status</th>
        </tr>
        {{range .Verifications}}
        <tr>
            <td>{{.Table}}</td>
            <td>{{.Parallelism}}</td>
            <td>{{.SingleChecksum}}</td>
            <td>{{.ChunkedChecksum}}</td>
            <td class="{{if .Match}}status-pass{{else}}status-fail{{end}}">
                {{if .Match}}PASS{{else}}FAIL{{end}}
            </td>
        </tr>
        {{end}}
    </table>
    {{end}}

    <h2>Chunks</h2>
    <table>
        <tr>
            <th>Table</th>
            <th>Chunk</th>
            <th>Rows</th>
            <th>Range</th>
            <th>Duration</th>
            <th>Checksum</th>
        </tr>
        {{range .Chunks}}{{if not .Skipped}}
        <tr>
            <td>{{.Table}}</td>
            <td>{{.Chunk}}/{{.TotalChunks}}</td>
            <td>{{.Rows}}</td>
            <td>{{.FirstRow}}-{{.LastRow}}</td>
            <td>{{.Duration}}</td>
            <td>{{.Checksum}}</td>
        </tr>
        {{end}}{{end}}
    </table>

    <footer>
        <p>Generated on {{.Metadata.EndTime}} by dsgen {{.Metadata.Version}}</p>
    </footer>
</body>
</html>
`

// GenerateRunReport generates an HTML report of the run.
func (h *HTMLReportGenerator) GenerateRunReport(run metrics.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveReportToFile saves the HTML report to a file.
func (h *HTMLReportGenerator) SaveReportToFile(run metrics.RunReport, filePath string) error {
	data, err := h.GenerateRunReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// SaveReports saves both JSON and HTML reports. An empty path skips that
// format.
func SaveReports(run metrics.RunReport, jsonPath, htmlPath string) error {
	gens := []struct {
		gen  ReportGenerator
		path string
	}{
		{&JSONReportGenerator{}, jsonPath},
		{&HTMLReportGenerator{}, htmlPath},
	}
	for _, g := range gens {
		if g.path == "" {
			continue
		}
		if err := g.gen.SaveReportToFile(run, g.path); err != nil {
			return err
		}
	}
	return nil
}

// ReportFromFilePath loads a JSON run report.
func ReportFromFilePath(filePath string) (metrics.RunReport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return metrics.RunReport{}, err
	}
	var report metrics.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return metrics.RunReport{}, err
	}
	return report, nil
}
