package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/ui/output"
	"go.trai.ch/lockaudit/internal/ui/style"
)

// TextWriter renders a human-readable report.
type TextWriter struct{}

// NewTextWriter creates a TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write prints one line per dependency, details for every vulnerability and a summary.
func (t *TextWriter) Write(w io.Writer, result *domain.AuditResult) error {
	bw := bufio.NewWriter(w)
	out := output.New(bw)

	red := termenv.RGBColor(string(style.Red))
	green := termenv.RGBColor(string(style.Green))
	yellow := termenv.RGBColor(string(style.Yellow))
	slate := termenv.RGBColor(string(style.Slate))

	records := ordered(result.Records)
	for i, rec := range records {
		line := fmt.Sprintf("[%d/%d] - %s ", i+1, len(records), rec.Record.Coordinate)

		if !rec.Record.Vulnerable() {
			_, _ = fmt.Fprintf(out, "%s%s\n", line,
				out.String(style.Check+" No vulnerabilities found").Foreground(green))
			continue
		}

		_, _ = fmt.Fprintf(out, "%s%s\n", out.String(line).Foreground(red),
			out.String(fmt.Sprintf("%s Vulnerable (%d)", style.Cross, len(rec.Record.Vulnerabilities))).
				Foreground(red).Bold())

		for _, v := range rec.Record.Vulnerabilities {
			writeVulnerability(out, v, slate)
		}
	}

	if len(records) > 0 {
		_, _ = fmt.Fprintln(out)
	}

	vulnerable := result.Vulnerable()
	summary := fmt.Sprintf("Audited %d %s, %d vulnerable",
		len(records), plural(len(records), "dependency", "dependencies"), vulnerable)
	if vulnerable > 0 {
		_, _ = fmt.Fprintln(out, out.String(summary).Foreground(red).Bold())
	} else {
		_, _ = fmt.Fprintln(out, out.String(summary).Foreground(green).Bold())
	}

	if result.Outcome == domain.OutcomePartial {
		_, _ = fmt.Fprintln(out, out.String(fmt.Sprintf(
			"%s Audit incomplete: %d of %d remote batches succeeded",
			style.Warning, result.BatchesSucceeded, result.BatchesDispatched)).Foreground(yellow))
	}

	if err := bw.Flush(); err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}
	return nil
}

func writeVulnerability(out *termenv.Output, v domain.Vulnerability, detail termenv.Color) {
	title := v.Title
	if v.CVE != "" && !strings.Contains(title, v.CVE) {
		title = v.CVE + ": " + title
	}
	_, _ = fmt.Fprintf(out, "    %s %s\n", style.Dot, title)

	severity := Severity(v.CVSSScore)
	score := fmt.Sprintf("CVSS Score: %.1f (%s)", v.CVSSScore, severity)
	_, _ = fmt.Fprintf(out, "      %s\n",
		out.String(score).Foreground(termenv.RGBColor(string(style.SeverityColor(severity)))))

	var lines []string
	if v.CVSSVector != "" {
		lines = append(lines, "CVSS Vector: "+v.CVSSVector)
	}
	if v.Description != "" {
		lines = append(lines, "Description: "+strings.Join(strings.Fields(v.Description), " "))
	}
	if v.Reference != "" {
		lines = append(lines, "Reference: "+v.Reference)
	}

	for _, l := range lines {
		_, _ = fmt.Fprintf(out, "      %s\n", out.String(l).Foreground(detail))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
