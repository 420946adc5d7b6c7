package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/yairfalse/kalusto/pkg/types"
)

// ReportRenderer prints the human-facing summary of a collect run.
type ReportRenderer struct {
	w       io.Writer
	noColor bool
}

// NewReportRenderer creates a renderer writing to w.
func NewReportRenderer(w io.Writer, noColor bool) *ReportRenderer {
	return &ReportRenderer{w: w, noColor: noColor}
}

// Render prints counts, conflicts, unknown values, and unlisted types.
// Diagnostics are operator information, not failures, so everything here
// is advisory.
func (r *ReportRenderer) Render(report *types.CollectReport) {
	bold := r.sprintf(color.Bold)
	yellow := r.sprintf(color.FgYellow)
	red := r.sprintf(color.FgRed)
	green := r.sprintf(color.FgGreen)

	fmt.Fprintf(r.w, "%s run %s\n", bold("kalusto collect"), report.RunID)
	fmt.Fprintf(r.w, "  versions folded:  %d\n", len(report.Versions))
	fmt.Fprintf(r.w, "  products read:    %d\n", report.ProductCount)
	fmt.Fprintf(r.w, "  instance types:   %d\n", report.InstanceCount)

	if report.Clean() {
		fmt.Fprintf(r.w, "%s\n", green("  no conflicts, unknown values, or unlisted types"))
		return
	}

	if len(report.Conflicts) > 0 {
		fmt.Fprintf(r.w, "\n%s (%d)\n", red("conflicting attributes"), len(report.Conflicts))
		for _, c := range report.Conflicts {
			fmt.Fprintf(r.w, "  %s.%s: %v\n", c.Key, c.Attribute, c.Values)
		}
	}

	if !report.Unknown.Empty() {
		fmt.Fprintf(r.w, "\n%s (%d)\n", yellow("unparseable values"), report.Unknown.Total())
		fields := make([]string, 0, len(report.Unknown))
		for field := range report.Unknown {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, raw := range report.Unknown[field] {
				fmt.Fprintf(r.w, "  %s: %q\n", field, raw)
			}
		}
	}

	if len(report.Unlisted) > 0 {
		fmt.Fprintf(r.w, "\n%s (%d)\n", yellow("types missing from the API model"), len(report.Unlisted))
		for _, name := range report.Unlisted {
			fmt.Fprintf(r.w, "  %s\n", name)
		}
	}
}

func (r *ReportRenderer) sprintf(attr color.Attribute) func(format string, a ...interface{}) string {
	c := color.New(attr)
	if r.noColor {
		c.DisableColor()
	}
	return c.Sprintf
}
