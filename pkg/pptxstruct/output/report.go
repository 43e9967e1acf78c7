package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
)

// Reporter prints human readable run summaries.
type Reporter struct {
	w      io.Writer
	styles struct {
		success lipgloss.Style
		warning lipgloss.Style
		failed  lipgloss.Style
		info    lipgloss.Style
		bold    lipgloss.Style
	}
}

// NewReporter returns a Reporter whose colours follow the capabilities of w.
func NewReporter(w io.Writer) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	r := &Reporter{w: w}
	r.styles.success = renderer.NewStyle().Foreground(lipgloss.Color("10"))
	r.styles.failed = renderer.NewStyle().Foreground(lipgloss.Color("9"))
	r.styles.warning = renderer.NewStyle().Foreground(lipgloss.Color("11"))
	r.styles.info = renderer.NewStyle().Foreground(lipgloss.Color("8"))
	r.styles.bold = renderer.NewStyle().Bold(true)
	return r
}

// Extract summarizes an extraction run.
func (r *Reporter) Extract(inv *models.Inventory, outputPath string) {
	issues := 0
	for _, s := range inv.Slides {
		for _, sh := range s.Shapes {
			if sh.HasIssues() {
				issues++
			}
		}
	}
	fmt.Fprintf(r.w, "%s %d text shapes on %d slides written to %s\n",
		r.styles.success.Render("✓"), inv.ShapeCount(), len(inv.Slides), outputPath)
	if issues > 0 {
		fmt.Fprintf(r.w, "  %s\n", r.styles.warning.Render(fmt.Sprintf("%d shapes with overlap or overflow", issues)))
	}
}

// Apply summarizes an apply run.
func (r *Reporter) Apply(res *models.ApplyResult, outputPath string) {
	mark := r.styles.success.Render("✓")
	if len(res.Warnings) > 0 {
		mark = r.styles.warning.Render("!")
	}
	fmt.Fprintf(r.w, "%s Saved %s\n", mark, r.styles.bold.Render(outputPath))
	fmt.Fprintf(r.w, "  shapes modified: %d (on %d slides)\n", res.Modified, res.Slides)
	if res.Deleted > 0 {
		fmt.Fprintf(r.w, "  slides deleted:  %d\n", res.Deleted)
	}
	if res.SummaryAdded {
		fmt.Fprintf(r.w, "  summary slide:   added\n")
	}
	fmt.Fprintf(r.w, "  final slides:    %d\n", res.FinalSlideCount)
	fmt.Fprintf(r.w, "  warnings:        %d\n", len(res.Warnings))
	for _, w := range res.Warnings {
		fmt.Fprintf(r.w, "    %s\n", r.styles.warning.Render(w))
	}
}

// Validation prints findings grouped by severity followed by the status line.
func (r *Reporter) Validation(title string, res *models.ValidationResult) {
	fmt.Fprintln(r.w, r.styles.bold.Render(title))
	fmt.Fprintln(r.w, strings.Repeat("=", lipgloss.Width(title)))

	r.findings("ERRORS", r.styles.failed, res.Errors)
	r.findings("WARNINGS", r.styles.warning, res.Warnings)
	r.findings("INFO", r.styles.info, res.Info)

	status := res.Status()
	style := r.styles.success
	switch status {
	case models.StatusFail:
		style = r.styles.failed
	case models.StatusWarn:
		style = r.styles.warning
	}
	fmt.Fprintf(r.w, "\nStatus: %s (%d errors, %d warnings)\n",
		style.Render(status), len(res.Errors), len(res.Warnings))
}

func (r *Reporter) findings(heading string, style lipgloss.Style, list []models.Finding) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(r.w, "\n%s (%d)\n", style.Render(heading), len(list))
	for _, f := range list {
		fmt.Fprintf(r.w, "  [%s] %s: %s\n", f.Type, f.Location, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(r.w, "      → %s\n", f.Suggestion)
		}
	}
}
