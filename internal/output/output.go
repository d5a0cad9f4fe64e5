// Package output prints the "====" progress protocol.
//
// Every line starts with "====" so scripts can grep for it. Styles are
// bound to the destination writer, so output to a pipe or a buffer stays
// plain text and only terminals get colour.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Prefix starts every protocol line.
const Prefix = "===="

// Reporter writes protocol lines to one writer.
type Reporter struct {
	w       io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	subtle  lipgloss.Style
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	renderer := lipgloss.NewRenderer(w)

	return &Reporter{
		w:       w,
		info:    renderer.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		success: renderer.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		subtle:  renderer.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// Info prints a neutral progress line, e.g. the target being built.
func (r *Reporter) Info(format string, args ...any) {
	r.line(r.info, format, args...)
}

// Success prints a line for a phase that succeeded.
func (r *Reporter) Success(format string, args ...any) {
	r.line(r.success, format, args...)
}

// Failure prints a line for a phase that failed or could not start.
func (r *Reporter) Failure(format string, args ...any) {
	r.line(r.failure, format, args...)
}

// Subtle prints a low-importance line, e.g. a skipped phase.
func (r *Reporter) Subtle(format string, args ...any) {
	r.line(r.subtle, format, args...)
}

func (r *Reporter) line(style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.w, style.Render(Prefix+" "+msg))
}
