package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/beangen/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the report
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	if len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var multi *errors.MultipleErrors
	var beanErr errors.BeanError
	switch {
	case stderrors.As(err, &multi):
		fmt.Fprintf(r.out, "%d problems found\n\n", multi.Count())
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, multi.Count())
			r.reportBeanError(e)
		}
	case stderrors.As(err, &beanErr):
		r.reportBeanError(beanErr)
	default:
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.out, "  - Run 'beangen inspect' to see how entities resolve\n\n")
}

// reportBeanError reports a coded error with location, context and suggestions
func (r *DiagnosticReporter) reportBeanError(err errors.BeanError) {
	r.printErrorHeader(err.ErrorCode())

	message := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		message = strings.TrimPrefix(message, loc.String()+": ")
		fmt.Fprintf(r.out, "Location: %s\n", loc)
	}
	fmt.Fprintf(r.out, "Message: %s\n\n", message)

	if r.verbose && err.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", err.Unwrap().Error())
	}

	if context := err.Context(); len(context) > 0 {
		r.printContext(context)
	}
	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
	r.printAdditionalHelp(err.ErrorCode())
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	title := fmt.Sprintf("Type: %s", code)
	color.New(color.FgRed, color.Bold).Fprintln(r.out, title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]any) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints additional help based on error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.SyntaxErrorCode, errors.SchemaErrorCode:
		fmt.Fprintf(r.out, "Annotation Syntax Help:\n")
		fmt.Fprintf(r.out, "  - Annotations must start with //bean::entity or //bean::base\n")
		fmt.Fprintf(r.out, "  - Flags are written -Name or -Name=value\n\n")
	case errors.UnsupportedMethodErrorCode:
		fmt.Fprintf(r.out, "Bean Method Requirements:\n")
		fmt.Fprintf(r.out, "  - Getters are named Get*, Is* or Has*, take no arguments and return one value\n")
		fmt.Fprintf(r.out, "  - Setters are named Set*, take one argument and return nothing\n\n")
	case errors.MissingIdentityErrorCode:
		fmt.Fprintf(r.out, "Identity Requirements:\n")
		fmt.Fprintf(r.out, "  - Every entity must reach beangen.Identifiable through its supertypes\n\n")
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	PackagesSkipped   int
	EntitiesFound     int
	PropertiesFound   int
	IdentityInjected  int
	GeneratedFiles    []string
}

// Stats returns the summary as diagnostic statistics
func (s GenerationSummary) Stats() map[string]any {
	return map[string]any{
		"packages processed": s.PackagesProcessed,
		"packages skipped":   s.PackagesSkipped,
		"entities":           s.EntitiesFound,
		"properties":         s.PropertiesFound,
		"identity injected":  s.IdentityInjected,
		"files written":      len(s.GeneratedFiles),
	}
}
