// Package diags is the diagnostics surface of stacksynth: a list-based
// alternative to plain Go errors that can carry severity and source
// location, and that knows how to absorb hcl.Diagnostics from stack file
// parsing and multierror aggregates from tree validation.
package diags

// Diagnostic is a single problem to report to the user.
type Diagnostic interface {
	Severity() Severity
	Description() Description
	Source() Source
}

// Severity marks how bad a diagnostic is.
type Severity rune

const (
	Error   Severity = 'E'
	Warning Severity = 'W'
)

// Description is the user-facing text of a diagnostic.
type Description struct {
	Summary string
	Detail  string
}

// Source describes where in a source file the problem lives, when known.
type Source struct {
	Subject *SourceRange
}

// SourceRange is a span within a source file.
type SourceRange struct {
	Filename   string
	Start, End SourcePos
}

// SourcePos is a single position within a source file.
type SourcePos struct {
	Line, Column, Byte int
}

// diagnosticBase provides default implementations for simple diagnostics
// that have no source location.
type diagnosticBase struct {
	severity Severity
	summary  string
	detail   string
}

func (d diagnosticBase) Severity() Severity {
	return d.severity
}

func (d diagnosticBase) Description() Description {
	return Description{
		Summary: d.summary,
		Detail:  d.detail,
	}
}

func (d diagnosticBase) Source() Source {
	return Source{}
}

// Sourceless creates a diagnostic with no source location, for problems
// that relate to the environment or the tree as a whole rather than to a
// particular span of a stack file.
func Sourceless(severity Severity, summary, detail string) Diagnostic {
	return diagnosticBase{
		severity: severity,
		summary:  summary,
		detail:   detail,
	}
}

// nativeError wraps a plain Go error as an error-severity diagnostic.
type nativeError struct {
	err error
}

func (e nativeError) Severity() Severity {
	return Error
}

func (e nativeError) Description() Description {
	return Description{
		Summary: e.err.Error(),
	}
}

func (e nativeError) Source() Source {
	return Source{}
}
