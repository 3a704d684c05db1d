package diags

import (
	"bytes"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
)

// Diagnostics is a list of diagnostics, used where a Go error might
// normally be, so that multiple problems can be reported in one pass. A
// nil Diagnostics is a valid empty list.
type Diagnostics []Diagnostic

// Append normalizes the given objects into diagnostics and appends them.
// It accepts Diagnostic, Diagnostics, hcl.Diagnostics, *multierror.Error
// and plain errors; nil items are skipped. Anything else panics, since it
// indicates a programming error at the call site.
func (d Diagnostics) Append(items ...interface{}) Diagnostics {
	for _, item := range items {
		if item == nil {
			continue
		}
		switch ti := item.(type) {
		case Diagnostic:
			d = append(d, ti)
		case Diagnostics:
			d = append(d, ti...)
		case hcl.Diagnostics:
			for _, hclDiag := range ti {
				d = append(d, hclDiagnostic{hclDiag})
			}
		case *hcl.Diagnostic:
			d = append(d, hclDiagnostic{ti})
		case *multierror.Error:
			for _, err := range ti.Errors {
				d = append(d, nativeError{err})
			}
		case error:
			d = append(d, nativeError{ti})
		default:
			panic(fmt.Errorf("can't construct diagnostic(s) from %T", item))
		}
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// HasErrors reports whether the list contains at least one error-severity
// diagnostic.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity() == Error {
			return true
		}
	}
	return false
}

// Err flattens the list into a single Go error, or nil if there are no
// error-severity diagnostics.
func (d Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	return diagnosticsAsError{d}
}

type diagnosticsAsError struct {
	Diagnostics
}

func (dae diagnosticsAsError) Error() string {
	ds := dae.Diagnostics
	switch {
	case len(ds) == 0:
		return "no errors"
	case len(ds) == 1:
		desc := ds[0].Description()
		if desc.Detail == "" {
			return desc.Summary
		}
		return fmt.Sprintf("%s: %s", desc.Summary, desc.Detail)
	default:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%d problems:\n", len(ds))
		for _, diag := range ds {
			desc := diag.Description()
			if desc.Detail == "" {
				fmt.Fprintf(&buf, "\n- %s", desc.Summary)
			} else {
				fmt.Fprintf(&buf, "\n- %s: %s", desc.Summary, desc.Detail)
			}
		}
		return buf.String()
	}
}
