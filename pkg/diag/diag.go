// Package diag collects compiler diagnostics attached to declarations.
package diag

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chazu/rpcgen/pkg/decl"
)

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one message about an offending declaration, scope or method.
type Diagnostic struct {
	Severity Severity
	Pos      decl.Position
	Subject  string // e.g. "UserAPI.getProfile" or "test.foo"
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.Subject != "" {
		b.WriteString(d.Subject)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Errorf appends an error diagnostic.
func (l *List) Errorf(pos decl.Position, subject, format string, args ...interface{}) {
	l.add(Error, pos, subject, format, args...)
}

// Warnf appends a warning diagnostic.
func (l *List) Warnf(pos decl.Position, subject, format string, args ...interface{}) {
	l.add(Warning, pos, subject, format, args...)
}

func (l *List) add(sev Severity, pos decl.Position, subject, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{
		Severity: sev,
		Pos:      pos,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Append adds every diagnostic of other to l.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	return l.Count(Error) > 0
}

// Count returns the number of diagnostics with the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Errors returns only the error diagnostics.
func (l List) Errors() List {
	return l.filter(Error)
}

// Warnings returns only the warning diagnostics.
func (l List) Warnings() List {
	return l.filter(Warning)
}

func (l List) filter(sev Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Report logs every diagnostic, errors at error level and the rest as warnings.
func (l List) Report(logger logrus.FieldLogger) {
	for _, d := range l {
		entry := logger.WithField("pos", d.Pos.String())
		if d.Subject != "" {
			entry = entry.WithField("decl", d.Subject)
		}
		if d.Severity == Error {
			entry.Error(d.Message)
		} else {
			entry.Warn(d.Message)
		}
	}
}
