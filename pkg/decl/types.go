// Package decl defines the declaration descriptors the registry compiler reads.
//
// A descriptor is the explicit form of "a method declaration with attached
// metadata": front-ends (Go source directives, HCL manifests, JSON documents)
// produce descriptors and the resolver works on nothing else.
package decl

import "fmt"

// Set is one compiler input: groupings plus standalone declarations.
type Set struct {
	Groups       []Group       `json:"groups,omitempty"`
	Declarations []Declaration `json:"declarations,omitempty"`
}

// Merge appends the contents of other to s.
func (s *Set) Merge(other Set) {
	s.Groups = append(s.Groups, other.Groups...)
	s.Declarations = append(s.Declarations, other.Declarations...)
}

// Len returns the number of declarations in the set, grouped or not.
func (s Set) Len() int {
	n := len(s.Declarations)
	for _, g := range s.Groups {
		n += len(g.Declarations)
	}
	return n
}

// Group is an enclosing grouping, typically an interface.
type Group struct {
	Name         string        `json:"name"`
	Scope        *string       `json:"scope,omitempty"` // nil: no scope annotation; "": no-scope bucket
	Declarations []Declaration `json:"declarations,omitempty"`
	Problems     []Problem     `json:"problems,omitempty"`
	Pos          Position      `json:"pos"`
}

// Problemf records an annotation error on the group.
func (g *Group) Problemf(pos Position, format string, args ...interface{}) {
	g.Problems = append(g.Problems, Problem{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Member kinds. Only KindMethod is an endpoint shape.
const (
	KindMethod   = "method"
	KindEmbedded = "embedded"
	KindField    = "field"
)

// Declaration describes one method-like declaration and its annotations.
type Declaration struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind,omitempty"`   // empty means KindMethod
	Scope       *string            `json:"scope,omitempty"`  // scope annotation
	Method      *string            `json:"method,omitempty"` // fully-qualified "scope.method" annotation
	Result      *TypeRef           `json:"result,omitempty"` // result-type override
	Params      []Param            `json:"params,omitempty"`
	NotBindable bool               `json:"notBindable,omitempty"`
	Defaults    []DefaultParameter `json:"defaults,omitempty"`
	Problems    []Problem          `json:"problems,omitempty"`
	Pos         Position           `json:"pos"`
}

// Problemf records an annotation error on the declaration.
func (d *Declaration) Problemf(pos Position, format string, args ...interface{}) {
	d.Problems = append(d.Problems, Problem{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// IsMethod reports whether the declaration has an endpoint shape.
func (d *Declaration) IsMethod() bool {
	return d.Kind == "" || d.Kind == KindMethod
}

// HasNaming reports whether the declaration carries its own scope or
// fully-qualified method annotation.
func (d *Declaration) HasNaming() bool {
	return d.Scope != nil || d.Method != nil
}

// Problem is an annotation a front end could not read. The resolver reports
// it as an error and leaves the declaration, or the whole group, out.
type Problem struct {
	Message string   `json:"message"`
	Pos     Position `json:"pos"`
}

// Param is a declared parameter.
type Param struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// DefaultParameter is a parameter-binding annotation, passed through as is.
type DefaultParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Position locates a declaration in its source.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsValid reports whether any location information is present.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0
}

func (p Position) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "-"
	case p.Line == 0:
		return p.File
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// String returns a pointer to s. Handy for building descriptors by hand.
func String(s string) *string {
	return &s
}
