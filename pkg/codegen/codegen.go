// Package codegen renders an endpoint registry as Go source.
//
// Two artifacts come out of one registry: a names file with a string
// constant per endpoint, and a subscribers file with a typed navigation tree
// of rpc.Subscriber handles bound to a shared rpc.CallbackStorage.
package codegen

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/juju/errors"
	"github.com/serenize/snaker"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/registry"
	"github.com/chazu/rpcgen/pkg/rpc"
)

// Header is the first line of every generated file.
const Header = "Code generated by rpcgen. DO NOT EDIT."

// Defaults used when the matching Options field is empty.
const (
	DefaultNamesPackage    = "nr"
	DefaultRoot            = "Subscribers"
	DefaultNamesFile       = "names_gen.go"
	DefaultSubscribersFile = "subscribers_gen.go"
)

// noScope is the Go name of the no-scope bucket.
const noScope = "NoScope"

// ErrMissingPackage is returned when the subscriber surface is requested
// without a target package.
var ErrMissingPackage = errors.NewNotValid(nil, "missing target package for the subscriber surface")

// Options controls code generation.
type Options struct {
	// Package is the package clause of the subscribers file. Required by
	// GenerateSubscribers.
	Package string
	// NamesPackage is the package clause of the names file. Falls back to
	// Package, then to DefaultNamesPackage.
	NamesPackage string
	// Root names the top-level subscriber type.
	Root string
	// RuntimePath is the import path of the runtime the subscribers file
	// uses.
	RuntimePath string

	NamesFile       string
	SubscribersFile string
}

func (o Options) withDefaults() Options {
	if o.NamesPackage == "" {
		o.NamesPackage = o.Package
	}
	if o.NamesPackage == "" {
		o.NamesPackage = DefaultNamesPackage
	}
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.RuntimePath == "" {
		o.RuntimePath = rpc.PackagePath
	}
	if o.NamesFile == "" {
		o.NamesFile = DefaultNamesFile
	}
	if o.SubscribersFile == "" {
		o.SubscribersFile = DefaultSubscribersFile
	}
	return o
}

// Artifact is one generated file.
type Artifact struct {
	Name    string // file name, relative to the output directory
	Package string
	Code    []byte
}

// Result contains the generated artifacts and the diagnostics raised while
// generating them. An artifact is nil when there was nothing to emit.
type Result struct {
	Names       *Artifact
	Subscribers *Artifact
	Diagnostics diag.List
}

// Generate produces both artifacts. When the subscriber surface cannot be
// generated the error is returned together with a Result that still carries
// the names artifact.
func Generate(reg *registry.Registry, opts Options) (*Result, error) {
	res := &Result{}
	names, ds, err := GenerateNames(reg, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	res.Names = names
	res.add(ds)

	subs, ds, err := GenerateSubscribers(reg, opts)
	res.add(ds)
	if err != nil {
		return res, errors.Trace(err)
	}
	res.Subscribers = subs
	return res, nil
}

// add appends ds, skipping diagnostics already reported by the other
// generator.
func (r *Result) add(ds diag.List) {
	seen := make(map[string]bool, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		seen[d.String()] = true
	}
	for _, d := range ds {
		if !seen[d.String()] {
			r.Diagnostics = append(r.Diagnostics, d)
			seen[d.String()] = true
		}
	}
}

// exportName turns an endpoint name part into an exported Go identifier.
func exportName(s string) string {
	if s == "" {
		return noScope
	}
	id := snaker.SnakeToCamel(s)
	if r := []rune(id); len(r) > 0 && unicode.IsDigit(r[0]) {
		id = "X" + id
	}
	return id
}

// collisions returns the set of names whose identifier is shared with
// another name, and reports each clash once. names must be sorted.
func collisions(names []string, ident func(string) string, pos func(string) decl.Position, ds *diag.List) map[string]bool {
	byID := map[string][]string{}
	var order []string
	for _, n := range names {
		id := ident(n)
		if _, ok := byID[id]; !ok {
			order = append(order, id)
		}
		byID[id] = append(byID[id], n)
	}

	out := map[string]bool{}
	for _, id := range order {
		clash := byID[id]
		if len(clash) < 2 {
			continue
		}
		quoted := make([]string, len(clash))
		for i, n := range clash {
			quoted[i] = `"` + n + `"`
			out[n] = true
		}
		ds.Warnf(pos(clash[0]), clash[0], "identifier %s is produced by both %s; both omitted",
			id, strings.Join(quoted, " and "))
	}
	return out
}

// position returns where scope.method was first declared.
func position(reg *registry.Registry, scope, method string) decl.Position {
	for _, c := range reg.Candidates(scope, method) {
		for _, e := range c.Endpoints {
			if e.Pos.IsValid() {
				return e.Pos
			}
		}
	}
	return decl.Position{}
}

// scopePosition returns where the first method of scope was declared.
func scopePosition(reg *registry.Registry, scope string) decl.Position {
	for _, m := range reg.Methods(scope) {
		if pos := position(reg, scope, m); pos.IsValid() {
			return pos
		}
	}
	return decl.Position{}
}

// typeCode renders t as a jennifer type expression.
func typeCode(t decl.TypeRef) jen.Code {
	switch t.Kind {
	case decl.KindPointer:
		return jen.Op("*").Add(typeCode(*t.Elem))
	case decl.KindSlice:
		return jen.Index().Add(typeCode(*t.Elem))
	case decl.KindMap:
		return jen.Map(typeCode(*t.Key)).Add(typeCode(*t.Elem))
	}
	var s *jen.Statement
	if t.Path == "" {
		s = jen.Id(t.Name)
	} else {
		s = jen.Qual(t.Path, t.Name)
	}
	if len(t.Args) > 0 {
		args := make([]jen.Code, len(t.Args))
		for i, a := range t.Args {
			args[i] = typeCode(a)
		}
		s = s.Types(args...)
	}
	return s
}

func render(f *jen.File, name, pkg string) (*Artifact, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Annotatef(err, "rendering %s", name)
	}
	return &Artifact{Name: name, Package: pkg, Code: buf.Bytes()}, nil
}
