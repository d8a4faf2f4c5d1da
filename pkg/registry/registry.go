// Package registry accumulates resolved endpoints into a scope→method tree.
//
// The registry does no validation of its own. It keeps every distinct
// (method, result type) pair it is given, so a method registered with two
// different result types shows up as a conflict for the emitters to settle.
package registry

import (
	"sort"

	"github.com/chazu/rpcgen/pkg/decl"
)

// Endpoint is the unit of registration: a named RPC operation with its
// resolved result type.
type Endpoint struct {
	Scope       string // "" is the no-scope bucket
	Method      string
	Result      decl.TypeRef
	NotBindable bool
	Defaults    []decl.DefaultParameter
	Pos         decl.Position
}

// Name returns the dotted endpoint name: "scope.method", or "method" when
// the scope is empty.
func (e Endpoint) Name() string {
	return DottedName(e.Scope, e.Method)
}

// DottedName joins scope and method the way endpoint names are spelled on
// the wire.
func DottedName(scope, method string) string {
	if scope == "" {
		return method
	}
	return scope + "." + method
}

// Candidate is one distinct result type registered for a method, with the
// endpoints that produced it.
type Candidate struct {
	Result    decl.TypeRef
	Endpoints []Endpoint
}

// Conflict is a method registered with more than one result type.
type Conflict struct {
	Scope   string
	Method  string
	Results []decl.TypeRef
}

// Name returns the dotted name of the conflicting method.
func (c Conflict) Name() string {
	return DottedName(c.Scope, c.Method)
}

// Registry maps scope → method → result type key → candidate.
type Registry struct {
	scopes map[string]map[string]map[string]*Candidate
	count  int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{scopes: map[string]map[string]map[string]*Candidate{}}
}

// Build returns a registry holding all of endpoints.
func Build(endpoints []Endpoint) *Registry {
	r := New()
	for _, e := range endpoints {
		r.Add(e)
	}
	return r
}

// Add registers e. An endpoint whose scope, method and result type are all
// already present is folded into the existing candidate.
func (r *Registry) Add(e Endpoint) {
	methods, ok := r.scopes[e.Scope]
	if !ok {
		methods = map[string]map[string]*Candidate{}
		r.scopes[e.Scope] = methods
	}
	results, ok := methods[e.Method]
	if !ok {
		results = map[string]*Candidate{}
		methods[e.Method] = results
	}
	key := e.Result.String()
	c, ok := results[key]
	if !ok {
		c = &Candidate{Result: e.Result}
		results[key] = c
		r.count++
	}
	c.Endpoints = append(c.Endpoints, e)
}

// Len returns the number of distinct (scope, method, result type) entries.
func (r *Registry) Len() int {
	return r.count
}

// Empty reports whether nothing was registered.
func (r *Registry) Empty() bool {
	return r.count == 0
}

// Scopes returns every scope holding at least one endpoint, sorted. The
// no-scope bucket, if present, sorts first.
func (r *Registry) Scopes() []string {
	scopes := make([]string, 0, len(r.scopes))
	for s := range r.scopes {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	return scopes
}

// Methods returns the distinct method names of scope, sorted.
func (r *Registry) Methods(scope string) []string {
	methods := make([]string, 0, len(r.scopes[scope]))
	for m := range r.scopes[scope] {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Candidates returns the result types registered for scope.method, sorted
// by their canonical form.
func (r *Registry) Candidates(scope, method string) []Candidate {
	results := r.scopes[scope][method]
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Candidate, 0, len(keys))
	for _, k := range keys {
		out = append(out, *results[k])
	}
	return out
}

// Conflicts returns every method registered with more than one result type,
// in scope then method order.
func (r *Registry) Conflicts() []Conflict {
	var out []Conflict
	for _, scope := range r.Scopes() {
		for _, method := range r.Methods(scope) {
			candidates := r.Candidates(scope, method)
			if len(candidates) < 2 {
				continue
			}
			c := Conflict{Scope: scope, Method: method}
			for _, cand := range candidates {
				c.Results = append(c.Results, cand.Result)
			}
			out = append(out, c)
		}
	}
	return out
}

// Endpoints returns a sorted snapshot of every registered entry, one per
// candidate.
func (r *Registry) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, r.count)
	for _, scope := range r.Scopes() {
		for _, method := range r.Methods(scope) {
			for _, c := range r.Candidates(scope, method) {
				out = append(out, c.Endpoints[0])
			}
		}
	}
	return out
}
