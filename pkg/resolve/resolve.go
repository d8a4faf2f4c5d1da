// Package resolve derives the effective scope, method name and result type of
// every declaration and rejects the ones that break the naming rules.
package resolve

import (
	"regexp"
	"strings"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/registry"
	"github.com/chazu/rpcgen/pkg/rpc"
)

// DefaultCallbackType is the request-callback capability whose single type
// argument names a declaration's result type.
var DefaultCallbackType = decl.Named(rpc.PackagePath, "RequestCallback")

var validName = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Options tune resolution.
type Options struct {
	// CallbackType is matched against parameter types by path and name.
	// The zero value means DefaultCallbackType.
	CallbackType decl.TypeRef
}

// Resolve turns a declaration set into endpoints. Errors are per
// declaration: an offending declaration is reported and left out, the rest
// of the set is still resolved.
func Resolve(set decl.Set, opts Options) ([]registry.Endpoint, diag.List) {
	r := &resolver{callback: opts.CallbackType}
	if r.callback.IsZero() {
		r.callback = DefaultCallbackType
	}

	for _, g := range set.Groups {
		if len(g.Problems) > 0 {
			// The group scope cannot be trusted, so none of its members
			// are resolved.
			r.problems(g.Name, g.Pos, g.Problems)
			continue
		}
		for _, d := range g.Declarations {
			r.resolve(g.Name, d, g.Scope)
		}
	}
	for _, d := range set.Declarations {
		r.resolve("", d, nil)
	}
	return r.endpoints, r.diags
}

type resolver struct {
	callback  decl.TypeRef
	endpoints []registry.Endpoint
	diags     diag.List
}

func (r *resolver) resolve(group string, d decl.Declaration, inherited *string) {
	subject := d.Name
	if group != "" {
		subject = group + "." + d.Name
	}

	if len(d.Problems) > 0 {
		r.problems(subject, d.Pos, d.Problems)
		return
	}

	if !d.IsMethod() {
		// A group scope does not make every member an endpoint.
		if d.HasNaming() {
			r.diags.Warnf(d.Pos, subject, "%s is not a method; annotations ignored", d.Kind)
		}
		return
	}

	if !d.HasNaming() && inherited == nil {
		return
	}

	if d.Scope != nil && d.Method != nil {
		r.diags.Errorf(d.Pos, subject, "ambiguous naming: both scope and method annotations present")
		return
	}

	var scope, method string
	switch {
	case d.Scope != nil:
		scope, method = *d.Scope, d.Name
	case d.Method != nil:
		parts := strings.Split(*d.Method, ".")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			r.diags.Errorf(d.Pos, subject, "invalid method %q; must be scope.method", *d.Method)
			return
		}
		scope, method = parts[0], parts[1]
	default:
		scope, method = *inherited, d.Name
	}

	if scope != "" && !validName.MatchString(scope) {
		r.diags.Errorf(d.Pos, subject, "invalid scope %q", scope)
		return
	}
	if !validName.MatchString(method) {
		r.diags.Errorf(d.Pos, subject, "invalid method %q", method)
		return
	}

	r.endpoints = append(r.endpoints, registry.Endpoint{
		Scope:       scope,
		Method:      method,
		Result:      r.resultType(subject, d),
		NotBindable: d.NotBindable,
		Defaults:    d.Defaults,
		Pos:         d.Pos,
	})
}

func (r *resolver) problems(subject string, pos decl.Position, ps []decl.Problem) {
	for _, p := range ps {
		at := p.Pos
		if !at.IsValid() {
			at = pos
		}
		r.diags.Errorf(at, subject, "%s", p.Message)
	}
}

func (r *resolver) resultType(subject string, d decl.Declaration) decl.TypeRef {
	if d.Result != nil {
		return *d.Result
	}
	for _, p := range d.Params {
		if r.isCallback(p.Type) {
			return p.Type.Args[0]
		}
	}
	r.diags.Warnf(d.Pos, subject, "cannot determine result type; defaulting to %s", decl.Any)
	return decl.Any
}

func (r *resolver) isCallback(t decl.TypeRef) bool {
	return (t.Kind == "" || t.Kind == decl.KindNamed) &&
		t.Path == r.callback.Path &&
		t.Name == r.callback.Name &&
		len(t.Args) == 1
}
