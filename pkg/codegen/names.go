package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/registry"
)

// GenerateNames renders one string constant per distinct endpoint name,
// grouped into a const block per scope. Result type conflicts do not affect
// this artifact. Names whose constants still clash are left out with a
// warning. It returns a nil artifact when no constant is left.
func GenerateNames(reg *registry.Registry, opts Options) (*Artifact, diag.List, error) {
	opts = opts.withDefaults()
	var ds diag.List
	if reg.Empty() {
		return nil, ds, nil
	}

	f := jen.NewFile(opts.NamesPackage)
	f.HeaderComment(Header)

	type endpoint struct{ scope, method string }
	var names []string
	byName := map[string]endpoint{}
	for _, scope := range reg.Scopes() {
		for _, m := range reg.Methods(scope) {
			n := registry.DottedName(scope, m)
			names = append(names, n)
			byName[n] = endpoint{scope, m}
		}
	}
	dropped := collisions(names,
		func(n string) string { return constName(byName[n].scope, byName[n].method) },
		func(n string) decl.Position { return position(reg, byName[n].scope, byName[n].method) },
		&ds)

	emitted := 0
	for _, scope := range reg.Scopes() {
		var defs []jen.Code
		for _, m := range reg.Methods(scope) {
			n := registry.DottedName(scope, m)
			if dropped[n] {
				continue
			}
			defs = append(defs, jen.Id(constName(scope, m)).Op("=").Lit(n))
		}
		if len(defs) == 0 {
			continue
		}
		f.Comment(scopeComment(scope))
		f.Const().Defs(defs...)
		f.Line()
		emitted += len(defs)
	}
	if emitted == 0 {
		return nil, ds, nil
	}

	a, err := render(f, opts.NamesFile, opts.NamesPackage)
	if err != nil {
		return nil, ds, err
	}
	return a, ds, nil
}

// constName follows the Service_Method naming of generated gRPC constants.
// The method keeps its declared spelling, so get and Get stay distinct.
func constName(scope, method string) string {
	return exportName(scope) + "_" + method
}

func scopeComment(scope string) string {
	if scope == "" {
		return noScope + " holds the endpoints declared without a scope."
	}
	return fmt.Sprintf("Scope %q.", scope)
}
