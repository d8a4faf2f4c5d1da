package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/registry"
	"github.com/chazu/rpcgen/pkg/rpc"
)

const storageField = "callbackStorage"

type accessor struct {
	id     string
	name   string // dotted endpoint name
	result decl.TypeRef
}

type scopeSurface struct {
	scope     string
	id        string
	accessors []accessor
}

// GenerateSubscribers renders the subscriber navigation tree: a root type
// with one field per scope, and per scope a type with one accessor per
// method. Methods registered with conflicting result types are left out with
// a warning. It returns a nil artifact for an empty registry, and otherwise
// ErrMissingPackage when opts.Package is empty.
func GenerateSubscribers(reg *registry.Registry, opts Options) (*Artifact, diag.List, error) {
	var ds diag.List
	if reg.Empty() {
		return nil, ds, nil
	}
	if opts.Package == "" {
		return nil, ds, ErrMissingPackage
	}
	opts = opts.withDefaults()

	surfaces := buildSurfaces(reg, opts, &ds)

	f := jen.NewFile(opts.Package)
	f.HeaderComment(Header)
	if opts.RuntimePath == rpc.PackagePath {
		f.ImportName(opts.RuntimePath, "rpc")
	} else {
		f.ImportAlias(opts.RuntimePath, "rpc")
	}

	root := opts.Root
	storage := jen.Qual(opts.RuntimePath, "CallbackStorage")

	fields := []jen.Code{jen.Id(storageField).Add(storage)}
	values := jen.Dict{jen.Id(storageField): jen.Id(storageField)}
	for _, s := range surfaces {
		typ := s.id + root
		fields = append(fields, jen.Id(s.id).Op("*").Id(typ))
		values[jen.Id(s.id)] = jen.Op("&").Id(typ).Values(jen.Id(storageField).Op(":").Id(storageField))
	}

	f.Commentf("%s exposes a subscriber for every endpoint, grouped by scope.", root)
	f.Type().Id(root).Struct(fields...)
	f.Line()

	f.Commentf("New%s returns the subscriber tree backed by %s.", root, storageField)
	f.Func().Id("New"+root).Params(jen.Id(storageField).Add(storage)).Op("*").Id(root).Block(
		jen.Return(jen.Op("&").Id(root).Values(values)),
	)
	f.Line()

	for _, s := range surfaces {
		typ := s.id + root
		f.Comment(surfaceComment(typ, s.scope))
		f.Type().Id(typ).Struct(jen.Id(storageField).Add(storage))
		f.Line()

		for _, a := range s.accessors {
			result := typeCode(a.result)
			f.Commentf("%s subscribes to %q.", a.id, a.name)
			f.Func().Params(jen.Id("s").Op("*").Id(typ)).Id(a.id).Params().
				Op("*").Qual(opts.RuntimePath, "Subscriber").Types(result).
				Block(
					jen.Return(jen.Qual(opts.RuntimePath, "NewSubscriber").Types(result).Call(
						jen.Id("s").Dot(storageField),
						jen.Lit(a.name),
					)),
				)
			f.Line()
		}
	}

	a, err := render(f, opts.SubscribersFile, opts.Package)
	if err != nil {
		return nil, ds, err
	}
	return a, ds, nil
}

// buildSurfaces decides which scopes and methods make it into the surface.
// Excluded methods and scopes are reported to ds.
func buildSurfaces(reg *registry.Registry, opts Options, ds *diag.List) []scopeSurface {
	scopes := reg.Scopes()
	droppedScopes := collisions(scopes, exportName,
		func(s string) decl.Position { return scopePosition(reg, s) }, ds)

	constructor := "New" + opts.Root
	var out []scopeSurface
	for _, scope := range scopes {
		if droppedScopes[scope] {
			continue
		}
		id := exportName(scope)
		if id+opts.Root == constructor {
			ds.Warnf(scopePosition(reg, scope), scope,
				"identifier %s is reserved for the constructor; scope omitted", constructor)
			continue
		}

		methods := reg.Methods(scope)
		names := make([]string, len(methods))
		byName := make(map[string]string, len(methods))
		for i, m := range methods {
			names[i] = registry.DottedName(scope, m)
			byName[names[i]] = m
		}
		droppedMethods := collisions(names,
			func(n string) string { return exportName(byName[n]) },
			func(n string) decl.Position { return position(reg, scope, byName[n]) },
			ds)

		s := scopeSurface{scope: scope, id: id}
		for _, m := range methods {
			name := registry.DottedName(scope, m)
			if droppedMethods[name] {
				continue
			}
			candidates := reg.Candidates(scope, m)
			if len(candidates) > 1 {
				results := make([]string, len(candidates))
				for i, c := range candidates {
					results[i] = c.Result.String()
				}
				ds.Warnf(position(reg, scope, m), name,
					"conflicting result types for method %s (%s); method omitted",
					name, strings.Join(results, ", "))
				continue
			}
			s.accessors = append(s.accessors, accessor{
				id:     exportName(m),
				name:   name,
				result: candidates[0].Result,
			})
		}
		if len(s.accessors) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func surfaceComment(typ, scope string) string {
	if scope == "" {
		return typ + " exposes the endpoints declared without a scope."
	}
	return fmt.Sprintf("%s exposes the endpoints of scope %q.", typ, scope)
}
