package scan

import (
	"go/ast"

	"github.com/juju/errors"

	"github.com/chazu/rpcgen/pkg/decl"
)

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
}

// typeRef converts a type expression into its descriptor form. Package
// selectors resolve through the file's imports.
func (s *scanner) typeRef(expr ast.Expr) (decl.TypeRef, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		if predeclared[e.Name] {
			return decl.Named("", e.Name), nil
		}
		return decl.Named(s.opts.SourcePackage, e.Name), nil
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		if !ok {
			return decl.TypeRef{}, errors.NotValidf("selector type %s", e.Sel.Name)
		}
		p, ok := s.imports[x.Name]
		if !ok {
			return decl.TypeRef{}, errors.NotFoundf("import for %s.%s", x.Name, e.Sel.Name)
		}
		return decl.Named(p, e.Sel.Name), nil
	case *ast.StarExpr:
		elem, err := s.typeRef(e.X)
		if err != nil {
			return decl.TypeRef{}, err
		}
		return decl.Pointer(elem), nil
	case *ast.ArrayType:
		if e.Len != nil {
			return decl.TypeRef{}, errors.NotSupportedf("array types")
		}
		elem, err := s.typeRef(e.Elt)
		if err != nil {
			return decl.TypeRef{}, err
		}
		return decl.Slice(elem), nil
	case *ast.Ellipsis:
		elem, err := s.typeRef(e.Elt)
		if err != nil {
			return decl.TypeRef{}, err
		}
		return decl.Slice(elem), nil
	case *ast.MapType:
		key, err := s.typeRef(e.Key)
		if err != nil {
			return decl.TypeRef{}, err
		}
		elem, err := s.typeRef(e.Value)
		if err != nil {
			return decl.TypeRef{}, err
		}
		return decl.Map(key, elem), nil
	case *ast.IndexExpr:
		return s.instance(e.X, e.Index)
	case *ast.IndexListExpr:
		return s.instance(e.X, e.Indices...)
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return decl.Any, nil
		}
		return decl.TypeRef{}, errors.NotSupportedf("interface literal types")
	case *ast.ParenExpr:
		return s.typeRef(e.X)
	}
	return decl.TypeRef{}, errors.NotSupportedf("type expression %T", expr)
}

func (s *scanner) instance(base ast.Expr, args ...ast.Expr) (decl.TypeRef, error) {
	t, err := s.typeRef(base)
	if err != nil {
		return decl.TypeRef{}, err
	}
	if t.Kind != decl.KindNamed {
		return decl.TypeRef{}, errors.NotValidf("type arguments on %s", t)
	}
	for _, a := range args {
		arg, err := s.typeRef(a)
		if err != nil {
			return decl.TypeRef{}, err
		}
		t.Args = append(t.Args, arg)
	}
	return t, nil
}
