// Package scan reads declaration descriptors out of Go source.
//
// Endpoints are declared with line directives in doc comments:
//
//	//rpc:scope user
//	type UserAPI interface {
//		GetProfile(id string, cb rpc.RequestCallback[*models.Profile])
//
//		//rpc:method system.ping
//		//rpc:result string
//		Ping()
//	}
//
// An interface becomes a group and its methods become member declarations.
// Top-level functions carrying directives become standalone declarations.
package scan

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/chazu/rpcgen/pkg/decl"
)

// Directive prefix recognised in doc comments.
const Prefix = "//rpc:"

// Options tune scanning.
type Options struct {
	// SourcePackage is the import path of the scanned package. It qualifies
	// types declared in that package. When empty, such types are left
	// unqualified.
	SourcePackage string
}

// Source parses one Go file and returns the declarations it carries. Only a
// file that does not parse is an error. Directives that cannot be read are
// recorded as problems on the declaration carrying them.
func Source(filename string, src []byte, opts Options) (decl.Set, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return decl.Set{}, errors.Annotatef(err, "parsing %s", filename)
	}
	return File(fset, f, opts), nil
}

// File extracts the declarations of an already parsed file.
func File(fset *token.FileSet, f *ast.File, opts Options) decl.Set {
	s := &scanner{
		fset:    fset,
		opts:    opts,
		imports: imports(f),
	}
	var set decl.Set
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				if g, ok := s.group(ts.Name, doc, iface); ok {
					set.Groups = append(set.Groups, g)
				}
			}
		case *ast.FuncDecl:
			if d.Recv != nil || !hasDirectives(d.Doc) {
				continue
			}
			set.Declarations = append(set.Declarations, s.declaration(d.Name, d.Doc, d.Type))
		}
	}
	return set
}

type scanner struct {
	fset    *token.FileSet
	opts    Options
	imports map[string]string // package name → import path
}

func (s *scanner) pos(p token.Pos) decl.Position {
	position := s.fset.Position(p)
	return decl.Position{File: position.Filename, Line: position.Line, Column: position.Column}
}

// group returns the group for an interface. Interfaces without any
// directive, on themselves or their members, are not reported.
func (s *scanner) group(name *ast.Ident, doc *ast.CommentGroup, iface *ast.InterfaceType) (decl.Group, bool) {
	g := decl.Group{Name: name.Name, Pos: s.pos(name.Pos())}

	ds, problems := s.directives(doc)
	g.Problems = problems
	found := len(problems) > 0
	for _, d := range ds {
		found = true
		if d.name != "scope" {
			g.Problemf(d.pos, "directive %q is not allowed on an interface", Prefix+d.name)
			continue
		}
		g.Scope = decl.String(d.arg)
	}

	for _, field := range iface.Methods.List {
		found = found || hasDirectives(field.Doc)
		if ft, ok := field.Type.(*ast.FuncType); ok {
			for _, n := range field.Names {
				g.Declarations = append(g.Declarations, s.declaration(n, field.Doc, ft))
			}
			continue
		}
		dc := decl.Declaration{
			Name: embeddedName(field.Type),
			Kind: decl.KindEmbedded,
			Pos:  s.pos(field.Type.Pos()),
		}
		s.apply(&dc, field.Doc)
		g.Declarations = append(g.Declarations, dc)
	}
	return g, found
}

func (s *scanner) declaration(name *ast.Ident, doc *ast.CommentGroup, ft *ast.FuncType) decl.Declaration {
	dc := decl.Declaration{Name: name.Name, Kind: decl.KindMethod, Pos: s.pos(name.Pos())}
	if ft.Params != nil {
		for _, field := range ft.Params.List {
			t, err := s.typeRef(field.Type)
			if err != nil {
				// Only the request callback matters here, and it always
				// resolves, so parameters of other shapes are skipped.
				continue
			}
			if len(field.Names) == 0 {
				dc.Params = append(dc.Params, decl.Param{Type: t})
			}
			for _, n := range field.Names {
				dc.Params = append(dc.Params, decl.Param{Name: n.Name, Type: t})
			}
		}
	}
	s.apply(&dc, doc)
	return dc
}

// apply copies the directives of doc onto dc. Directives that cannot be
// read become problems of dc.
func (s *scanner) apply(dc *decl.Declaration, doc *ast.CommentGroup) {
	ds, problems := s.directives(doc)
	dc.Problems = append(dc.Problems, problems...)
	for _, d := range ds {
		switch d.name {
		case "scope":
			dc.Scope = decl.String(d.arg)
		case "method":
			dc.Method = decl.String(d.arg)
		case "result":
			expr, err := parser.ParseExpr(d.arg)
			if err != nil {
				dc.Problemf(d.pos, "result type %q does not parse", d.arg)
				continue
			}
			t, err := s.typeRef(expr)
			if err != nil {
				dc.Problemf(d.pos, "result type %q: %v", d.arg, err)
				continue
			}
			dc.Result = &t
		case "notbindable":
			dc.NotBindable = true
		case "default":
			key, value, ok := strings.Cut(d.arg, "=")
			if !ok || strings.TrimSpace(key) == "" {
				dc.Problemf(d.pos, "default %q, want key=value", d.arg)
				continue
			}
			dc.Defaults = append(dc.Defaults, decl.DefaultParameter{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})
		}
	}
}

type directive struct {
	name string
	arg  string
	pos  decl.Position
}

var directiveNames = map[string]bool{
	"scope":       true,
	"method":      true,
	"result":      true,
	"notbindable": true,
	"default":     true,
}

// directives returns the well-formed directives of doc, and a problem for
// each one that is unknown or lacks its argument.
func (s *scanner) directives(doc *ast.CommentGroup) ([]directive, []decl.Problem) {
	if doc == nil {
		return nil, nil
	}
	var out []directive
	var problems []decl.Problem
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}
		name, arg, _ := strings.Cut(strings.TrimPrefix(c.Text, Prefix), " ")
		d := directive{name: name, arg: strings.TrimSpace(arg), pos: s.pos(c.Pos())}
		switch {
		case !directiveNames[d.name]:
			problems = append(problems, decl.Problem{Message: "unknown directive " + strconv.Quote(Prefix+d.name), Pos: d.pos})
		case d.arg == "" && (d.name == "method" || d.name == "result" || d.name == "default"):
			problems = append(problems, decl.Problem{Message: "directive " + strconv.Quote(Prefix+d.name) + " without argument", Pos: d.pos})
		default:
			out = append(out, d)
		}
	}
	return out, problems
}

func hasDirectives(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, Prefix) {
			return true
		}
	}
	return false
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			return x.Name + "." + e.Sel.Name
		}
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	}
	return "embedded"
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// imports maps the package names a file can refer to onto import paths.
func imports(f *ast.File) map[string]string {
	out := map[string]string{}
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name != "_" && spec.Name.Name != "." {
				out[spec.Name.Name] = p
			}
			continue
		}
		out[packageName(p)] = p
	}
	return out
}

// packageName guesses the name a package is imported under: the last path
// element, without a major version element or a ".vN" suffix.
func packageName(importPath string) string {
	name := path.Base(importPath)
	if majorVersion.MatchString(name) {
		name = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "")
}
