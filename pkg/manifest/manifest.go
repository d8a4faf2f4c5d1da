// Package manifest reads declaration descriptors from HCL manifests.
//
//	group "UserAPI" {
//	  scope = "user"
//
//	  method "getProfile" {
//	    param "cb" {
//	      type = "github.com/chazu/rpcgen/pkg/rpc.RequestCallback[*github.com/acme/models.Profile]"
//	    }
//	  }
//	}
//
//	method "ping" {
//	  qualified    = "system.ping"
//	  result       = "string"
//	  not_bindable = true
//	  defaults     = { retries = "3" }
//	}
//
// Type strings use the canonical form of decl.ParseType.
package manifest

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/juju/errors"

	"github.com/chazu/rpcgen/pkg/decl"
)

// Extension of manifest files.
const Extension = ".hcl"

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "group", LabelNames: []string{"name"}},
		{Type: "method", LabelNames: []string{"name"}},
	},
}

var groupSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "scope"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "method", LabelNames: []string{"name"}},
	},
}

// methodBody is the content of a method block.
type methodBody struct {
	Kind        *string           `hcl:"kind,optional"`
	Scope       *string           `hcl:"scope,optional"`
	Qualified   *string           `hcl:"qualified,optional"`
	Result      *string           `hcl:"result,optional"`
	NotBindable *bool             `hcl:"not_bindable,optional"`
	Defaults    map[string]string `hcl:"defaults,optional"`
	Params      []paramBlock      `hcl:"param,block"`
}

type paramBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// Parse reads the manifest in src. filename is used for positions and
// error messages only. Only a manifest whose structure cannot be read is an
// error. A block whose content is bad is returned with problems recorded on
// it.
func Parse(filename string, src []byte) (decl.Set, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return decl.Set{}, errors.Annotatef(diags, "parsing %s", filename)
	}
	content, diags := f.Body.Content(rootSchema)
	if diags.HasErrors() {
		return decl.Set{}, errors.Annotatef(diags, "decoding %s", filename)
	}

	var set decl.Set
	for _, block := range content.Blocks {
		switch block.Type {
		case "group":
			set.Groups = append(set.Groups, decodeGroup(block))
		case "method":
			set.Declarations = append(set.Declarations, decodeMethod(block))
		}
	}
	return set, nil
}

func decodeGroup(block *hcl.Block) decl.Group {
	g := decl.Group{Name: block.Labels[0], Pos: position(block.DefRange)}
	content, diags := block.Body.Content(groupSchema)
	g.Problems = append(g.Problems, problems(diags, g.Pos)...)
	if content == nil {
		return g
	}
	if attr, ok := content.Attributes["scope"]; ok {
		var scope string
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &scope); diags.HasErrors() {
			g.Problems = append(g.Problems, problems(diags, g.Pos)...)
		} else {
			g.Scope = &scope
		}
	}
	for _, mb := range content.Blocks {
		g.Declarations = append(g.Declarations, decodeMethod(mb))
	}
	return g
}

func decodeMethod(block *hcl.Block) decl.Declaration {
	d := decl.Declaration{Name: block.Labels[0], Kind: decl.KindMethod, Pos: position(block.DefRange)}

	var body methodBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		d.Problems = problems(diags, d.Pos)
		return d
	}
	if body.Kind != nil {
		d.Kind = *body.Kind
	}
	d.Scope = body.Scope
	d.Method = body.Qualified
	if body.NotBindable != nil {
		d.NotBindable = *body.NotBindable
	}
	if body.Result != nil {
		if t, err := decl.ParseType(*body.Result); err != nil {
			d.Problemf(d.Pos, "result: %v", err)
		} else {
			d.Result = &t
		}
	}
	for _, p := range body.Params {
		t, err := decl.ParseType(p.Type)
		if err != nil {
			d.Problemf(d.Pos, "param %q: %v", p.Name, err)
			continue
		}
		d.Params = append(d.Params, decl.Param{Name: p.Name, Type: t})
	}

	keys := make([]string, 0, len(body.Defaults))
	for k := range body.Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Defaults = append(d.Defaults, decl.DefaultParameter{Key: k, Value: body.Defaults[k]})
	}
	return d
}

// problems converts the error diagnostics of diags. Diagnostics without a
// subject range are placed at fallback.
func problems(diags hcl.Diagnostics, fallback decl.Position) []decl.Problem {
	var out []decl.Problem
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		p := decl.Problem{Message: d.Summary, Pos: fallback}
		if d.Detail != "" {
			p.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			p.Pos = position(*d.Subject)
		}
		out = append(out, p)
	}
	return out
}

func position(r hcl.Range) decl.Position {
	return decl.Position{File: r.Filename, Line: r.Start.Line, Column: r.Start.Column}
}
