package decl

import (
	"encoding/json"
	"io"

	"github.com/juju/errors"
)

// Parse reads a JSON descriptor document from a reader and returns a Set.
func Parse(r io.Reader) (*Set, error) {
	var set Set
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&set); err != nil {
		return nil, errors.Annotate(err, "parsing declarations")
	}
	return &set, nil
}

// ParseBytes parses a JSON descriptor document from a byte slice.
func ParseBytes(data []byte) (*Set, error) {
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, errors.Annotate(err, "parsing declarations")
	}
	return &set, nil
}

// ParseFile parses a JSON descriptor document read from filename. Positions
// that do not name a file are attributed to filename.
func ParseFile(filename string, data []byte) (*Set, error) {
	set, err := ParseBytes(data)
	if err != nil {
		return nil, errors.Annotatef(err, "%s", filename)
	}
	for i := range set.Groups {
		g := &set.Groups[i]
		stampFile(&g.Pos, filename)
		stampProblems(g.Problems, filename)
		for j := range g.Declarations {
			stampDeclaration(&g.Declarations[j], filename)
		}
	}
	for i := range set.Declarations {
		stampDeclaration(&set.Declarations[i], filename)
	}
	return set, nil
}

func stampDeclaration(d *Declaration, filename string) {
	stampFile(&d.Pos, filename)
	stampProblems(d.Problems, filename)
}

func stampProblems(ps []Problem, filename string) {
	for i := range ps {
		stampFile(&ps[i].Pos, filename)
	}
}

func stampFile(p *Position, filename string) {
	if p.File == "" {
		p.File = filename
	}
}
