package decl

import (
	"strings"

	"github.com/juju/errors"
)

// Kind classifies a TypeRef.
type Kind string

const (
	KindNamed   Kind = "named"
	KindPointer Kind = "pointer"
	KindSlice   Kind = "slice"
	KindMap     Kind = "map"
)

// TypeRef is a reference to a Go type as it would appear in generated code.
//
// Its canonical text form spells named types with their full import path:
// "[]*github.com/acme/models.User", "map[string]int",
// "github.com/acme/box.Box[string]". Two references denote the same type
// when their canonical forms are equal.
type TypeRef struct {
	Kind Kind      `json:"-"`
	Path string    `json:"-"` // import path; empty for predeclared and unqualified types
	Name string    `json:"-"`
	Args []TypeRef `json:"-"` // type arguments of a generic named type
	Key  *TypeRef  `json:"-"` // map key
	Elem *TypeRef  `json:"-"` // pointer, slice and map element
}

// Any is the universal "any object" result type.
var Any = Named("", "any")

// Named returns a reference to the named type path.name.
func Named(path, name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindNamed, Path: path, Name: name, Args: args}
}

// Pointer returns a reference to *elem.
func Pointer(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindPointer, Elem: &elem}
}

// Slice returns a reference to []elem.
func Slice(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindSlice, Elem: &elem}
}

// Map returns a reference to map[key]elem.
func Map(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Key: &key, Elem: &elem}
}

// IsZero reports whether t references nothing at all.
func (t TypeRef) IsZero() bool {
	return t.Kind == "" && t.Name == "" && t.Path == "" && t.Elem == nil
}

// Equal reports whether t and other denote the same type.
func (t TypeRef) Equal(other TypeRef) bool {
	return t.String() == other.String()
}

// String returns the canonical text form of t.
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case KindPointer:
		b.WriteString("*")
		writeRef(b, t.Elem)
	case KindSlice:
		b.WriteString("[]")
		writeRef(b, t.Elem)
	case KindMap:
		b.WriteString("map[")
		writeRef(b, t.Key)
		b.WriteString("]")
		writeRef(b, t.Elem)
	default:
		if t.Path != "" {
			b.WriteString(t.Path)
			b.WriteString(".")
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteString("[")
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteString("]")
		}
	}
}

func writeRef(b *strings.Builder, t *TypeRef) {
	if t == nil {
		b.WriteString("?")
		return
	}
	t.write(b)
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeRef) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType parses the canonical text form of a type reference.
func ParseType(s string) (TypeRef, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return TypeRef{}, errors.Annotatef(err, "parsing type %q", s)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeRef{}, errors.NotValidf("type %q: unexpected %q", s, p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) consume(prefix string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *typeParser) parse() (TypeRef, error) {
	switch {
	case p.consume("*"):
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return Pointer(elem), nil
	case p.consume("[]"):
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return Slice(elem), nil
	case p.consume("map["):
		key, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		if !p.consume("]") {
			return TypeRef{}, errors.NotValidf("map key at offset %d", p.pos)
		}
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return Map(key, elem), nil
	}
	return p.named()
}

func (p *typeParser) named() (TypeRef, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("[], \t", rune(p.src[p.pos])) {
		p.pos++
	}
	qualified := p.src[start:p.pos]
	if qualified == "" {
		return TypeRef{}, errors.NotValidf("empty type name at offset %d", start)
	}

	t := TypeRef{Kind: KindNamed, Name: qualified}
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		t.Path, t.Name = qualified[:i], qualified[i+1:]
		if t.Path == "" || t.Name == "" {
			return TypeRef{}, errors.NotValidf("qualified name %q", qualified)
		}
	}

	if !p.consume("[") {
		return t, nil
	}
	for {
		arg, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		t.Args = append(t.Args, arg)
		if p.consume(",") {
			continue
		}
		if p.consume("]") {
			return t, nil
		}
		return TypeRef{}, errors.NotValidf("type arguments of %q", qualified)
	}
}
