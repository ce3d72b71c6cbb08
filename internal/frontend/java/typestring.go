package java

import (
	"fmt"
	"strings"
	"unicode"
)

// parseTypeString parses the compact type notation used by the JDK catalog,
// e.g. "Map<K, List<V>>", "int[][]" or "? extends T". Names listed in vars
// are type variables.
func parseTypeString(s string, vars map[string]bool) (*Type, error) {
	p := &typeStringParser{src: s, vars: vars}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q in type %q", p.src[p.pos:], s)
	}
	return t, nil
}

type typeStringParser struct {
	src  string
	pos  int
	vars map[string]bool
}

func (p *typeStringParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeStringParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeStringParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r != '.' && r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	name := p.src[start:p.pos]
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (p *typeStringParser) parseType() (*Type, error) {
	var t *Type
	if p.peek() == '?' {
		p.pos++
		switch p.ident() {
		case "extends":
			bound, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return bound, nil
		case "super", "":
			// lower bounds and bare wildcards accept anything we can check
			if p.peek() != 0 && p.peek() != ',' && p.peek() != '>' {
				if _, err := p.parseType(); err != nil {
					return nil, err
				}
			}
			return TypeVar("?"), nil
		}
		return nil, fmt.Errorf("bad wildcard in %q", p.src)
	}

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected type name in %q at %d", p.src, p.pos)
	}
	switch {
	case primitiveNames[name] || name == "void":
		t = Primitive(name)
	case p.vars[name]:
		t = TypeVar(name)
	default:
		t = Class(name)
	}

	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
			c := p.peek()
			p.pos++
			if c == '>' {
				break
			}
			if c != ',' {
				return nil, fmt.Errorf("expected , or > in %q", p.src)
			}
		}
	}

	for p.peek() == '[' {
		p.pos++
		if p.peek() != ']' {
			return nil, fmt.Errorf("expected ] in %q", p.src)
		}
		p.pos++
		t = ArrayOf(t)
	}
	return t, nil
}

// splitTopLevel splits s at commas that are not nested in angle brackets
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
