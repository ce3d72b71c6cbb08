package java

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed jdk.toml
var jdkCatalog []byte

// Catalog holds class signatures that are not declared in analyzed
// sources, normally a subset of the JDK. It is immutable once loaded.
type Catalog struct {
	classes map[string]*classInfo
}

type catalogFile struct {
	Classes []catalogClass `toml:"class"`
}

type catalogClass struct {
	Name         string   `toml:"name"`
	TypeParams   []string `toml:"type_params"`
	Interface    bool     `toml:"interface"`
	Supers       []string `toml:"supers"`
	Fields       []string `toml:"fields"`
	Constructors []string `toml:"constructors"`
	Methods      []string `toml:"methods"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded JDK catalog
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(jdkCatalog)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog parses a TOML catalog. Each method is one signature line:
//
//	static <T> List<T> of(T... elements)
//
// and each constructor a parameter list such as "(int initialCapacity)".
func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	cat := &Catalog{classes: make(map[string]*classInfo, len(file.Classes))}
	for _, cc := range file.Classes {
		c, err := cc.build()
		if err != nil {
			return nil, fmt.Errorf("catalog class %s: %w", cc.Name, err)
		}
		cat.classes[c.name] = c
	}
	return cat, nil
}

// Has reports whether the catalog describes the named class
func (c *Catalog) Has(name string) bool {
	_, ok := c.classes[name]
	return ok
}

func (cc catalogClass) build() (*classInfo, error) {
	if cc.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	c := newClassInfo(cc.Name)
	c.typeParams = cc.TypeParams
	c.iface = cc.Interface
	vars := varSet(cc.TypeParams, nil)

	for _, s := range cc.Supers {
		t, err := parseTypeString(s, vars)
		if err != nil {
			return nil, err
		}
		c.supers = append(c.supers, t)
	}

	for _, f := range cc.Fields {
		static := false
		if rest, ok := strings.CutPrefix(f, "static "); ok {
			static, f = true, rest
		}
		typ, name, err := splitDeclaration(f, vars)
		if err != nil {
			return nil, err
		}
		c.fields[name] = fieldInfo{typ: typ, static: static}
	}

	for _, sig := range cc.Constructors {
		m, err := parseSignature(sig, cc.TypeParams, true)
		if err != nil {
			return nil, err
		}
		m.name = c.name
		c.addMethod(m)
	}
	for _, sig := range cc.Methods {
		m, err := parseSignature(sig, cc.TypeParams, false)
		if err != nil {
			return nil, err
		}
		c.addMethod(m)
	}
	return c, nil
}

func varSet(a, b []string) map[string]bool {
	m := make(map[string]bool, len(a)+len(b))
	for _, v := range a {
		m[v] = true
	}
	for _, v := range b {
		m[v] = true
	}
	return m
}

// parseSignature parses "[static] [<T, U>] Ret name(params)" or, for
// constructors, "[<T>] (params)".
func parseSignature(sig string, classVars []string, ctor bool) (*methodInfo, error) {
	m := &methodInfo{ctor: ctor}
	rest := strings.TrimSpace(sig)
	if r, ok := strings.CutPrefix(rest, "static "); ok {
		m.static, rest = true, strings.TrimSpace(r)
	}

	if strings.HasPrefix(rest, "<") {
		end := matchingAngle(rest)
		if end < 0 {
			return nil, fmt.Errorf("unbalanced type parameters in %q", sig)
		}
		for _, tp := range splitTopLevel(rest[1:end]) {
			name, _, _ := strings.Cut(tp, " ")
			m.typeParams = append(m.typeParams, name)
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	vars := varSet(classVars, m.typeParams)

	open := strings.IndexByte(rest, '(')
	closing := strings.LastIndexByte(rest, ')')
	if open < 0 || closing < open {
		return nil, fmt.Errorf("missing parameter list in %q", sig)
	}

	if !ctor {
		head := strings.TrimSpace(rest[:open])
		sp := lastTopLevelSpace(head)
		if sp < 0 {
			return nil, fmt.Errorf("missing return type in %q", sig)
		}
		ret, err := parseTypeString(head[:sp], vars)
		if err != nil {
			return nil, err
		}
		m.ret = ret
		m.name = strings.TrimSpace(head[sp+1:])
	}

	for _, p := range splitTopLevel(rest[open+1 : closing]) {
		decl, variadic := p, strings.Contains(p, "...")
		if variadic {
			decl = strings.Replace(p, "...", " ", 1)
		}
		typ, name, err := splitDeclaration(decl, vars)
		if err != nil {
			return nil, err
		}
		if variadic {
			typ = ArrayOf(typ)
		}
		m.params = append(m.params, paramInfo{name: name, typ: typ, variadic: variadic})
	}
	return m, nil
}

// splitDeclaration splits "Type name" at the last top-level space
func splitDeclaration(decl string, vars map[string]bool) (*Type, string, error) {
	decl = strings.TrimSpace(decl)
	sp := lastTopLevelSpace(decl)
	if sp < 0 {
		return nil, "", fmt.Errorf("expected type and name in %q", decl)
	}
	typ, err := parseTypeString(decl[:sp], vars)
	if err != nil {
		return nil, "", err
	}
	return typ, strings.TrimSpace(decl[sp+1:]), nil
}

func lastTopLevelSpace(s string) int {
	depth := 0
	last := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ' ':
			if depth == 0 {
				last = i
			}
		}
	}
	return last
}

func matchingAngle(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
