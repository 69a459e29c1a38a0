package passes

import (
	"strings"
	"unicode"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/pipeline"
)

// FlattenModulesName is the name of the pass created by FlattenModules.
const FlattenModulesName = "flatten-modules"

// CanonicalName converts a module name to canonical form used in flattened rule names:
// words (split at case changes and non-alphanumeric chars) joined with underscores.
// Words are lowercased, all-uppercase words (acronyms) are kept as is: "FooBar" -> "foo_bar", "HTTPServer" -> "HTTP_server".
func CanonicalName(name string) string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(word) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		word = append(word, r)
	}
	flush()

	if len(words) == 0 {
		return "_"
	}
	for i, w := range words {
		if w != strings.ToUpper(w) {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, "_")
}

type scope struct {
	parent  *scope
	prefix  string
	mode    int
	rules   map[string]bool
	modules map[string]*scope
}

func (s *scope) lookup(path []string) *scope {
	for _, name := range path[:len(path)-1] {
		s = s.modules[name]
		if s == nil {
			return nil
		}
	}
	if s.rules[path[len(path)-1]] {
		return s
	}
	return nil
}

// resolve returns flat name of referenced rule, looking from the innermost scope outwards.
// Unresolved names are returned as is.
func (s *scope) resolve(name string) string {
	path := strings.Split(name, ".")
	for sc := s; sc != nil; sc = sc.parent {
		if target := sc.lookup(path); target != nil {
			return target.prefix + path[len(path)-1]
		}
	}
	return name
}

type flattener struct {
	nextMode int
	scopes   map[*grammar.Module]*scope
	defined  map[string]*grammar.Rule
	out      []grammar.Element
	errs     mage.ErrorList
}

// Flatten moves rules and examples of all nested modules to the top level.
// Module rules get names prefixed with canonical names of enclosing modules ("A.x" becomes "A_x")
// and mode numbers: 0 for the top level and increasing numbers for modules in depth-first order.
// References are retargeted to flat names, examples too.
func Flatten(g *grammar.Grammar) (*grammar.Grammar, error) {
	f := &flattener{
		scopes:  make(map[*grammar.Module]*scope),
		defined: make(map[string]*grammar.Rule),
	}
	root := f.scan(g.Elements, nil, "")
	f.emit(g.Elements, root)
	if e := f.errs.Err(); e != nil {
		return nil, e
	}
	return g.WithElements(f.out), nil
}

func (f *flattener) scan(es []grammar.Element, parent *scope, prefix string) *scope {
	s := &scope{
		parent:  parent,
		prefix:  prefix,
		mode:    f.nextMode,
		rules:   make(map[string]bool),
		modules: make(map[string]*scope),
	}
	f.nextMode++

	for _, el := range es {
		switch x := el.(type) {
		case *grammar.Rule:
			s.rules[x.Name] = true
		case *grammar.Module:
			if s.modules[x.Name] != nil {
				f.errs = append(f.errs, posError(x.Pos, DuplicateRuleError, "module %q is already defined", x.Name))
				continue
			}
			ms := f.scan(x.Elements, s, prefix+CanonicalName(x.Name)+"_")
			s.modules[x.Name] = ms
			f.scopes[x] = ms
		}
	}
	return s
}

func (f *flattener) emit(es []grammar.Element, s *scope) {
	retarget := func(e grammar.Expr) grammar.Expr {
		if ref, is := e.(*grammar.Ref); is {
			return ref.WithName(s.resolve(ref.Name))
		}
		return e
	}

	for _, el := range es {
		switch x := el.(type) {
		case *grammar.Rule:
			name := s.prefix + x.Name
			if prev := f.defined[name]; prev != nil {
				f.errs = append(f.errs, posError(x.Pos, DuplicateRuleError, "rule %q clashes with previously defined rule %q", name, prev.Name))
				continue
			}

			f.defined[name] = x
			r := x.WithName(name)
			if s.parent != nil {
				r = r.WithMode(s.mode)
			}
			if r.Expr != nil {
				r = r.WithExpr(grammar.Rewrite(r.Expr, retarget))
			}
			f.out = append(f.out, r)

		case *grammar.Example:
			f.out = append(f.out, x.WithRule(s.resolve(x.Rule)))

		case *grammar.Module:
			if ms := f.scopes[x]; ms != nil {
				f.emit(x.Elements, ms)
			}
		}
	}
}

// FlattenModules creates the module flattening pass.
func FlattenModules() pipeline.Pass {
	return pipeline.Pass{
		Name:        FlattenModulesName,
		Description: "moves module rules to the top level with mangled names",
		Run:         Flatten,
	}
}
