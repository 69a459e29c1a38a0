// Package gen converts flattened canonical grammars to output files.
//
// Each target is a named generator producing one or more files. Available targets are:
//   - json: grammar document (see Document);
//   - schema: JSON Schema of the grammar document;
//   - ebnf: EBNF production list, verified with golang.org/x/exp/ebnf;
//   - go: Go source with node kinds, syntax node types, visitor, and lexer token patterns.
package gen

import (
	"sort"

	"github.com/ava12/mage/grammar"
)

// DefaultPackage is the Go package name used when Options.Package is empty.
const DefaultPackage = "syntax"

// DefaultName is the base name of output files used when Options.Name is empty.
const DefaultName = "grammar"

// Options control generated output.
type Options struct {
	// Prefix is prepended to generated identifiers (EBNF productions, Go types and constants).
	Prefix string

	// ParentRefs adds Parent field to generated Go node types.
	ParentRefs bool

	// Debug adds rule classes and bodies as comments to generated sources.
	Debug bool

	// Package is the name of generated Go package.
	Package string

	// Name is the base name of output files.
	Name string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	return o
}

// Files maps output file names to contents.
type Files map[string][]byte

// Names returns sorted file names.
func (fs Files) Names() []string {
	res := make([]string, 0, len(fs))
	for name := range fs {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// GenerateFunc generates output files for flattened grammar.
type GenerateFunc func(g *grammar.Grammar, opts Options) (Files, error)

// Target is a named generator.
type Target struct {
	Name        string
	Description string
	Generate    GenerateFunc
}

var targets = []Target{
	{"json", "grammar document in JSON format", generateJSON},
	{"schema", "JSON Schema of grammar document", generateSchema},
	{"ebnf", "EBNF productions", generateEBNF},
	{"go", "Go node types, visitor, and token patterns", generateGo},
}

// Targets returns all known targets.
func Targets() []Target {
	return append([]Target(nil), targets...)
}

// FindTarget returns target by name.
func FindTarget(name string) (Target, bool) {
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// Generate runs named target generator for flattened grammar.
func Generate(g *grammar.Grammar, target string, opts Options) (Files, error) {
	t, found := FindTarget(target)
	if !found {
		return nil, unknownTargetError(target)
	}
	if g.HasModules() {
		return nil, notFlattenedError(target)
	}
	opts = opts.withDefaults()
	if opts.Prefix != "" && !grammar.IsIdentifier(opts.Prefix) {
		return nil, invalidNameError("prefix", opts.Prefix)
	}
	return t.Generate(g, opts)
}

// nameTable maps rule names to output identifiers, detecting collisions.
type nameTable struct {
	target string
	owners map[string]string
	names  map[string]string
}

func newNameTable(target string, reserved ...string) *nameTable {
	nt := &nameTable{target: target, owners: make(map[string]string), names: make(map[string]string)}
	for _, name := range reserved {
		nt.owners[name] = "(" + name + ")"
	}
	return nt
}

func (nt *nameTable) reserve(rule, name string) error {
	if owner, has := nt.owners[name]; has {
		return nameCollisionError(nt.target, name, owner, rule)
	}
	nt.owners[name] = rule
	return nil
}

func (nt *nameTable) add(rule, name string) error {
	e := nt.reserve(rule, name)
	if e == nil {
		nt.names[rule] = name
	}
	return e
}

func (nt *nameTable) name(rule string) string {
	if name, has := nt.names[rule]; has {
		return name
	}
	return rule
}
