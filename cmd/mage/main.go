/*
mage is a console utility checking, testing, and translating Mage grammar files.
Usage is

	mage [--debug] [--prefix <prefix>] [--max-depth <n>] <command> [<flags>] <file>

Commands are:

	check <file> [--print]: parse grammar, run the standard pass pipeline, optionally print resulting grammar;
	test <file>: run examples embedded in grammar file;
	lex <file> [--input <text>]: split text (or standard input) into tokens of the grammar;
	generate <file> [--target <name>] [--out <dir>] [--package <name>] [--parent-refs]: write generated files;
	passes: list available passes.

--debug (or MAGE_DEBUG environment variable) enables verbose logging to stderr,
--prefix (or MAGE_PREFIX) adds prefix to all rule names, magic rules included.
Generated identifiers are derived from prefixed rule names.
*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/ava12/mage/eval"
	"github.com/ava12/mage/gen"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/langdef"
	"github.com/ava12/mage/lexer"
	"github.com/ava12/mage/passes"
	"github.com/ava12/mage/pipeline"
	"github.com/ava12/mage/source"
)

// Globals holds flags shared by all commands.
type Globals struct {
	Debug    bool   `help:"Log passes and examples in detail." env:"MAGE_DEBUG"`
	Prefix   string `help:"Prefix added to all rule names." env:"MAGE_PREFIX"`
	MaxDepth int    `help:"Evaluator recursion limit." default:"1000"`

	log logr.Logger `kong:"-"`
}

func (g *Globals) load(file string) (*grammar.Grammar, error) {
	var gr *grammar.Grammar
	src, e := os.ReadFile(file)
	if e == nil {
		gr, e = langdef.ParseBytes(file, src)
	}
	if e == nil {
		gr, e = passes.Standard(g.Prefix, g.log).Run(gr)
	}
	return gr, e
}

type CLI struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Parse and validate grammar file."`
	Test     TestCmd     `cmd:"" help:"Run examples embedded in grammar file."`
	Lex      LexCmd      `cmd:"" help:"Split text into tokens."`
	Generate GenerateCmd `cmd:"" help:"Generate output files from grammar file."`
	Passes   PassesCmd   `cmd:"" help:"List available passes."`
}

type CheckCmd struct {
	File  string `arg:"" type:"existingfile" help:"Grammar file."`
	Print bool   `help:"Print canonical grammar."`
}

func (c *CheckCmd) Run(g *Globals, out io.Writer) error {
	gr, e := g.load(c.File)
	if e != nil {
		return e
	}

	if c.Print {
		fmt.Fprint(out, gr.String())
	} else {
		fmt.Fprintf(out, "%s: %d rules, %d examples\n", c.File, len(gr.Rules()), len(gr.Examples()))
	}
	return nil
}

type TestCmd struct {
	File string `arg:"" type:"existingfile" help:"Grammar file."`
}

func (c *TestCmd) Run(g *Globals, out io.Writer) error {
	gr, e := g.load(c.File)
	if e != nil {
		return e
	}

	report, e := eval.RunExamples(gr, eval.Options{MaxDepth: g.MaxDepth}, g.log)
	if e != nil {
		return e
	}

	fmt.Fprintf(out, "passed: %d, failed: %d, warnings: %d\n", report.Passed, report.Failed, report.Warnings)
	if !report.OK() {
		return fmt.Errorf("%d of %d examples failed", report.Failed, len(report.Results))
	}
	return nil
}

type LexCmd struct {
	File  string `arg:"" type:"existingfile" help:"Grammar file."`
	Input string `short:"i" help:"Text to split, standard input is read if empty."`
}

func (c *LexCmd) Run(g *Globals, in io.Reader, out io.Writer) error {
	gr, e := g.load(c.File)
	var l *lexer.Lexer
	if e == nil {
		l, e = lexer.Compile(gr)
	}
	if e != nil {
		return e
	}

	text := c.Input
	if text == "" {
		content, e := io.ReadAll(in)
		if e != nil {
			return e
		}
		text = string(content)
	}

	tokens, e := l.Tokenize(source.NewString("input", text))
	for _, t := range tokens {
		fmt.Fprintf(out, "%d:%d %s %q\n", t.Line(), t.Col(), t.TypeName(), t.Text())
	}
	return e
}

type GenerateCmd struct {
	File       string `arg:"" type:"existingfile" help:"Grammar file."`
	Target     string `short:"t" default:"go" help:"Output target: ${targets}."`
	Out        string `short:"o" type:"path" default:"." help:"Output directory."`
	Package    string `short:"p" help:"Go package name, default is output directory name."`
	Name       string `short:"n" help:"Output file base name, default is grammar file name without extension."`
	ParentRefs bool   `help:"Add parent references to generated node types."`
}

func (c *GenerateCmd) Run(g *Globals, out io.Writer) error {
	gr, e := g.load(c.File)
	if e != nil {
		return e
	}

	opts := gen.Options{
		ParentRefs: c.ParentRefs,
		Debug:      g.Debug,
		Package:    c.Package,
		Name:       c.Name,
	}
	if opts.Name == "" {
		base := filepath.Base(c.File)
		opts.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	if opts.Package == "" {
		dir, e := filepath.Abs(c.Out)
		if e != nil {
			return e
		}
		opts.Package = filepath.Base(dir)
	}

	files, e := gen.Generate(gr, c.Target, opts)
	if e != nil {
		return e
	}

	for _, name := range files.Names() {
		path := filepath.Join(c.Out, name)
		e = os.WriteFile(path, files[name], 0o666)
		if e != nil {
			return e
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

type PassesCmd struct{}

func (c *PassesCmd) Run(g *Globals, out io.Writer) error {
	r := passes.Register(pipeline.NewRegistry(), g.log)
	r.Register(passes.AddPrefix(g.Prefix))
	standard := make(map[string]bool)
	for _, name := range passes.StandardNames {
		standard[name] = true
	}

	for _, p := range r.All() {
		mark := " "
		if standard[p.Name] {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-20s %s\n", mark, p.Name, p.Description)
	}
	return nil
}

func targetNames() string {
	var names []string
	for _, t := range gen.Targets() {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func newParser(cli *CLI, in io.Reader, out io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("mage"),
		kong.Description("Mage grammar compiler."),
		kong.UsageOnError(),
		kong.Vars{"targets": targetNames()},
		kong.Bind(&cli.Globals),
		kong.BindTo(in, (*io.Reader)(nil)),
		kong.BindTo(out, (*io.Writer)(nil)),
	)
}

func main() {
	var cli CLI
	parser, e := newParser(&cli, os.Stdin, os.Stdout)
	if e != nil {
		panic(e)
	}

	ctx, e := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(e)

	if cli.Debug {
		stdr.SetVerbosity(1)
	}
	cli.log = stdr.New(log.New(os.Stderr, "", 0))

	parser.FatalIfErrorf(ctx.Run())
}
