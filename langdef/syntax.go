package langdef

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type fileAST struct {
	Elements []*elementAST `@@*`
}

type elementAST struct {
	Module  *moduleAST  `  @@`
	Example *exampleAST `| @@`
	Rule    *ruleAST    `| @@`
}

type moduleAST struct {
	Pos      lexer.Position
	Name     string        `"mod" @Ident "{"`
	Elements []*elementAST `@@* "}"`
}

type exampleAST struct {
	Pos   lexer.Position
	Rule  string `"test" @Ident`
	Fail  bool   `@"!"?`
	Input string `@String ";"`
}

type ruleAST struct {
	Pos        lexer.Position
	Decorators []*decoratorAST `@@*`
	Modifiers  []string        `@("pub" | "token" | "keyword" | "extern")*`
	Name       string          `@Ident`
	Type       string          `( "->" @Ident )?`
	Expr       *exprAST        `( "=" @@ )? ";"`
}

type decoratorAST struct {
	Name string   `"@" @Ident`
	Args []string `( "(" ( @(String | Ident | Int) ( "," @(String | Ident | Int) )* )? ")" )?`
}

type exprAST struct {
	Alts []*seqAST `@@ ( "|" @@ )*`
}

type seqAST struct {
	Items []*listAST `@@+`
}

type listAST struct {
	Elem *postfixAST `@@`
	Sep  *postfixAST `( "%" @@ )?`
}

type postfixAST struct {
	Prefix   *prefixAST `@@`
	Op       string     `( @("*" | "+" | "?")`
	Min      *int       `  | "{" @Int`
	HasComma bool       `    @","?`
	Max      *int       `    @Int? "}" )?`
}

type prefixAST struct {
	Op      string      `@("&" | "!" | "~")?`
	Primary *primaryAST `@@`
}

type primaryAST struct {
	Pos     lexer.Position
	Ref     string   `  @Ident`
	Str     *string  `| @String`
	Charset *string  `| @Charset`
	Any     bool     `| @"."`
	Open    bool     `| ( @"("`
	Group   *exprAST `    @@? ")" )`
}

var mageLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "String", Pattern: `"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'`},
	{Name: "Charset", Pattern: `\[(?:[^\]\\]|\\.)*\]`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`},
	{Name: "Punct", Pattern: `->|[=;|%*+?{}(),.&!~@]`},
})

var mageParser = participle.MustBuild[fileAST](
	participle.Lexer(mageLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)
