package mage_test

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ava12/mage/eval"
	"github.com/ava12/mage/langdef"
	"github.com/ava12/mage/passes"
	"github.com/ava12/mage/source"
	"github.com/ava12/mage/tree"
)

func Example() {
	const src = `
ident = [a-z]+;
num = [0-9]+;
pub call = ident '(' args? ')';
pub args = arg % ',';
pub arg = call | ident | num;

test call "f(x,g(),1)";
test call ! "f(";
`
	g, e := langdef.ParseString("example grammar", src)
	if e == nil {
		g, e = passes.Standard("", logr.Discard()).Run(g)
	}
	if e != nil {
		fmt.Println(e)
		return
	}

	ev, e := eval.New(g, eval.Options{})
	if e != nil {
		panic(e)
	}

	res, _ := ev.Accepts("call", source.NewString("input", "f(x,g(),1)"))
	fmt.Println(tree.Format(res.Tree[0]))

	res, _ = ev.Accepts("call", source.NewString("input", "f(x,"))
	fmt.Println(res.Err())

	report, e := eval.RunExamples(g, eval.Options{}, logr.Discard())
	if e != nil {
		panic(e)
	}
	fmt.Println(report.Passed, report.Failed)

	// Output:
	// (call ident:"f" (args ident:"x" (call ident:"g") num:"1"))
	// expected ident or num in input at line 1 col 5
	// 2 0
}
