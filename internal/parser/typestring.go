package parser

import (
	"go/ast"
	"go/scanner"
	"go/token"
	gotypes "go/types"
	"strings"
)

func exprString(expr ast.Expr) string {
	return gotypes.ExprString(expr)
}

// requalify rewrites package qualifier from to to in the type expression s
func requalify(s, from, to string) string {
	if from == "" || from == to || !strings.Contains(s, from+".") {
		return s
	}

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(s))

	var sc scanner.Scanner
	sc.Init(file, []byte(s), nil, 0)

	var b strings.Builder
	last := 0
	pendingOffset := -1
	for {
		pos, tok, lit := sc.Scan()
		if tok == token.EOF {
			break
		}
		offset := file.Offset(pos)
		if tok == token.PERIOD && pendingOffset >= 0 {
			b.WriteString(s[last:pendingOffset])
			b.WriteString(to)
			last = pendingOffset + len(from)
		}
		pendingOffset = -1
		if tok == token.IDENT && lit == from {
			pendingOffset = offset
		}
	}
	b.WriteString(s[last:])
	return b.String()
}
