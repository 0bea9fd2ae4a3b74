package ir

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Inspect traverses n depth-first, calling fn for each node. If fn returns
// false the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Mem:
		Inspect(n.Addr, fn)
	case *BinOp:
		Inspect(n.X, fn)
		Inspect(n.Y, fn)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *ESeq:
		Inspect(n.Stmt, fn)
		Inspect(n.Expr, fn)
	case *Move:
		Inspect(n.Dst, fn)
		Inspect(n.Src, fn)
	case *Exp:
		Inspect(n.X, fn)
	case *CJump:
		Inspect(n.Cond, fn)
	case *Seq:
		for _, s := range n.Stmts {
			Inspect(s, fn)
		}
	}
}

// Fprint writes an indented tree rendering of n to w.
func Fprint(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	printNode(bw, n, 0)
	return bw.Flush()
}

// Sprint returns the indented tree rendering of n.
func Sprint(n Node) string {
	var sb strings.Builder
	Fprint(&sb, n)
	return sb.String()
}

// FprintProgram writes every chunk of p to w. With linear set, code chunks
// are printed as their canonical statement lists when available.
func FprintProgram(w io.Writer, p *Program, linear bool) error {
	bw := bufio.NewWriter(w)
	for _, c := range p.Chunks {
		switch c := c.(type) {
		case *DataChunk:
			fmt.Fprintln(bw, c)
		case *CodeChunk:
			fmt.Fprintln(bw, c.Frame)
			if linear && c.Linear != nil {
				for _, s := range c.Linear {
					printNode(bw, s, 1)
				}
			} else {
				printNode(bw, c.Body, 1)
			}
		}
	}
	return bw.Flush()
}

func printNode(w *bufio.Writer, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	line := func(format string, args ...any) {
		w.WriteString(indent)
		fmt.Fprintf(w, format, args...)
		w.WriteByte('\n')
	}
	switch n := n.(type) {
	case *Const, *Name, *Temp, *Jump, *Label:
		line("%s", n)
	case *Mem:
		line("MEM")
		printNode(w, n.Addr, depth+1)
	case *BinOp:
		line("BINOP %s", n.Op)
		printNode(w, n.X, depth+1)
		printNode(w, n.Y, depth+1)
	case *Call:
		line("CALL %s", n.Label)
		for _, a := range n.Args {
			printNode(w, a, depth+1)
		}
	case *ESeq:
		line("ESEQ")
		printNode(w, n.Stmt, depth+1)
		printNode(w, n.Expr, depth+1)
	case *Move:
		line("MOVE")
		printNode(w, n.Dst, depth+1)
		printNode(w, n.Src, depth+1)
	case *Exp:
		line("EXP")
		printNode(w, n.X, depth+1)
	case *CJump:
		line("CJUMP %s, %s", n.True, n.False)
		printNode(w, n.Cond, depth+1)
	case *Seq:
		line("SEQ")
		for _, s := range n.Stmts {
			printNode(w, s, depth+1)
		}
	default:
		line("<%T>", n)
	}
}
