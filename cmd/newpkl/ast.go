package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	newpkl "github.com/jvasti/new-pkl"
	"github.com/jvasti/new-pkl/pkg/diag"
	"github.com/jvasti/new-pkl/pkg/types"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Parse a document and print its syntax tree without evaluating",
	Args:  cobra.ExactArgs(1),
	RunE:  runAst,
}

func runAst(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	src := string(data)

	stmts, err := newpkl.GenerateAST(src)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.Render(src, err))
		return err
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *types.Constant:
			fmt.Fprintf(cmd.OutOrStdout(), "const %s @%s\n", s.Name, s.Sp)
			printExpr(cmd, s.Value, 1)
		case *types.ImportStmt:
			if s.Alias != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "import %q as %s @%s\n", s.Path, s.Alias, s.Sp)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "import %q @%s\n", s.Path, s.Sp)
			}
		}
	}
	return nil
}

func printExpr(cmd *cobra.Command, expr types.Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	out := cmd.OutOrStdout()

	switch e := expr.(type) {
	case *types.BoolLit:
		fmt.Fprintf(out, "%sbool %t @%s\n", indent, e.Value, e.Sp)
	case *types.IntLit:
		fmt.Fprintf(out, "%sint %d @%s\n", indent, e.Value, e.Sp)
	case *types.FloatLit:
		fmt.Fprintf(out, "%sfloat %g @%s\n", indent, e.Value, e.Sp)
	case *types.StringLit:
		fmt.Fprintf(out, "%sstring %q @%s\n", indent, e.Value, e.Sp)
	case *types.MultilineStringLit:
		fmt.Fprintf(out, "%smultiline string (%d bytes) @%s\n", indent, len(e.Value), e.Sp)
	case *types.Identifier:
		fmt.Fprintf(out, "%sident %s @%s\n", indent, e.Name, e.Sp)
	case *types.ListLit:
		fmt.Fprintf(out, "%slist (%d elements) @%s\n", indent, len(e.Elems), e.Sp)
		for _, elem := range e.Elems {
			printExpr(cmd, elem, depth+1)
		}
	case *types.ObjectLit:
		fmt.Fprintf(out, "%sobject @%s\n", indent, e.Sp)
		printFields(cmd, e.Fields, depth+1)
	case *types.ClassLit:
		fmt.Fprintf(out, "%snew %s @%s\n", indent, e.Name, e.Sp)
		printFields(cmd, e.Fields, depth+1)
	case *types.AmendingObject:
		fmt.Fprintf(out, "%samending (%s) @%s\n", indent, e.Base, e.Sp)
		printFields(cmd, e.Fields, depth+1)
	case *types.AmendedObject:
		fmt.Fprintf(out, "%samended @%s\n", indent, e.Sp)
		printExpr(cmd, e.Base, depth+1)
		printFields(cmd, e.Fields, depth+1)
	case *types.Member:
		if e.HasArgs {
			fmt.Fprintf(out, "%smember .%s (%d args) @%s\n", indent, e.Name, len(e.Args), e.Sp)
		} else {
			fmt.Fprintf(out, "%smember .%s @%s\n", indent, e.Name, e.Sp)
		}
		printExpr(cmd, e.Base, depth+1)
		for _, arg := range e.Args {
			printExpr(cmd, arg, depth+1)
		}
	default:
		fmt.Fprintf(out, "%s%T @%s\n", indent, expr, expr.Span())
	}
}

func printFields(cmd *cobra.Command, fields *types.FieldMap, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, name := range fields.Names() {
		expr, _ := fields.Get(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%sfield %s\n", indent, name)
		printExpr(cmd, expr, depth+1)
	}
}
