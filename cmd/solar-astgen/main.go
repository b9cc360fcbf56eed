// Command solar-astgen generates the marker methods that make ast's
// Expression and Statement interfaces closed sum types, from a small
// declarative description. It is the Solar analogue of tawago's
// tool/main.go, retargeted at variant-only sum types (no separate
// "underlying kind" per variant, since every Solar AST node is already a
// concrete struct).
//
// Usage: solar-astgen <in.decl> <out.go> <package-name>
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"
	. "github.com/dave/jennifer/jen"
)

// Declaration is one `type Name = Variant | Variant | ...;` line.
type Declaration struct {
	Name     string   `"type" @Ident "="`
	Variants []string `@Ident ("|" @Ident)* ";"`
}

// TypeDecls is the whole nodes.decl file: a sequence of declarations.
type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

func markerName(sumType string) string {
	return "is" + sumType
}

// Generate emits, for every declared sum type, an unexported marker
// method on each of its variants: func (v Variant) isSumType() {}
func Generate(pkgName string, decls *TypeDecls) string {
	f := NewFile(pkgName)
	f.HeaderComment("Code generated by cmd/solar-astgen from nodes.decl. DO NOT EDIT.")

	for _, decl := range decls.Declarations {
		for _, variant := range decl.Variants {
			f.Func().
				Params(Id("v").Id(variant)).
				Id(markerName(decl.Name)).
				Params().
				Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: solar-astgen <in.decl> <out.go> <package-name>")
		os.Exit(64)
	}

	in, out, pkgName := os.Args[1], os.Args[2], os.Args[3]

	parser, err := participle.Build(&TypeDecls{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(66)
	}

	decls := TypeDecls{}
	if err := parser.ParseBytes(inData, &decls); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := ioutil.WriteFile(out, []byte(Generate(pkgName, &decls)), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
