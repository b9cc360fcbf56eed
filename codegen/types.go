package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/token"
)

// requireResolved panics with a uerror if t is an UNKNOWN type-name
// annotation, per spec.md §9's Open Question 4: the parser accepts any
// identifier as a type name, and resolution against the primitive table
// is codegen's job.
func requireResolved(t ast.TypeInfo, pos token.Position) {
	if t.Kind == ast.UNKNOWN {
		panic(newUError("%s: unknown type name '%s'", pos, t.Name))
	}
}

// llvmType lowers a Solar TypeInfo to its LLVM IR type, per spec.md §4.3's
// type lowering table. VOID and any other kind lower to void. An UNKNOWN
// type name never reaches this fallback from Compile: forwardDeclare and
// variable-declaration lowering call requireResolved first, which panics
// with a uerror naming the type.
func llvmType(t ast.TypeInfo) types.Type {
	switch t.Kind {
	case ast.BOOL:
		return types.I1
	case ast.INTEGER:
		if t.Size == 32 {
			return types.I32
		}
		return types.I64
	case ast.FLOAT:
		if t.Size == 32 {
			return types.Float
		}
		return types.Double
	default:
		return types.Void
	}
}

// isFloatType reports whether typ is one of LLVM's floating-point types.
func isFloatType(typ types.Type) bool {
	switch typ.(type) {
	case *types.FloatType:
		return true
	default:
		return false
	}
}
