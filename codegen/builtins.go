package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// declarePrintf forward-declares the C standard library's variadic printf,
// Solar's sole builtin (spec.md §5), the same way tawago/builtins.go wires
// a syscall-backed print into every module before user functions are
// lowered.
func declarePrintf(m *ir.Module) *ir.Func {
	param := ir.NewParam("format", types.NewPointer(types.I8))
	fn := m.NewFunc("printf", types.I32, param)
	fn.Sig.Variadic = true
	return fn
}
