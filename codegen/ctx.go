package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// uerror is a codegen precondition violation: a well-formed AST that still
// fails to type-check or reference something that exists. lowerExpression
// and lowerStatement panic with a uerror rather than threading an error return
// through every visitor method; Compile recovers it at the top.
type uerror struct {
	msg string
}

func (u uerror) Error() string { return u.msg }

func newUError(format string, args ...interface{}) uerror {
	return uerror{msg: fmt.Sprintf(format, args...)}
}

// slot is a variable's stack-allocated storage, produced by NewAlloca in
// the function's entry block.
type slot struct {
	alloca *ir.InstAlloca
}

// ctx is codegen's shared state across one module's worth of generation.
// The symbol table is a single flat layer, cleared at the top of every
// function, per spec.md §3: Solar has no nested lexical scoping to model,
// unlike tawago's push/pop scope stack.
type ctx struct {
	module *ir.Module

	// functions maps a declared function name to its *ir.Func, populated
	// during the forward-declaration pass before any body is lowered, so
	// calls to functions declared later in the file still resolve.
	functions map[string]*ir.Func

	// vars is the current function's flat symbol table: name to stack slot.
	vars map[string]slot

	// stringConstants dedupes global string literals within a module.
	stringConstants map[string]value.Value

	debug *debugInfo

	release bool
}

func newCtx(module *ir.Module, release bool) *ctx {
	return &ctx{
		module:          module,
		functions:       make(map[string]*ir.Func),
		stringConstants: make(map[string]value.Value),
		release:         release,
	}
}

// enterFunction resets the symbol table; called once per Function, before
// its parameters and body are lowered.
func (c *ctx) enterFunction() {
	c.vars = make(map[string]slot)
}

func (c *ctx) declare(name string, alloca *ir.InstAlloca) {
	c.vars[name] = slot{alloca: alloca}
}

func (c *ctx) lookup(name string) (slot, bool) {
	s, ok := c.vars[name]
	return s, ok
}

func (c *ctx) lookupFunction(name string) (*ir.Func, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}
