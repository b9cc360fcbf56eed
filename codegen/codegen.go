// Package codegen lowers a typed ast.Program to an LLVM IR module, per
// spec.md §4.3. The traversal is two mutually recursive visitors sharing
// one ctx — lowerStatement and lowerExpression below — grounded
// on tawago/codegen.go's codegenToplevel/codegenExpression split and
// generalized to original_source/src/codegen.cpp's two-class shape.
//
// The AST is assumed well-formed: a codegen precondition violation
// (unknown identifier, arity mismatch, a type that can't be lowered)
// panics with a uerror, which Compile recovers and turns into a returned
// error. The parser's error list, not codegen, is the user-facing
// diagnostic channel (spec.md §4.3's failure semantics).
package codegen

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/metadata"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/token"
)

// Compile lowers program to a named IR module. sourcePath names the
// module and, when release is false, roots its debug-info compile unit.
// A well-formed but semantically invalid program (undefined name, arity
// mismatch, unrepresentable type in a position that requires one) is
// reported as a returned error rather than a panic escaping to the
// caller.
func Compile(sourcePath string, program *ast.Program, release bool) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if u, ok := r.(uerror); ok {
				err = u
				return
			}
			panic(r)
		}
	}()

	module := ir.NewModule()
	module.SourceFilename = sourcePath

	c := newCtx(module, release)
	c.functions["printf"] = declarePrintf(module)

	if !release {
		c.debug = newDebugInfo(module, sourcePath)
	}

	for _, stmt := range program.Statements {
		fn, ok := stmt.(ast.Function)
		if !ok {
			panic(newUError("%s: only function declarations are supported at the top level", stmt.Position()))
		}
		forwardDeclare(c, fn)
	}

	for _, stmt := range program.Statements {
		lowerFunction(c, stmt.(ast.Function))
	}

	return module, nil
}

// forwardDeclare creates fn's *ir.Func with its full signature and
// registers it in c.functions, so a call appearing earlier in source
// order than its callee's definition still resolves — the same
// two-pass shape as tawago's forwardDeclarationPass.
func forwardDeclare(c *ctx, fn ast.Function) {
	requireResolved(fn.Prototype.ReturnType, fn.Pos)
	retType := llvmType(fn.Prototype.ReturnType)

	var params []*ir.Param
	for _, p := range fn.Prototype.Parameters {
		requireResolved(p.Type, p.Position)
		params = append(params, ir.NewParam(p.Name.Lexeme, llvmType(p.Type)))
	}

	irFn := c.module.NewFunc(fn.Prototype.Name.Lexeme, retType, params...)
	c.functions[fn.Prototype.Name.Lexeme] = irFn
}

// lowerFunction implements spec.md §4.3's nine-step function lowering.
func lowerFunction(c *ctx, fn ast.Function) {
	irFn := c.functions[fn.Prototype.Name.Lexeme]

	if c.debug != nil {
		c.debug.subprogram(irFn, fn.Prototype, fn.Pos)
	}

	entry := irFn.NewBlock("entry")

	c.enterFunction()
	for i, p := range fn.Prototype.Parameters {
		alloca := entry.NewAlloca(llvmType(p.Type))
		entry.NewStore(irFn.Params[i], alloca)
		c.declare(p.Name.Lexeme, alloca)
		if c.debug != nil {
			c.debug.declareParameter(alloca, p.Name.Lexeme, p.Type, int64(i+1), p.Position)
		}
	}

	lowerBlock(c, fn.Body, irFn, entry)

	last := irFn.Blocks[len(irFn.Blocks)-1]
	if last.Term == nil {
		// Implicit fallthrough return: a function whose body doesn't end
		// in an explicit `return` gets a bare `ret void` regardless of
		// its declared return type. Open Question 3 resolves this as a
		// deliberately preserved defect rather than a codegen assertion,
		// per SPEC_FULL.md's decision — mismatched non-void returns are
		// caught by the platform verifier/linker, not by solarc.
		last.NewRet(nil)
	}

	if c.debug != nil {
		c.debug.popFunction()
	}

	if c.release {
		optimize(irFn)
	}
}

// lowerBlock lowers block's statements starting in current and returns the
// block that is current after the last of them, which differs from the
// block passed in when a nested conditional introduced new blocks.
func lowerBlock(c *ctx, block *ast.Block, irFn *ir.Func, current *ir.Block) *ir.Block {
	if c.debug != nil {
		c.debug.pushLexicalBlock(block.Pos)
		defer c.debug.popScope()
	}

	for _, stmt := range block.Statements {
		current = lowerStatement(c, stmt, irFn, current)
	}
	return current
}

// lowerStatement dispatches on stmt's concrete type — StatementGenerator's
// job in spec.md's two-visitor design — and returns the block that is
// current after lowering it.
func lowerStatement(c *ctx, stmt ast.Statement, irFn *ir.Func, current *ir.Block) *ir.Block {
	switch s := stmt.(type) {
	case ast.VariableDeclaration:
		requireResolved(s.Type, s.Pos)
		entry := irFn.Blocks[0]
		alloca := entry.NewAlloca(llvmType(s.Type))
		c.declare(s.Name.Lexeme, alloca)
		if c.debug != nil {
			c.debug.declareAuto(alloca, s.Name.Lexeme, s.Type, s.Pos)
		}
		val, current := lowerExpression(c, s.Initializer, irFn, current)
		store := current.NewStore(val, alloca)
		if c.debug != nil {
			store.Metadata = append(store.Metadata, &metadata.Attachment{Name: "dbg", Node: c.debug.location(s.Pos)})
		}
		return current

	case ast.Return:
		val, current := lowerExpression(c, s.Value, irFn, current)
		ret := current.NewRet(val)
		if c.debug != nil {
			ret.Metadata = append(ret.Metadata, &metadata.Attachment{Name: "dbg", Node: c.debug.location(s.Pos)})
		}
		return current

	case ast.ExpressionStatement:
		v, current := lowerExpression(c, s.Expr, irFn, current)
		if c.debug != nil {
			if call, ok := v.(*ir.InstCall); ok {
				call.Metadata = append(call.Metadata, &metadata.Attachment{Name: "dbg", Node: c.debug.location(s.Pos)})
			}
		}
		return current

	case ast.Block:
		return lowerBlock(c, &s, irFn, current)

	case ast.Function:
		panic(newUError("%s: nested function declarations are not supported", s.Position()))

	default:
		panic(newUError("%s: unhandled statement type %T", stmt.Position(), stmt))
	}
}

// lowerExpression dispatches on e's concrete type — ExpressionGenerator's
// job — and returns its SSA value together with the block current after
// evaluating it (a conditional expression may have advanced past
// several blocks).
func lowerExpression(c *ctx, e ast.Expression, irFn *ir.Func, current *ir.Block) (value.Value, *ir.Block) {
	switch expr := e.(type) {
	case ast.LiteralValue:
		return lowerLiteral(expr), current

	case ast.StringLiteral:
		return lowerStringLiteral(c, expr), current

	case ast.Variable:
		s, ok := c.lookup(expr.Name.Lexeme)
		if !ok {
			panic(newUError("%s: undefined variable '%s'", expr.Position(), expr.Name.Lexeme))
		}
		return current.NewLoad(s.alloca.ElemType, s.alloca), current

	case ast.Binop:
		return lowerBinop(c, expr, irFn, current)

	case ast.Call:
		return lowerCall(c, expr, irFn, current)

	case ast.Condition:
		return lowerCondition(c, expr, irFn, current)

	default:
		panic(newUError("%s: unhandled expression type %T", e.Position(), e))
	}
}

func lowerLiteral(l ast.LiteralValue) value.Value {
	switch l.Type.Kind {
	case ast.BOOL:
		if l.Value.Bool {
			return constant.True
		}
		return constant.False
	case ast.INTEGER:
		if l.Type.Size == 32 {
			if l.Type.IsSigned {
				return constant.NewInt(types.I32, int64(l.Value.I32))
			}
			return constant.NewInt(types.I32, int64(l.Value.U32))
		}
		if l.Type.IsSigned {
			return constant.NewInt(types.I64, l.Value.I64)
		}
		return constant.NewInt(types.I64, int64(l.Value.U64))
	case ast.FLOAT:
		if l.Type.Size == 32 {
			return constant.NewFloat(types.Float, float64(l.Value.F32))
		}
		return constant.NewFloat(types.Double, l.Value.F64)
	default:
		panic(newUError("%s: literal has unrepresentable type %s", l.Position(), l.Type))
	}
}

// lowerStringLiteral emits a deduplicated global C-string constant and
// returns a pointer to its first byte, per spec.md §4.3.
func lowerStringLiteral(c *ctx, s ast.StringLiteral) value.Value {
	if v, ok := c.stringConstants[s.Value]; ok {
		return v
	}

	data := constant.NewCharArrayFromString(s.Value + "\x00")
	arrayType := types.NewArray(uint64(len(s.Value)+1), types.I8)
	global := c.module.NewGlobalDef(fmt.Sprintf(".str.%s", hashString(s.Value)), data)
	global.Immutable = true

	ptr := constant.NewGetElementPtr(arrayType, global, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
	c.stringConstants[s.Value] = ptr
	return ptr
}

func hashString(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// lowerBinop implements spec.md §4.3's integer/float instruction
// selection table. The left operand's IR type picks the family; DIV
// additionally uses float division if either operand is floating-point.
func lowerBinop(c *ctx, b ast.Binop, irFn *ir.Func, current *ir.Block) (value.Value, *ir.Block) {
	left, current := lowerExpression(c, b.Left, irFn, current)
	right, current := lowerExpression(c, b.Right, irFn, current)

	useFloat := isFloatType(left.Type()) || (b.Op == ast.DIV && isFloatType(right.Type()))

	if useFloat {
		switch b.Op {
		case ast.ADD:
			return current.NewFAdd(left, right), current
		case ast.SUB:
			return current.NewFSub(left, right), current
		case ast.MUL:
			return current.NewFMul(left, right), current
		case ast.DIV:
			return current.NewFDiv(left, right), current
		case ast.EQ:
			return current.NewFCmp(enum.FPredOEQ, left, right), current
		case ast.NE:
			return current.NewFCmp(enum.FPredONE, left, right), current
		case ast.LT:
			return current.NewFCmp(enum.FPredOLT, left, right), current
		case ast.LE:
			return current.NewFCmp(enum.FPredOLE, left, right), current
		case ast.GT:
			return current.NewFCmp(enum.FPredOGT, left, right), current
		case ast.GE:
			return current.NewFCmp(enum.FPredOGE, left, right), current
		}
	}

	switch b.Op {
	case ast.ADD:
		return current.NewAdd(left, right), current
	case ast.SUB:
		return current.NewSub(left, right), current
	case ast.MUL:
		return current.NewMul(left, right), current
	case ast.DIV:
		return current.NewSDiv(left, right), current
	case ast.EQ:
		return current.NewICmp(enum.IPredEQ, left, right), current
	case ast.NE:
		return current.NewICmp(enum.IPredNE, left, right), current
	case ast.LT:
		return current.NewICmp(enum.IPredSLT, left, right), current
	case ast.LE:
		return current.NewICmp(enum.IPredSLE, left, right), current
	case ast.GT:
		return current.NewICmp(enum.IPredSGT, left, right), current
	case ast.GE:
		return current.NewICmp(enum.IPredSGE, left, right), current
	default:
		panic(newUError("%s: unhandled binary operator %s", b.Position(), b.Op))
	}
}

// lowerCall looks up the callee by name and asserts its arity, unless it
// is variadic (printf, and any future variadic builtin).
func lowerCall(c *ctx, call ast.Call, irFn *ir.Func, current *ir.Block) (value.Value, *ir.Block) {
	fn, ok := c.lookupFunction(call.Name.Lexeme)
	if !ok {
		panic(newUError("%s: call to undefined function '%s'", call.Position(), call.Name.Lexeme))
	}

	if !fn.Sig.Variadic && len(call.Arguments) != len(fn.Params) {
		panic(newUError("%s: '%s' expects %d argument(s), got %d", call.Position(), call.Name.Lexeme, len(fn.Params), len(call.Arguments)))
	}

	var args []value.Value
	for _, arg := range call.Arguments {
		var v value.Value
		v, current = lowerExpression(c, arg, irFn, current)
		args = append(args, v)
	}

	return current.NewCall(fn, args...), current
}

// lowerCondition is the three-basic-block SSA lowering from spec.md
// §4.3: evaluate the condition, branch to then/else, both branches fall
// through unconditionally to merge, and a phi in merge takes the two
// branch values keyed by whichever block is current *after* evaluating
// each branch (branch evaluation may itself have introduced blocks).
func lowerCondition(c *ctx, cond ast.Condition, irFn *ir.Func, current *ir.Block) (value.Value, *ir.Block) {
	condVal, current := lowerExpression(c, cond.Cond, irFn, current)

	thenBlock := irFn.NewBlock(blockName(irFn, "then"))
	elseBlock := irFn.NewBlock(blockName(irFn, "else"))
	current.NewCondBr(condVal, thenBlock, elseBlock)

	thenVal, thenEnd := lowerExpression(c, cond.Then, irFn, thenBlock)

	if cond.Otherwise == nil {
		// spec.md §9's Open Question 1: an else-less conditional reaching
		// code generation is a precondition violation, reproducing
		// original_source's null-deref on Condition.otherwise as a checked
		// panic instead of silently synthesizing a value. This applies in
		// statement position too: ExpressionStatement lowers its
		// expression through here as well.
		panic(newUError("%s: conditional expression has no else branch", cond.Position()))
	}
	elseVal, elseEnd := lowerExpression(c, cond.Otherwise, irFn, elseBlock)

	mergeBlock := irFn.NewBlock(blockName(irFn, "ifcont"))
	thenEnd.NewBr(mergeBlock)
	elseEnd.NewBr(mergeBlock)

	phi := mergeBlock.NewPhi(
		ir.NewIncoming(thenVal, thenEnd),
		ir.NewIncoming(elseVal, elseEnd),
	)

	return phi, mergeBlock
}

// blockName appends the function's current block count so successive
// conditionals in the same function get distinguishable IR names
// (then.1, else.2, ifcont.3, then.4, ...) instead of colliding.
func blockName(fn *ir.Func, base string) string {
	return fmt.Sprintf("%s.%d", base, len(fn.Blocks))
}
