package codegen

import (
	"path/filepath"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/metadata"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/token"
)

// debugInfo emits DWARF-shaped debug metadata alongside generated IR,
// mirroring original_source/src/codegen.cpp's DebugInfoGenerator: one
// compile unit per module, one subprogram per function, and a stack of
// lexical-block scopes pushed and popped around nested statement blocks.
type debugInfo struct {
	module      *ir.Module
	file        *metadata.DIFile
	compileUnit *metadata.DICompileUnit
	basicTypes  map[ast.TypeInfo]*metadata.DIBasicType
	scopes      []metadata.Field
}

func newDebugInfo(module *ir.Module, sourcePath string) *debugInfo {
	dir, name := filepath.Split(sourcePath)
	if dir == "" {
		dir = "."
	}
	file := &metadata.DIFile{
		Filename:  name,
		Directory: dir,
	}
	cu := &metadata.DICompileUnit{
		Language:       metadata.DwarfLangC99,
		File:           file,
		Producer:       "solarc",
		IsOptimized:    false,
		Emission:       metadata.EmissionFull,
		RuntimeVersion: 0,
	}

	module.NamedMetadataDefs["llvm.dbg.cu"] = &metadata.NamedDef{
		Nodes: []metadata.Node{cu},
	}
	module.NewModuleFlag("Dwarf Version", uint64ToConstant(2))
	module.NewModuleFlag("Debug Info Version", uint64ToConstant(3))

	return &debugInfo{
		module:      module,
		file:        file,
		compileUnit: cu,
		basicTypes:  make(map[ast.TypeInfo]*metadata.DIBasicType),
	}
}

// basicType returns (creating and caching on first use) the DIBasicType
// describing t, per original_source's get_type dispatch over primitive
// kinds.
func (d *debugInfo) basicType(t ast.TypeInfo) *metadata.DIBasicType {
	if bt, ok := d.basicTypes[t]; ok {
		return bt
	}

	name := t.String()
	var size uint64
	var encoding metadata.DwarfAttEncoding

	switch t.Kind {
	case ast.BOOL:
		size, encoding = 8, metadata.DwarfAttEncodingBoolean
	case ast.INTEGER:
		size = uint64(t.Size)
		if t.IsSigned {
			encoding = metadata.DwarfAttEncodingSigned
		} else {
			encoding = metadata.DwarfAttEncodingUnsigned
		}
	case ast.FLOAT:
		size, encoding = uint64(t.Size), metadata.DwarfAttEncodingFloat
	default:
		size, encoding = 0, metadata.DwarfAttEncodingUnsigned
	}

	bt := &metadata.DIBasicType{
		Name:     name,
		Size:     size,
		Encoding: encoding,
	}
	d.basicTypes[t] = bt
	return bt
}

// subroutineType builds the DISubroutineType for a prototype: return type
// first, then parameter types, matching LLVM's convention for encoding a
// function signature as a metadata tuple.
func (d *debugInfo) subroutineType(proto ast.Prototype) *metadata.DISubroutineType {
	types := []metadata.Field{d.basicType(proto.ReturnType)}
	for _, p := range proto.Parameters {
		types = append(types, d.basicType(p.Type))
	}
	return &metadata.DISubroutineType{
		Types: &metadata.Tuple{Fields: types},
	}
}

// subprogram creates and attaches a DISubprogram to fn, then pushes it as
// the current lexical scope for the duration of the function body.
func (d *debugInfo) subprogram(fn *ir.Func, proto ast.Prototype, pos token.Position) *metadata.DISubprogram {
	sp := &metadata.DISubprogram{
		Name:         proto.Name.Lexeme,
		Scope:        d.file,
		File:         d.file,
		Line:         int64(pos.Line),
		Type:         d.subroutineType(proto),
		IsLocal:      false,
		IsDefinition: true,
		ScopeLine:    int64(pos.Line),
		Unit:         d.compileUnit,
	}
	fn.Metadata = append(fn.Metadata, &metadata.Attachment{Name: "dbg", Node: sp})
	d.scopes = append(d.scopes, sp)
	return sp
}

func (d *debugInfo) currentScope() metadata.Field {
	if len(d.scopes) == 0 {
		return d.file
	}
	return d.scopes[len(d.scopes)-1]
}

// pushLexicalBlock enters a nested { } block, per spec.md §4.3's
// block-scoped debug locations.
func (d *debugInfo) pushLexicalBlock(pos token.Position) {
	d.scopes = append(d.scopes, &metadata.DILexicalBlock{
		Scope: d.currentScope(),
		File:  d.file,
		Line:  int64(pos.Line),
	})
}

func (d *debugInfo) popScope() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

func (d *debugInfo) popFunction() {
	d.scopes = nil
}

// location builds a DILocation attachable to any instruction, tagging it
// with the current scope.
func (d *debugInfo) location(pos token.Position) *metadata.DILocation {
	return &metadata.DILocation{
		Line:   int64(pos.Line),
		Column: int64(pos.Column),
		Scope:  d.currentScope(),
	}
}

// declareParameter attaches a parameter-variable debug record to a
// parameter's stack slot, per spec.md §4.3 step 6. argIndex is 1-based,
// matching DWARF's convention for DW_AT_ARG.
func (d *debugInfo) declareParameter(alloca *ir.InstAlloca, name string, t ast.TypeInfo, argIndex int64, pos token.Position) {
	d.attachVariable(alloca, &metadata.DILocalVariable{
		Name:  name,
		Arg:   argIndex,
		Scope: d.currentScope(),
		File:  d.file,
		Line:  int64(pos.Line),
		Type:  d.basicType(t),
	})
}

// declareAuto attaches an auto-variable debug record to a `var`
// declaration's stack slot, per spec.md §4.3's variable-declaration
// lowering step.
func (d *debugInfo) declareAuto(alloca *ir.InstAlloca, name string, t ast.TypeInfo, pos token.Position) {
	d.attachVariable(alloca, &metadata.DILocalVariable{
		Name:  name,
		Scope: d.currentScope(),
		File:  d.file,
		Line:  int64(pos.Line),
		Type:  d.basicType(t),
	})
}

func (d *debugInfo) attachVariable(alloca *ir.InstAlloca, dv *metadata.DILocalVariable) {
	alloca.Metadata = append(alloca.Metadata, &metadata.Attachment{Name: "solar.dbg.declare", Node: dv})
}

func uint64ToConstant(v uint64) metadata.Field {
	return &metadata.Int{Value: int64(v)}
}
