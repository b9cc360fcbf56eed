// Package typeinfo embeds and reads back a JSON description of a
// compiled module's function signatures, generalizing
// tawago/typeinfo.go's __tawa_types global constant to Solar's simpler
// TypeInfo shape.
package typeinfo

import (
	"encoding/json"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/typeinfo/reader"
)

const globalName = "__solar_types"

// Signature is one function's exported type shape: its parameter types in
// order and its return type, rendered with ast.TypeInfo's String().
type Signature struct {
	Parameters []string `json:"parameters"`
	ReturnType string   `json:"return_type"`
}

// Info is the full typeinfo blob for one compiled module: every top-level
// function's signature, keyed by name.
type Info struct {
	Functions map[string]Signature `json:"functions"`
}

// FromProgram builds an Info describing every function program declares,
// walked in declaration order (map iteration in Go is unordered, but the
// JSON is still deterministic per program since keys are unique names).
func FromProgram(program *ast.Program) Info {
	info := Info{Functions: make(map[string]Signature)}
	for _, stmt := range program.Statements {
		fn, ok := stmt.(ast.Function)
		if !ok {
			continue
		}

		sig := Signature{ReturnType: fn.Prototype.ReturnType.String()}
		for _, p := range fn.Prototype.Parameters {
			sig.Parameters = append(sig.Parameters, p.Type.String())
		}
		info.Functions[fn.Prototype.Name.Lexeme] = sig
	}
	return info
}

// Embed marshals info to JSON and stores it as a null-terminated global
// constant in m, readable back out of the compiled shared object with
// ReadFromFile.
func Embed(info Info, m *ir.Module) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal typeinfo: %w", err)
	}

	g := m.NewGlobalDef(globalName, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

// ReadFromFile dlopens a compiled shared object and reads its embedded
// typeinfo blob back out, per spec.md's `solar typeinfo <path>` CLI
// surface — grounded on tawago/reader/reader.go.
func ReadFromFile(path string) (Info, error) {
	raw, err := reader.ReadSymbol(path, globalName)
	if err != nil {
		return Info{}, err
	}

	var info Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return Info{}, fmt.Errorf("unmarshal typeinfo from %s: %w", path, err)
	}
	return info, nil
}
