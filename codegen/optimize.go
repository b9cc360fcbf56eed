package codegen

import (
	"github.com/llir/llvm/ir"
)

// optimize runs a small function-level pass pipeline over fn when a
// release build is requested (spec.md §6's --release flag). llir/llvm is
// an IR builder, not an optimizing compiler, so unlike
// original_source/src/codegen.cpp's real LLVM FunctionPassManager
// (mem2reg, GVN, reassociate, simplify-cfg, DCE, instcombine) this is a
// hand-rolled CFG cleanup: it only removes what codegen's own
// straight-line lowering makes trivially removable, not a general
// optimizer. It mirrors the shape (a named sequence of independent
// function passes) rather than the strength of the original pipeline.
func optimize(fn *ir.Func) {
	for _, pass := range []func(*ir.Func){
		removeUnreachableBlocks,
		mergeSingleSuccessorBlocks,
	} {
		pass(fn)
	}
}

// removeUnreachableBlocks drops basic blocks that no terminator in fn can
// ever branch to, analogous to LLVM's simplifycfg dead-block removal.
// codegen's conditional lowering never produces one (every block it
// creates is wired into the CFG it builds), but a future lowering that
// short-circuits a branch could leave one behind.
func removeUnreachableBlocks(fn *ir.Func) {
	if len(fn.Blocks) == 0 {
		return
	}

	reachable := map[*ir.Block]bool{fn.Blocks[0]: true}
	work := []*ir.Block{fn.Blocks[0]}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, succ := range successors(b) {
			if !reachable[succ] {
				reachable[succ] = true
				work = append(work, succ)
			}
		}
	}

	kept := fn.Blocks[:0]
	for _, b := range fn.Blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}

// mergeSingleSuccessorBlocks folds a block ending in an unconditional
// branch into its target when that target has exactly one predecessor,
// the cheapest slice of simplify-cfg. codegen's own conditional lowering
// never produces such a pair: every unconditional branch it emits targets
// a merge block with two predecessors, so this pass leaves its output
// unchanged.
func mergeSingleSuccessorBlocks(fn *ir.Func) {
	changed := true
	for changed {
		changed = false
		preds := predecessorCounts(fn)

		for i := 0; i < len(fn.Blocks); i++ {
			b := fn.Blocks[i]
			br, ok := b.Term.(*ir.TermBr)
			if !ok || br.Target == b {
				continue
			}
			if preds[br.Target] != 1 {
				continue
			}

			b.Insts = append(b.Insts, br.Target.Insts...)
			b.Term = br.Target.Term
			removeBlock(fn, br.Target)
			changed = true
			break
		}
	}
}

func successors(b *ir.Block) []*ir.Block {
	switch term := b.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{term.Target}
	case *ir.TermCondBr:
		return []*ir.Block{term.TargetTrue, term.TargetFalse}
	default:
		return nil
	}
}

func predecessorCounts(fn *ir.Func) map[*ir.Block]int {
	counts := make(map[*ir.Block]int)
	for _, b := range fn.Blocks {
		for _, succ := range successors(b) {
			counts[succ]++
		}
	}
	return counts
}

func removeBlock(fn *ir.Func, target *ir.Block) {
	kept := fn.Blocks[:0]
	for _, b := range fn.Blocks {
		if b != target {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}
