// Copyright 2025 tir-schedule Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schedule implements the Blockize and Tensorize loop-nest
// scheduling primitives over the ir package's statement trees, keeping a
// sref.ScheduleState index up to date as each primitive rewrites the tree.
package schedule

import (
	"github.com/tensorsched/tir/arith"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/ir/subst"
	"github.com/tensorsched/tir/sref"
)

// Options configures a schedule primitive call. The zero value is the
// default configuration.
type Options struct {
	// PreserveUnitIters keeps block iter vars whose extent is 1 instead of
	// folding them away during Blockize's binding derivation.
	PreserveUnitIters bool
}

// Option mutates an Options value, following the functional-options
// pattern used throughout this module for primitive configuration.
type Option func(*Options)

// WithPreserveUnitIters sets PreserveUnitIters.
func WithPreserveUnitIters(preserve bool) Option {
	return func(o *Options) { o.PreserveUnitIters = preserve }
}

func resolveOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func usesVarExpr(e ir.Expr, v *ir.Var) bool {
	found := false
	ir.VisitExpr(e, func(n ir.Expr) bool {
		if found {
			return false
		}
		if n == ir.Expr(v) {
			found = true
		}
		return !found
	})
	return found
}

func usesVarStmt(s ir.Stmt, v *ir.Var) bool {
	found := false
	ir.VisitStmt(s, nil, func(n ir.Expr) bool {
		if found {
			return false
		}
		if n == ir.Expr(v) {
			found = true
		}
		return !found
	})
	return found
}

// getSingleChildBlockRealize descends from stmt through For/single-element
// SeqStmt/else-less IfThenElse nodes until it reaches the one BlockRealize
// that must be the sole statement nested under a loop targeted by Blockize.
func getSingleChildBlockRealize(loop *ir.For, stmt ir.Stmt) (*ir.BlockRealize, error) {
	for {
		switch n := stmt.(type) {
		case *ir.BlockRealize:
			return n, nil
		case *ir.For:
			stmt = n.Body
		case *ir.SeqStmt:
			if len(n.Seq) != 1 {
				return nil, &NotSingleChildBlockError{Loop: loop}
			}
			stmt = n.Seq[0]
		case *ir.IfThenElse:
			if n.Else != nil {
				return nil, &NotSingleChildBlockError{Loop: loop}
			}
			stmt = n.Then
		default:
			return nil, &NotSingleChildBlockError{Loop: loop}
		}
	}
}

// loopChain collects, starting just below block and walking up to and
// including loopRef, the *ir.For ancestors split into the inner group (the
// loop nest that moves inside the new inner block, nearest-first) and the
// outer group (everything strictly above loopRef).
func loopChain(blockRef, loopRef *sref.StmtSRef) (innerLoops []*ir.For, innerVars, outerVars []*ir.Var) {
	inner := true
	for cur := blockRef.Parent; cur != nil; cur = cur.Parent {
		loop, ok := cur.Stmt.(*ir.For)
		if !ok {
			break
		}
		if inner {
			innerLoops = append(innerLoops, loop)
			innerVars = append(innerVars, loop.LoopVar)
		} else {
			outerVars = append(outerVars, loop.LoopVar)
		}
		if cur == loopRef {
			inner = false
		}
	}
	return innerLoops, innerVars, outerVars
}

// deriveBlockBinding splits each of block's iter var bindings into an outer
// and inner piece per division, returning the new iter vars/bindings for
// each side and the substitution to apply to the original block body.
func deriveBlockBinding(block *ir.Block, division []arith.Division, preserveUnitIters bool) (
	sub subst.VarMap, outerIterVars []*ir.IterVar, outerBindings []ir.Expr, innerIterVars []*ir.IterVar, innerBindings []ir.Expr) {
	sub = subst.VarMap{}
	for i, iterVar := range block.IterVars {
		outerMark, innerMark := division[i][0], division[i][1]
		outerIter := &ir.IterVar{
			Dom:      ir.RangeFromExtent(outerMark.Extent),
			V:        iterVar.V.CopyWithSuffix("_o"),
			IterType: iterVar.IterType,
		}
		outerBindings = append(outerBindings, outerMark.Source)
		outerIterVars = append(outerIterVars, outerIter)

		var replacement ir.Expr
		if ir.IsOne(innerMark.Extent) {
			if ir.IsOne(outerMark.Extent) && !preserveUnitIters {
				replacement = ir.Zero(outerMark.Extent.Type())
			} else {
				replacement = outerIter.V
			}
		} else {
			innerIter := &ir.IterVar{
				Dom:      ir.RangeFromExtent(innerMark.Extent),
				V:        iterVar.V.CopyWithSuffix("_i"),
				IterType: iterVar.IterType,
			}
			innerBindings = append(innerBindings, innerMark.Source)
			innerIterVars = append(innerIterVars, innerIter)
			if ir.IsOne(outerMark.Extent) {
				replacement = innerIter.V
			} else {
				replacement = ir.NewBinary(ir.Add, ir.NewBinary(ir.Mul, outerIter.V, innerMark.Extent), innerIter.V)
			}
		}
		sub[iterVar.V] = replacement
	}
	return sub, outerIterVars, outerBindings, innerIterVars, innerBindings
}

// generateInner builds the BlockRealize for the inner block produced by
// Blockize: block re-bound to iterVars/iterValues/predicate, with its write
// regions folded into its read regions when isWriteReduction holds (the
// inner block accumulates into a buffer the outer reduction also touches).
func generateInner(isWriteReduction bool, iterVars []*ir.IterVar, iterValues []ir.Expr, predicate ir.Expr, block *ir.Block) *ir.BlockRealize {
	clone := *block
	clone.IterVars = iterVars
	clone.Init = nil
	if isWriteReduction {
		reads := make([]ir.BufferRegion, 0, len(block.Writes)+len(block.Reads))
		reads = append(reads, block.Writes...)
		reads = append(reads, block.Reads...)
		clone.Reads = reads
	}
	return &ir.BlockRealize{IterValues: iterValues, Predicate: predicate, Block: &clone}
}

// makeLoopNest wraps stmt in loops, innermost (loops[0]) first, so the final
// result nests loops[0] deepest and loops[len(loops)-1] outermost.
func makeLoopNest(stmt ir.Stmt, loops []*ir.For) ir.Stmt {
	for _, loop := range loops {
		clone := *loop
		clone.Body = stmt
		stmt = &clone
	}
	return stmt
}

// generateOuterInit builds the init statement of the new outer block: a
// block containing only the data-parallel iter vars blockInit actually
// uses, wrapped in copies of the loops blockInit's bindings depend on.
func generateOuterInit(a *arith.Analyzer, blockInit ir.Stmt, innerRealize *ir.BlockRealize, loops []*ir.For, blockName string) ir.Stmt {
	innerBlock := innerRealize.Block
	substMap := subst.VarMap{}
	var iterVars []*ir.IterVar
	var iterValues []ir.Expr
	for i, oldIterVar := range innerBlock.IterVars {
		iterValue := innerRealize.IterValues[i]
		if oldIterVar.IterType == ir.DataPar && usesVarStmt(blockInit, oldIterVar.V) {
			newVar := oldIterVar.V.CopyWithSuffix("_init")
			substMap[oldIterVar.V] = newVar
			iterVars = append(iterVars, &ir.IterVar{Dom: oldIterVar.Dom, V: newVar, IterType: oldIterVar.IterType})
			iterValues = append(iterValues, iterValue)
		}
	}
	var stmt ir.Stmt = &ir.BlockRealize{
		IterValues: iterValues,
		Predicate:  innerRealize.Predicate,
		Block: &ir.Block{
			IterVars: iterVars,
			Writes:   innerBlock.Writes,
			NameHint: blockName,
			Body:     blockInit,
		},
	}
	for _, loop := range loops {
		isInitLoop := false
		for _, v := range iterValues {
			if usesVarExpr(v, loop.LoopVar) {
				isInitLoop = true
				break
			}
		}
		if isInitLoop {
			newLoopVar := loop.LoopVar.CopyWithSuffix("")
			clone := *loop
			clone.LoopVar = newLoopVar
			clone.Body = stmt
			substMap[loop.LoopVar] = newLoopVar
			stmt = &clone
		}
	}
	return subst.Substitute(stmt, substMap, nil, a)
}

// blockizeImpl implements the rewrite Blockize performs, without touching
// the ScheduleState: it returns the new outer BlockRealize and the block
// reuse pairs the caller should feed into sref.ScheduleState.Replace.
func blockizeImpl(state *sref.ScheduleState, loopRef *sref.StmtSRef, opts Options) (*ir.BlockRealize, subst.BlockReuse, error) {
	loop := loopRef.Stmt.(*ir.For)
	blockRealize, err := getSingleChildBlockRealize(loop, loop.Body)
	if err != nil {
		return nil, nil, err
	}
	block := blockRealize.Block
	blockRef := state.GetBlockSRef(block)

	innerLoops, innerVars, outerVars := loopChain(blockRef, loopRef)
	division, ok := arith.SubspaceDivide(blockRealize.IterValues, block.IterVars, blockRealize.Predicate, outerVars, innerVars)
	if !ok {
		return nil, nil, &SubspaceNotDivisibleError{ScopeLoop: loop, InnerBlock: block}
	}

	a := arith.NewAnalyzer()
	varSub, outerIterVars, outerBindings, innerIterVars, innerBindings := deriveBlockBinding(block, division, opts.PreserveUnitIters)

	innerDom := arith.DomainMap{}
	for _, iv := range innerIterVars {
		innerDom[iv.V] = arith.FromRange(a, iv.Dom)
	}

	reuse := subst.BlockReuse{}
	blockSubst := subst.SubstituteBlock(block, varSub, reuse, a)

	hasOuterReduction := false
	if blockSubst.Init != nil {
		for _, iv := range outerIterVars {
			if iv.IterType == ir.CommReduce {
				hasOuterReduction = true
				break
			}
		}
	}

	outerPredicate := ir.True()
	innerPredicate := ir.True()

	innerRealize := generateInner(hasOuterReduction, innerIterVars, innerBindings, innerPredicate, blockSubst)
	reuse[block] = innerRealize.Block

	var outerInit ir.Stmt
	if blockSubst.Init != nil {
		outerInit = generateOuterInit(a, blockSubst.Init, innerRealize, innerLoops, blockSubst.NameHint+"_init")
	}

	outerBlock := &ir.Block{
		IterVars: outerIterVars,
		Reads:    EvalSetRegions(a, blockSubst.Reads, innerDom),
		Writes:   EvalSetRegions(a, blockSubst.Writes, innerDom),
		NameHint: blockSubst.NameHint + "_o",
		Body:     makeLoopNest(innerRealize, innerLoops),
		Init:     outerInit,
	}
	return &ir.BlockRealize{IterValues: outerBindings, Predicate: outerPredicate, Block: outerBlock}, reuse, nil
}

// Blockize groups the loop at loopRef and everything below it into a new
// block, nested one level deeper than before, replacing the original loop
// subtree in state. It returns the StmtSRef of the newly created outer
// block's BlockRealize.
func Blockize(state *sref.ScheduleState, loopRef *sref.StmtSRef, opts ...Option) (*sref.StmtSRef, error) {
	o := resolveOptions(opts)
	outer, reuse, err := blockizeImpl(state, loopRef, o)
	if err != nil {
		return nil, err
	}
	state.Replace(sref.ReplaceSpec{Old: loopRef, New: outer, BlockReuse: reuse})
	return state.GetBlockSRef(outer.Block), nil
}
