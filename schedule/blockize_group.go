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

package schedule

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/tensorsched/tir/arith"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/ir/subst"
	"github.com/tensorsched/tir/sref"
)

// collectOuterBindings walks the ancestor chain from lca up to (but not
// including) scopeRoot, returning one IterVar/binding pair per enclosing
// loop, ordered ancestor-first: the loop nearest the function root comes
// first. Only loops contribute; the chain ends below the nearest enclosing
// BlockRealize, so it holds no block whose iter vars could be collected.
func collectOuterBindings(lca, scopeRoot *sref.StmtSRef) (outerIterVars []*ir.IterVar, outerBindings []ir.Expr, loopVarSubst subst.VarMap) {
	var chain []*sref.StmtSRef
	for cur := lca.Parent; cur != nil && cur != scopeRoot; cur = cur.Parent {
		chain = append(chain, cur)
	}
	// reverse to ancestor-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	loopVarSubst = subst.VarMap{}
	for _, ref := range chain {
		loop, ok := ref.Stmt.(*ir.For)
		if !ok {
			continue
		}
		outerVar := loop.LoopVar.CopyWithSuffix("")
		outerIterVars = append(outerIterVars, &ir.IterVar{
			Dom:      ir.RangeFromExtent(loop.Extent),
			V:        outerVar,
			IterType: ir.Opaque,
		})
		outerBindings = append(outerBindings, loop.LoopVar)
		loopVarSubst[loop.LoopVar] = outerVar
	}
	return outerIterVars, outerBindings, loopVarSubst
}

// BlockizeBlocks groups a consecutive run of sibling blocks into a single
// new block. Every block in blockRefs must share the same parent SeqStmt
// and occupy a contiguous range of its Seq.
func BlockizeBlocks(state *sref.ScheduleState, blockRefs []*sref.StmtSRef, opts ...Option) (*sref.StmtSRef, error) {
	_ = resolveOptions(opts)
	if len(blockRefs) == 0 {
		panic("schedule: BlockizeBlocks requires at least one target block")
	}
	blocks := lo.Map(blockRefs, func(ref *sref.StmtSRef, _ int) *ir.Block {
		return ref.Stmt.(*ir.BlockRealize).Block
	})
	parent := blockRefs[0].Parent
	seq, ok := parent.Stmt.(*ir.SeqStmt)
	if !ok {
		if len(blockRefs) != 1 {
			panic("schedule: Target blocks must be consecutive!")
		}
	} else {
		indices := lo.Map(blockRefs, func(ref *sref.StmtSRef, _ int) int { return ref.SeqIndex })
		for _, ref := range blockRefs {
			if ref.Parent != parent {
				panic("schedule: Target blocks must be consecutive!")
			}
		}
		sorted := append([]int{}, indices...)
		sort.Ints(sorted)
		for i := 1; i < len(sorted); i++ {
			if sorted[i] != sorted[i-1]+1 {
				panic("schedule: Target blocks must be consecutive!")
			}
		}
		_ = seq
	}

	a := arith.NewAnalyzer()
	scopeRoot := state.GetScopeRoot(blockRefs[0])
	lca := sref.GetSRefLowestCommonAncestor(blockRefs)
	outerIterVars, outerBindings, loopVarSubst := collectOuterBindings(lca, scopeRoot)
	if len(outerIterVars) == 0 {
		dummy := ir.NewIterVar("init_o", ir.RangeFromExtent(ir.One(ir.Int32)), ir.DataPar)
		outerIterVars = []*ir.IterVar{dummy}
		outerBindings = []ir.Expr{ir.Zero(ir.Int32)}
	}

	for _, b := range blocks {
		if b.Init == nil {
			continue
		}
		for _, iv := range outerIterVars {
			if iv.IterType == ir.CommReduce {
				panic("schedule: no reduction iter vars allowed for the outer loops when blockize multiple blocks")
			}
		}
	}

	reuse := subst.BlockReuse{}
	nameParts := make([]string, len(blockRefs))
	var reads, writes []ir.BufferRegion
	realizes := make([]ir.Stmt, len(blockRefs))
	for i, ref := range blockRefs {
		br := ref.Stmt.(*ir.BlockRealize)
		block := br.Block
		nameParts[i] = block.NameHint

		innerSubst := subst.VarMap{}
		innerIterVars := make([]*ir.IterVar, len(block.IterVars))
		innerDom := arith.DomainMap{}
		for j, iv := range block.IterVars {
			innerVar := iv.V.CopyWithSuffix("_i")
			innerIter := &ir.IterVar{Dom: ir.RangeFromExtent(iv.Dom.Extent), V: innerVar, IterType: iv.IterType}
			innerSubst[iv.V] = innerVar
			innerIterVars[j] = innerIter
			innerDom[innerVar] = arith.FromRange(a, innerIter.Dom)
		}

		combined := subst.VarMap{}
		for k, v := range loopVarSubst {
			combined[k] = v
		}
		for k, v := range innerSubst {
			combined[k] = v
		}

		var newBlock *ir.Block
		if len(combined) == 0 {
			clone := *block
			newBlock = &clone
			reuse[block] = newBlock
		} else {
			newBlock = subst.SubstituteBlock(block, combined, reuse, a)
		}
		newBlock.IterVars = innerIterVars

		newIterValues := make([]ir.Expr, len(br.IterValues))
		for j, v := range br.IterValues {
			newIterValues[j] = subst.SubstituteExpr(v, loopVarSubst, a)
		}
		newPredicate := subst.SubstituteExpr(br.Predicate, loopVarSubst, a)
		realizes[i] = &ir.BlockRealize{IterValues: newIterValues, Predicate: newPredicate, Block: newBlock}

		if len(innerDom) > 0 {
			reads = append(reads, EvalSetRegions(a, newBlock.Reads, innerDom)...)
			writes = append(writes, EvalSetRegions(a, newBlock.Writes, innerDom)...)
		} else {
			reads = append(reads, newBlock.Reads...)
			writes = append(writes, newBlock.Writes...)
		}
	}

	innerBody := ir.Flatten(realizes...)
	outerBlock := &ir.Block{
		IterVars: outerIterVars,
		Reads:    UnionRegions(a, reads),
		Writes:   UnionRegions(a, writes),
		NameHint: "outer_" + strings.Join(nameParts, "_") + "_",
		Body:     innerBody,
	}
	outerRealize := &ir.BlockRealize{IterValues: outerBindings, Predicate: ir.True(), Block: outerBlock}

	// Replace only the group's own statements; if they are the entirety of
	// a SeqStmt this degenerates to replacing the SeqStmt itself.
	if seq != nil && len(seq.Seq) != len(blockRefs) {
		lo0 := lo.Min(lo.Map(blockRefs, func(ref *sref.StmtSRef, _ int) int { return ref.SeqIndex }))
		newSeq := make([]ir.Stmt, 0, len(seq.Seq)-len(blockRefs)+1)
		newSeq = append(newSeq, seq.Seq[:lo0]...)
		newSeq = append(newSeq, outerRealize)
		newSeq = append(newSeq, seq.Seq[lo0+len(blockRefs):]...)
		state.Replace(sref.ReplaceSpec{Old: parent, New: ir.Flatten(newSeq...), BlockReuse: reuse})
	} else {
		state.Replace(sref.ReplaceSpec{Old: parent, New: outerRealize, BlockReuse: reuse})
	}
	return state.GetBlockSRef(outerBlock), nil
}
