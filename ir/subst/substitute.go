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

// Package subst rewrites variable occurrences in an ir.Stmt/ir.Expr tree and
// tracks which ir.Block values were cloned in the process, so schedule
// primitives can carry sref reuse information through a rewrite.
package subst

import (
	"github.com/tensorsched/tir/arith"
	"github.com/tensorsched/tir/ir"
)

// VarMap is a substitution from variable to replacement expression.
type VarMap map[*ir.Var]ir.Expr

// BlockReuse maps an original ir.Block to the block that replaces it after
// a rewrite. Schedule primitives feed this
// into ScheduleState.Replace so sref identities survive the rewrite.
type BlockReuse map[*ir.Block]*ir.Block

// Substitute rewrites every free occurrence of a variable in sub throughout
// stmt, simplifying each rewritten expression with analyzer (may be nil, in
// which case no simplification is performed), and recording into reuse (may
// be nil) a mapping from each original ir.Block encountered to the rewritten
// block that replaces it.
func Substitute(stmt ir.Stmt, sub VarMap, reuse BlockReuse, analyzer *arith.Analyzer) ir.Stmt {
	if len(sub) == 0 {
		return stmt
	}
	exprFn := func(e ir.Expr) ir.Expr {
		v, ok := e.(*ir.Var)
		if !ok {
			if analyzer != nil {
				return analyzer.Simplify(e)
			}
			return e
		}
		if repl, ok := sub[v]; ok {
			return repl
		}
		return e
	}
	stmtFn := func(s ir.Stmt) ir.Stmt {
		br, ok := s.(*ir.BlockRealize)
		if !ok || reuse == nil {
			return s
		}
		reuse[br.Block] = br.Block
		return s
	}
	return ir.MutateStmt(stmt, stmtFn, exprFn)
}

// SubstituteExpr rewrites every free occurrence of a variable in sub inside
// e, simplifying with analyzer if non-nil.
func SubstituteExpr(e ir.Expr, sub VarMap, analyzer *arith.Analyzer) ir.Expr {
	if len(sub) == 0 {
		return e
	}
	return ir.MutateExpr(e, func(n ir.Expr) ir.Expr {
		v, ok := n.(*ir.Var)
		if !ok {
			if analyzer != nil {
				return analyzer.Simplify(n)
			}
			return n
		}
		if repl, ok := sub[v]; ok {
			return repl
		}
		return n
	})
}

// SubstituteBlock rewrites a Block's reads, writes, body and init under sub,
// returning a new Block and recording the reuse pair block -> result in
// reuse (if non-nil). The block's own iter vars are never substituted
// (callers substitute the IterValues of its BlockRealize instead).
func SubstituteBlock(block *ir.Block, sub VarMap, reuse BlockReuse, analyzer *arith.Analyzer) *ir.Block {
	if len(sub) == 0 {
		return block
	}
	clone := *block
	clone.Reads = substituteRegions(block.Reads, sub, analyzer)
	clone.Writes = substituteRegions(block.Writes, sub, analyzer)
	clone.Body = Substitute(block.Body, sub, reuse, analyzer)
	if block.Init != nil {
		clone.Init = Substitute(block.Init, sub, reuse, analyzer)
	}
	if reuse != nil {
		reuse[block] = &clone
	}
	return &clone
}

func substituteRegions(regions []ir.BufferRegion, sub VarMap, analyzer *arith.Analyzer) []ir.BufferRegion {
	out := make([]ir.BufferRegion, len(regions))
	for i, r := range regions {
		ranges := make([]ir.Range, len(r.Region))
		for j, rng := range r.Region {
			ranges[j] = ir.Range{
				Min:    SubstituteExpr(rng.Min, sub, analyzer),
				Extent: SubstituteExpr(rng.Extent, sub, analyzer),
			}
		}
		out[i] = ir.BufferRegion{Buffer: r.Buffer, Region: ranges}
	}
	return out
}
