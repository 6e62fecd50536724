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

package sref

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/ir"
)

// buildNest returns a two-deep loop nest:
//
//	for i in [0, 4):
//	  for j in [0, 4):
//	    block(vi=i, vj=j) { A[vi, vj] = 0 }
func buildNest() (*ir.For, *ir.Block) {
	a := ir.NewBuffer("A", []ir.Expr{ir.NewIntImm(4, ir.Int32), ir.NewIntImm(4, ir.Int32)}, ir.Fp32)
	i := ir.NewVar("i", ir.Int32)
	j := ir.NewVar("j", ir.Int32)
	vi := ir.NewIterVar("vi", ir.RangeFromExtent(ir.NewIntImm(4, ir.Int32)), ir.DataPar)
	vj := ir.NewIterVar("vj", ir.RangeFromExtent(ir.NewIntImm(4, ir.Int32)), ir.DataPar)

	block := &ir.Block{
		IterVars: []*ir.IterVar{vi, vj},
		Reads:    nil,
		Writes:   []ir.BufferRegion{{Buffer: a, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32)), ir.RangeFromExtent(ir.One(ir.Int32))}}},
		NameHint: "block",
		Body:     &ir.BufferStore{Buffer: a, Indices: []ir.Expr{vi.V, vj.V}, Value: ir.Zero(ir.Fp32)},
	}
	realize := ir.NewBlockRealize([]ir.Expr{i, j}, block)
	inner := ir.NewFor(j, ir.NewIntImm(4, ir.Int32), realize)
	outer := ir.NewFor(i, ir.NewIntImm(4, ir.Int32), inner)
	return outer, block
}

func TestNewIndexesLoopsAndBlock(t *testing.T) {
	outer, block := buildNest()
	state := New(outer)

	require.Same(t, outer, state.Root.Stmt)
	require.NotNil(t, state.GetSRef(outer.Body))
	require.NotNil(t, state.GetBlockSRef(block))
	require.True(t, state.IsAffineBlockBinding(block))
}

func TestGetScopeRootFindsEnclosingBlockRealize(t *testing.T) {
	outer, block := buildNest()
	state := New(outer)

	blockSref := state.GetBlockSRef(block)
	require.Nil(t, state.GetScopeRoot(blockSref))

	wrapped := New(ir.NewBlockRealize(nil, &ir.Block{NameHint: "root", Body: outer}))
	innerFor := outer.Body.(*ir.For)
	innerRef := wrapped.GetSRef(innerFor)
	require.Same(t, wrapped.Root, wrapped.GetScopeRoot(innerRef))
}

func TestGetSRefLowestCommonAncestor(t *testing.T) {
	outer, block := buildNest()
	state := New(outer)

	innerFor := outer.Body.(*ir.For)
	innerRef := state.GetSRef(innerFor)
	blockRef := state.GetBlockSRef(block)

	lca := GetSRefLowestCommonAncestor([]*StmtSRef{innerRef, blockRef})
	require.Same(t, innerRef, lca)

	lcaSelf := GetSRefLowestCommonAncestor([]*StmtSRef{blockRef})
	require.Same(t, blockRef, lcaSelf)
}

func TestReplaceRebuildsState(t *testing.T) {
	outer, block := buildNest()
	state := New(outer)

	innerFor := outer.Body.(*ir.For)
	innerRef := state.GetSRef(innerFor)

	replacement := ir.NewFor(innerFor.LoopVar, ir.NewIntImm(8, ir.Int32), innerFor.Body)
	state.Replace(ReplaceSpec{Old: innerRef, New: replacement})

	newOuter := state.Root.Stmt.(*ir.For)
	newInner := newOuter.Body.(*ir.For)
	extent, ok := ir.IsConstInt(newInner.Extent)
	require.True(t, ok)
	require.EqualValues(t, 8, extent)
	require.NotNil(t, state.GetBlockSRef(block))
}
