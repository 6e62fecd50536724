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

package subst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/arith"
	"github.com/tensorsched/tir/ir"
)

func TestSubstituteExprReplacesVarAndSimplifies(t *testing.T) {
	x := ir.NewVar("x", ir.Int32)
	e := ir.NewBinary(ir.Add, x, ir.Zero(ir.Int32))

	got := SubstituteExpr(e, VarMap{x: ir.NewIntImm(3, ir.Int32)}, arith.NewAnalyzer())
	v, ok := ir.IsConstInt(got)
	require.True(t, ok)
	require.EqualValues(t, 3, v)
}

func TestSubstituteRewritesBufferStoreIndices(t *testing.T) {
	buf := ir.NewBuffer("A", []ir.Expr{ir.NewIntImm(8, ir.Int32)}, ir.Fp32)
	i := ir.NewVar("i", ir.Int32)
	store := &ir.BufferStore{Buffer: buf, Indices: []ir.Expr{i}, Value: ir.Zero(ir.Fp32)}

	j := ir.NewVar("j", ir.Int32)
	got := Substitute(store, VarMap{i: j}, nil, nil)
	newStore, ok := got.(*ir.BufferStore)
	require.True(t, ok)
	require.Same(t, j, newStore.Indices[0])
}

func TestSubstituteRecordsBlockReuse(t *testing.T) {
	buf := ir.NewBuffer("A", []ir.Expr{ir.NewIntImm(8, ir.Int32)}, ir.Fp32)
	i := ir.NewVar("i", ir.Int32)
	block := &ir.Block{
		NameHint: "b",
		Body:     &ir.BufferStore{Buffer: buf, Indices: []ir.Expr{i}, Value: ir.Zero(ir.Fp32)},
	}
	realize := ir.NewBlockRealize([]ir.Expr{i}, block)

	j := ir.NewVar("j", ir.Int32)
	reuse := BlockReuse{}
	got := Substitute(realize, VarMap{i: j}, reuse, nil)
	newBlock := got.(*ir.BlockRealize).Block
	require.NotSame(t, block, newBlock)
	require.Contains(t, reuse, newBlock)
}

func TestSubstituteBlockRewritesReadsAndWrites(t *testing.T) {
	buf := ir.NewBuffer("A", []ir.Expr{ir.NewIntImm(8, ir.Int32)}, ir.Fp32)
	i := ir.NewVar("i", ir.Int32)
	block := &ir.Block{
		NameHint: "b",
		Reads:    []ir.BufferRegion{{Buffer: buf, Region: []ir.Range{{Min: i, Extent: ir.One(ir.Int32)}}}},
		Body:     &ir.BufferStore{Buffer: buf, Indices: []ir.Expr{i}, Value: ir.Zero(ir.Fp32)},
	}

	j := ir.NewVar("j", ir.Int32)
	got := SubstituteBlock(block, VarMap{i: j}, nil, arith.NewAnalyzer())
	require.Same(t, j, got.Reads[0].Region[0].Min)
	require.NotSame(t, block, got)
}
