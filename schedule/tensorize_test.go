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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/internal/demo"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/sref"
)

// fmaShapedBlock builds a single-point reduction block with the same shape
// as demo.FMAIntrinsic's description, so it matches structurally without
// first needing to be blockized.
func fmaShapedBlock() *ir.BlockRealize {
	x := ir.NewBuffer("x", []ir.Expr{ir.One(ir.Int32)}, ir.Fp32)
	y := ir.NewBuffer("y", []ir.Expr{ir.One(ir.Int32)}, ir.Fp32)
	z := ir.NewBuffer("z", []ir.Expr{ir.One(ir.Int32)}, ir.Fp32)
	vi := ir.NewIterVar("vi", ir.RangeFromExtent(ir.One(ir.Int32)), ir.DataPar)
	vj := ir.NewIterVar("vj", ir.RangeFromExtent(ir.One(ir.Int32)), ir.DataPar)
	vk := ir.NewIterVar("vk", ir.RangeFromExtent(ir.One(ir.Int32)), ir.CommReduce)
	load := func(b *ir.Buffer) ir.Expr { return &ir.BufferLoad{Buffer: b, Indices: []ir.Expr{ir.Zero(ir.Int32)}} }
	block := &ir.Block{
		IterVars: []*ir.IterVar{vi, vj, vk},
		Reads: []ir.BufferRegion{
			{Buffer: x, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
			{Buffer: y, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
			{Buffer: z, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
		},
		Writes:   []ir.BufferRegion{{Buffer: z, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}}},
		NameHint: "fma_site",
		Body: &ir.BufferStore{
			Buffer:  z,
			Indices: []ir.Expr{ir.Zero(ir.Int32)},
			Value:   ir.NewBinary(ir.Add, load(z), ir.NewBinary(ir.Mul, load(x), load(y))),
		},
	}
	return ir.NewBlockRealize([]ir.Expr{ir.Zero(ir.Int32), ir.Zero(ir.Int32), ir.Zero(ir.Int32)}, block)
}

func TestTensorizeSubstitutesMatchingBlock(t *testing.T) {
	realize := fmaShapedBlock()
	state := sref.New(realize)
	intrinsic := demo.FMAIntrinsic("fma")

	outRef, err := Tensorize(state, state.Root, intrinsic)
	require.NoError(t, err)

	newRealize, ok := outRef.Stmt.(*ir.BlockRealize)
	require.True(t, ok)
	require.Len(t, newRealize.Block.MatchBuffers, 3)

	wantOrder := make([]*ir.Buffer, len(intrinsic.Impl.Params))
	for i, p := range intrinsic.Impl.Params {
		wantOrder[i] = intrinsic.Impl.BufferMap[p]
	}
	for i, mb := range newRealize.Block.MatchBuffers {
		require.Same(t, wantOrder[i], mb.Source)
	}
}

func TestTensorizeKeepsBlockAnnotationOnConflict(t *testing.T) {
	realize := fmaShapedBlock()
	realize.Block.Annotations = map[string]any{"layout": "block-owned"}
	state := sref.New(realize)

	intrinsic := demo.FMAIntrinsic("fma")
	implBlock := intrinsic.Impl.Body.(*ir.BlockRealize).Block
	implBlock.Annotations = map[string]any{"layout": "intrinsic-owned", "extra": "kept"}

	outRef, err := Tensorize(state, state.Root, intrinsic)
	require.NoError(t, err)

	newRealize := outRef.Stmt.(*ir.BlockRealize)
	require.Equal(t, "block-owned", newRealize.Block.Annotations["layout"])
	require.Equal(t, "kept", newRealize.Block.Annotations["extra"])
}

func TestTensorizeFailsOnStructuralMismatch(t *testing.T) {
	z := ir.NewBuffer("z", []ir.Expr{ir.One(ir.Int32)}, ir.Fp32)
	block := &ir.Block{
		NameHint: "mismatch",
		Writes:   []ir.BufferRegion{{Buffer: z, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}}},
		Body:     &ir.BufferStore{Buffer: z, Indices: []ir.Expr{ir.Zero(ir.Int32)}, Value: ir.Zero(ir.Fp32)},
	}
	realize := ir.NewBlockRealize(nil, block)
	state := sref.New(realize)
	intrinsic := demo.FMAIntrinsic("fma")

	_, err := Tensorize(state, state.Root, intrinsic)
	require.Error(t, err)
	var target *TensorizeNotMatchedError
	require.ErrorAs(t, err, &target)
}
