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

package intrin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/internal/demo"
	"github.com/tensorsched/tir/ir"
)

func TestMatchSucceedsOnStructurallyEquivalentBlock(t *testing.T) {
	intrinsic := demo.FMAIntrinsic("fma")
	desc := intrinsic.Desc.Body.(*ir.BlockRealize)
	impl := intrinsic.Impl.Body.(*ir.BlockRealize)

	res, err := NewComparator().Match(impl, desc)
	require.NoError(t, err)
	require.Len(t, res.DescToCurrent, 3)
	require.Len(t, res.BaseIndices, 3)
}

func TestMatchFailsOnIterVarCountMismatch(t *testing.T) {
	intrinsic := demo.FMAIntrinsic("fma")
	desc := intrinsic.Desc.Body.(*ir.BlockRealize)

	target := &ir.BlockRealize{
		IterValues: nil,
		Predicate:  ir.True(),
		Block: &ir.Block{
			IterVars: nil,
			Reads:    desc.Block.Reads,
			Writes:   desc.Block.Writes,
		},
	}
	_, err := NewComparator().Match(target, desc)
	require.Error(t, err)
}

func TestMatchFailsOnDTypeMismatch(t *testing.T) {
	intrinsic := demo.FMAIntrinsic("fma")
	desc := intrinsic.Desc.Body.(*ir.BlockRealize)

	wrongDType := ir.NewBuffer("x", []ir.Expr{ir.One(ir.Int32)}, ir.Int32)
	target := &ir.BlockRealize{
		Predicate: ir.True(),
		Block: &ir.Block{
			IterVars: desc.Block.IterVars,
			Reads: []ir.BufferRegion{
				{Buffer: wrongDType, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
				desc.Block.Reads[1],
				desc.Block.Reads[2],
			},
			Writes: desc.Block.Writes,
		},
	}
	_, err := NewComparator().Match(target, desc)
	require.Error(t, err)
}
