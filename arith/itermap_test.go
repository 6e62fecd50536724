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

package arith

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/ir"
)

func TestSubspaceDivideClassifiesOuterAndInner(t *testing.T) {
	outer := ir.NewVar("xo", ir.Int32)
	inner := ir.NewVar("xi", ir.Int32)

	extent := ir.NewIntImm(8, ir.Int32)
	iv := ir.NewIterVar("v", ir.RangeFromExtent(extent), ir.DataPar)

	divisions, ok := SubspaceDivide(
		[]ir.Expr{outer},
		[]*ir.IterVar{iv},
		ir.True(),
		[]*ir.Var{outer},
		[]*ir.Var{inner},
	)
	require.True(t, ok)
	require.Len(t, divisions, 1)
	require.Same(t, outer, divisions[0][0].Source)
	require.Equal(t, inner.DType, divisions[0][1].Source.Type())
}

func TestSubspaceDivideFailsOnMixedBinding(t *testing.T) {
	outer := ir.NewVar("xo", ir.Int32)
	inner := ir.NewVar("xi", ir.Int32)
	mixed := ir.NewBinary(ir.Add, outer, inner)

	extent := ir.NewIntImm(8, ir.Int32)
	iv := ir.NewIterVar("v", ir.RangeFromExtent(extent), ir.DataPar)

	_, ok := SubspaceDivide(
		[]ir.Expr{mixed},
		[]*ir.IterVar{iv},
		ir.True(),
		[]*ir.Var{outer},
		[]*ir.Var{inner},
	)
	require.False(t, ok)
}

func TestSubspaceDivideFailsOnNonTruePredicate(t *testing.T) {
	outer := ir.NewVar("xo", ir.Int32)
	extent := ir.NewIntImm(8, ir.Int32)
	iv := ir.NewIterVar("v", ir.RangeFromExtent(extent), ir.DataPar)

	pred := &ir.CmpExpr{Op: ir.LT, X: outer, Y: ir.NewIntImm(4, ir.Int32)}
	_, ok := SubspaceDivide([]ir.Expr{outer}, []*ir.IterVar{iv}, pred, []*ir.Var{outer}, nil)
	require.False(t, ok)
}

func TestSubspaceDivideUsesUnitMarkWhenUnused(t *testing.T) {
	outer := ir.NewVar("xo", ir.Int32)
	inner := ir.NewVar("xi", ir.Int32)
	v := ir.NewVar("v", ir.Int32)

	extent := ir.NewIntImm(8, ir.Int32)
	iv := ir.NewIterVar("v", ir.RangeFromExtent(extent), ir.DataPar)

	divisions, ok := SubspaceDivide([]ir.Expr{v}, []*ir.IterVar{iv}, ir.True(), []*ir.Var{outer}, []*ir.Var{inner})
	require.True(t, ok)
	outerVal, _ := ir.IsConstInt(divisions[0][0].Source)
	innerVal, _ := ir.IsConstInt(divisions[0][1].Source)
	require.EqualValues(t, 0, outerVal)
	require.EqualValues(t, 0, innerVal)
}
