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

func TestSimplifyFoldsConstants(t *testing.T) {
	a := NewAnalyzer()
	e := ir.NewBinary(ir.Add, ir.NewIntImm(2, ir.Int32), ir.NewIntImm(3, ir.Int32))
	got := a.Simplify(e)
	v, ok := ir.IsConstInt(got)
	require.True(t, ok)
	require.EqualValues(t, 5, v)
}

func TestSimplifyDropsAdditiveIdentity(t *testing.T) {
	a := NewAnalyzer()
	x := ir.NewVar("x", ir.Int32)
	got := a.Simplify(ir.NewBinary(ir.Add, x, ir.Zero(ir.Int32)))
	require.Same(t, x, got)
}

func TestSimplifyDropsMultiplicativeIdentity(t *testing.T) {
	a := NewAnalyzer()
	x := ir.NewVar("x", ir.Int32)
	got := a.Simplify(ir.NewBinary(ir.Mul, ir.One(ir.Int32), x))
	require.Same(t, x, got)
}

func TestFloorDivFloorModNegative(t *testing.T) {
	require.EqualValues(t, -3, floorDiv(-7, 3))
	require.EqualValues(t, 2, floorMod(-7, 3))
	require.EqualValues(t, -3, floorDiv(7, -3))
	require.EqualValues(t, -2, floorMod(7, -3))
}

func TestCanProveEqualConstants(t *testing.T) {
	a := NewAnalyzer()
	require.True(t, a.CanProveEqual(ir.NewIntImm(4, ir.Int32), ir.NewBinary(ir.Add, ir.NewIntImm(2, ir.Int32), ir.NewIntImm(2, ir.Int32))))
	require.False(t, a.CanProveEqual(ir.NewIntImm(4, ir.Int32), ir.NewIntImm(5, ir.Int32)))
}
