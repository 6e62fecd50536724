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

package ir

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIdentityNotName(t *testing.T) {
	a := NewVar("i", Int32)
	b := NewVar("i", Int32)
	require.NotEqual(t, a, b)
	require.NotSame(t, a, b)
	require.Equal(t, a.Name, b.Name)
}

func TestCopyWithSuffixPreservesDType(t *testing.T) {
	v := NewVar("i", Int32)
	o := v.CopyWithSuffix("_o")
	require.Equal(t, "i_o", o.Name)
	require.Equal(t, v.DType, o.DType)
	require.NotSame(t, v, o)
}

func TestVisitExprStopsOnFalse(t *testing.T) {
	x := NewVar("x", Int32)
	y := NewVar("y", Int32)
	e := NewBinary(Add, x, y)

	var seen []Expr
	VisitExpr(e, func(n Expr) bool {
		seen = append(seen, n)
		if n == Expr(e) {
			return false
		}
		return true
	})
	require.Len(t, seen, 1)
}

func TestMutateExprReplacesVar(t *testing.T) {
	x := NewVar("x", Int32)
	y := NewVar("y", Int32)
	e := NewBinary(Add, x, One(Int32))

	got := MutateExpr(e, func(n Expr) Expr {
		if n == Expr(x) {
			return y
		}
		return nil
	})
	bin, ok := got.(*BinaryExpr)
	require.True(t, ok)
	require.Same(t, y, bin.X)
}

func TestBufferLoadType(t *testing.T) {
	buf := NewBuffer("A", []Expr{NewIntImm(4, Int32)}, Fp32)
	load := &BufferLoad{Buffer: buf, Indices: []Expr{Zero(Int32)}}
	require.Equal(t, Fp32, load.Type())
}

func TestPrintExprParenthesizes(t *testing.T) {
	x := NewVar("x", Int32)
	e := NewBinary(Add, x, One(Int32))
	require.Equal(t, "(x."+strconv.FormatInt(x.ID, 10)+" + 1)", PrintExpr(e))
}
