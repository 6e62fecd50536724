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

package demo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorsched/tir/ir"
)

func TestMatmulAccumulateBuildsThreeDeepLoopNest(t *testing.T) {
	fn, a, b, c := MatmulAccumulate(4, 8, 16)
	require.Equal(t, "matmul", fn.Name)
	require.Len(t, fn.Params, 3)

	loopI, ok := fn.Body.(*ir.For)
	require.True(t, ok)
	loopJ, ok := loopI.Body.(*ir.For)
	require.True(t, ok)
	loopK, ok := loopJ.Body.(*ir.For)
	require.True(t, ok)

	realize, ok := loopK.Body.(*ir.BlockRealize)
	require.True(t, ok)
	require.Len(t, realize.Block.IterVars, 3)
	require.NotNil(t, realize.Block.Init)

	require.Same(t, a, fn.BufferMap[a.Data])
	require.Same(t, b, fn.BufferMap[b.Data])
	require.Same(t, c, fn.BufferMap[c.Data])
}

func TestFMAIntrinsicDescAndImplMatchShape(t *testing.T) {
	intrinsic := FMAIntrinsic("fma")
	require.Equal(t, "fma", intrinsic.Name)

	descRealize := intrinsic.Desc.Body.(*ir.BlockRealize)
	implRealize := intrinsic.Impl.Body.(*ir.BlockRealize)
	require.Len(t, descRealize.Block.IterVars, 3)
	require.Len(t, implRealize.Block.IterVars, 3)
	require.Equal(t, ir.DataPar, descRealize.Block.IterVars[0].IterType)
	require.Equal(t, ir.CommReduce, descRealize.Block.IterVars[2].IterType)
}
