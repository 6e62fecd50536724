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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullRegionCoversWholeShape(t *testing.T) {
	buf := NewBuffer("A", []Expr{NewIntImm(4, Int32), NewIntImm(8, Int32)}, Fp32)
	region := buf.FullRegion()
	require.Len(t, region.Region, 2)
	require.Same(t, buf, region.Buffer)
	v, _ := IsConstInt(region.Region[1].Extent)
	require.EqualValues(t, 8, v)
}

func TestFlattenDropsNilsAndSplicesNested(t *testing.T) {
	a := &BufferStore{}
	b := &BufferStore{}
	nested := Flatten(a, b)
	got := Flatten(nil, nested, nil)
	seq, ok := got.(*SeqStmt)
	require.True(t, ok)
	require.Len(t, seq.Seq, 2)
}

func TestFlattenCollapsesSingleElement(t *testing.T) {
	a := &BufferStore{}
	got := Flatten(a, nil)
	require.Same(t, a, got)
}

func TestNewIterVarAllocatesFreshVar(t *testing.T) {
	iv := NewIterVar("vi", RangeFromExtent(NewIntImm(4, Int32)), DataPar)
	require.Equal(t, "vi", iv.V.Name)
	require.Equal(t, Int32, iv.V.DType)
}
