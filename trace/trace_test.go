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

package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockizeKindIsRegistered(t *testing.T) {
	kind, ok := Lookup("Blockize")
	require.True(t, ok)
	require.False(t, kind.IsPure)
}

func TestAsPythonRendersBlockizeThenTensorize(t *testing.T) {
	tr := &Trace{}
	tr.Blockize("loop2", false, "b0")
	tr.Tensorize("b0", "fma", true)

	got := tr.AsPython()
	want := "b0 = sch.blockize(loop2, preserve_unit_iters=False)\n" +
		"sch.tensorize(b0, tensor_intrin=\"fma\", preserve_unit_iters=True)"
	require.Equal(t, want, got)
}

func TestAPICallRendersOutputAssignment(t *testing.T) {
	call := NewAPICall("GetBlock").Input("\"update\"").SingleOutput("b0")
	require.Equal(t, `b0 = sch.getBlock("update")`, call.String())
}
