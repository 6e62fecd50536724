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
	"fmt"

	"github.com/tensorsched/tir/ir"
)

// ScheduleError is the common interface every error this package returns
// satisfies, letting a caller render a short diagnostic (FastErrorString)
// or a detailed one (DetailRenderTemplate) and recover the IR locations the
// error pertains to (LocationsOfInterest).
type ScheduleError interface {
	error
	FastErrorString() string
	DetailRenderTemplate() string
	LocationsOfInterest() []ir.Node
}

// SubspaceNotDivisibleError is returned by Blockize when the target block's
// iter bindings cannot be divided into an outer subspace (the loops above
// the blockized loop) and an inner subspace (the blockized loop and the
// loops below it).
type SubspaceNotDivisibleError struct {
	ScopeLoop  *ir.For
	InnerBlock *ir.Block
}

func (e *SubspaceNotDivisibleError) Error() string { return e.FastErrorString() }

func (e *SubspaceNotDivisibleError) FastErrorString() string {
	return "ScheduleError: The bindings of the inner block can not be blockized."
}

func (e *SubspaceNotDivisibleError) DetailRenderTemplate() string {
	return fmt.Sprintf(
		"ScheduleError: The bindings of the inner block %s can not be blockized by the loops starting at %s.",
		e.InnerBlock.NameHint, ir.PrintStmt(e.ScopeLoop))
}

func (e *SubspaceNotDivisibleError) LocationsOfInterest() []ir.Node {
	return []ir.Node{e.InnerBlock, e.ScopeLoop}
}

// NotSingleChildBlockError is returned when a loop targeted by Blockize
// does not have a single BlockRealize as its only transitive non-loop
// descendant.
type NotSingleChildBlockError struct {
	Loop *ir.For
}

func (e *NotSingleChildBlockError) Error() string { return e.FastErrorString() }

func (e *NotSingleChildBlockError) FastErrorString() string {
	return "ScheduleError: The loop is not the sole parent of exactly one leaf block."
}

func (e *NotSingleChildBlockError) DetailRenderTemplate() string {
	return fmt.Sprintf("ScheduleError: The loop %s does not have a single child block.", ir.PrintStmt(e.Loop))
}

func (e *NotSingleChildBlockError) LocationsOfInterest() []ir.Node { return []ir.Node{e.Loop} }

// TensorizeNotMatchedError is returned by Tensorize when the target block's
// structure cannot be matched against the tensor intrinsic's description.
type TensorizeNotMatchedError struct {
	Block  *ir.Block
	Reason string
}

func (e *TensorizeNotMatchedError) Error() string { return e.FastErrorString() }

func (e *TensorizeNotMatchedError) FastErrorString() string {
	return "ScheduleError: The target block does not match the given tensor intrinsic."
}

func (e *TensorizeNotMatchedError) DetailRenderTemplate() string {
	return fmt.Sprintf("ScheduleError: The block %s does not match the tensor intrinsic: %s.", e.Block.NameHint, e.Reason)
}

func (e *TensorizeNotMatchedError) LocationsOfInterest() []ir.Node { return []ir.Node{e.Block} }
