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
	"fmt"
	"sync/atomic"
)

var varCounter int64

// Var is a scalar variable. Its identity is the pointer, not the name: two
// Vars with the same Name are distinct unless they are the same pointer. ID
// is purely diagnostic (arena-id-like, per the design notes on fresh variable
// identity) and only used to make String() output stable and readable.
type Var struct {
	ID    int64
	Name  string
	DType DType
}

func (v *Var) isNode() {}
func (v *Var) isExpr() {}

// Type returns the variable's dtype.
func (v *Var) Type() DType { return v.DType }

// NewVar allocates a fresh variable. Every call returns a distinct identity
// even if Name collides with an existing variable.
func NewVar(name string, dtype DType) *Var {
	return &Var{ID: atomic.AddInt64(&varCounter, 1), Name: name, DType: dtype}
}

// CopyWithSuffix returns a fresh variable with the same dtype and
// Name+suffix. Used to mint the "_o"/"_i"/"_init" variables blockize and
// tensorize generate (spec §4.4, §4.5).
func (v *Var) CopyWithSuffix(suffix string) *Var {
	return NewVar(v.Name+suffix, v.DType)
}

func (v *Var) String() string {
	return fmt.Sprintf("%s.%d", v.Name, v.ID)
}
