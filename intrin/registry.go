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

// Package intrin registers named tensor intrinsics and structurally matches
// a block of the scheduled IR against an intrinsic's description, the way
// the schedule package's Tensorize primitive needs to before it can
// substitute in a hardware-specific implementation.
package intrin

import (
	"fmt"
	"sync"

	"github.com/tensorsched/tir/ir"
)

// Registry is a name -> TensorIntrinsic lookup table. The zero value is an
// empty, ready-to-use Registry.
type Registry struct {
	mu    sync.RWMutex
	table map[string]*ir.TensorIntrinsic
}

// Default is the package-level registry Register/Resolve operate against,
// mirroring the single global TensorIntrin table schedule instructions
// look named intrinsics up in.
var Default = &Registry{}

// Register adds intrin to r under intrin.Name, overwriting any existing
// entry of the same name.
func (r *Registry) Register(intrin *ir.TensorIntrinsic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.table == nil {
		r.table = make(map[string]*ir.TensorIntrinsic)
	}
	r.table[intrin.Name] = intrin
}

// Resolve looks up a previously registered intrinsic by name.
func (r *Registry) Resolve(name string) (*ir.TensorIntrinsic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	intrin, ok := r.table[name]
	if !ok {
		return nil, fmt.Errorf("intrin: no tensor intrinsic registered under name %q", name)
	}
	return intrin, nil
}

// Register adds intrin to the default registry.
func Register(intrin *ir.TensorIntrinsic) { Default.Register(intrin) }

// Resolve looks up intrin by name in the default registry.
func Resolve(name string) (*ir.TensorIntrinsic, error) { return Default.Resolve(name) }
