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

	"github.com/tensorsched/tir/intrin"
	"github.com/tensorsched/tir/internal/xlog"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/ir/subst"
	"github.com/tensorsched/tir/sref"
)

// maxIndexBits returns the widest dtype bit width appearing among any
// region bound in regions, or fallback if regions carries no integer bound.
func maxIndexBits(regions []ir.BufferRegion, fallback int) int {
	best := 0
	for _, br := range regions {
		for _, r := range br.Region {
			if r.Min.Type().IsInt() && r.Min.Type().Bits > best {
				best = r.Min.Type().Bits
			}
		}
	}
	if best == 0 {
		return fallback
	}
	return best
}

// normalizeIndexWidth returns a PrimFunc equivalent to fn but with every
// buffer region's bounds cast to an index dtype of the given bit width, so
// an intrinsic's implementation can be substituted into a scope using a
// wider or narrower index type than the intrinsic was authored against.
func normalizeIndexWidth(fn *ir.PrimFunc, bits int) *ir.PrimFunc {
	br, ok := fn.Body.(*ir.BlockRealize)
	if !ok {
		return fn
	}
	dt := ir.Int64
	if bits <= 32 {
		dt = ir.Int32
	}
	castRegions := func(regions []ir.BufferRegion) []ir.BufferRegion {
		out := make([]ir.BufferRegion, len(regions))
		for i, r := range regions {
			newRegion := make([]ir.Range, len(r.Region))
			for j, rng := range r.Region {
				newRegion[j] = ir.Range{Min: ir.Cast(dt, rng.Min), Extent: ir.Cast(dt, rng.Extent)}
			}
			out[i] = ir.BufferRegion{Buffer: r.Buffer, Region: newRegion}
		}
		return out
	}
	blockClone := *br.Block
	blockClone.Reads = castRegions(br.Block.Reads)
	blockClone.Writes = castRegions(br.Block.Writes)
	clone := *fn
	clone.Body = &ir.BlockRealize{IterValues: br.IterValues, Predicate: br.Predicate, Block: &blockClone}
	return &clone
}

// Tensorize replaces the block or loop at target with the implementation of
// tensorIntrin, after confirming target's body structurally matches the
// intrinsic's description.
func Tensorize(state *sref.ScheduleState, target *sref.StmtSRef, tensorIntrin *ir.TensorIntrinsic, opts ...Option) (*sref.StmtSRef, error) {
	o := resolveOptions(opts)

	var blockRealize *ir.BlockRealize
	var oldBlock *ir.Block
	var blockizeReuse subst.BlockReuse

	switch n := target.Stmt.(type) {
	case *ir.BlockRealize:
		blockRealize = n
		oldBlock = n.Block
	case *ir.For:
		outer, reuse, err := blockizeImpl(state, target, o)
		if err != nil {
			return nil, err
		}
		blockRealize, blockizeReuse = outer, reuse
	default:
		return nil, fmt.Errorf("schedule: Tensorize only supports a Block or a For target, got %T", target.Stmt)
	}

	descRealize, ok := tensorIntrin.Desc.Body.(*ir.BlockRealize)
	if !ok {
		return nil, fmt.Errorf("schedule: tensor intrinsic %q description body is not a single block", tensorIntrin.Name)
	}

	comparator := intrin.NewComparator()
	match, err := comparator.Match(blockRealize, descRealize)
	if err != nil {
		return nil, &TensorizeNotMatchedError{Block: blockRealize.Block, Reason: err.Error()}
	}

	bits := maxIndexBits(blockRealize.Block.Reads, 32)
	if w := maxIndexBits(blockRealize.Block.Writes, bits); w > bits {
		bits = w
	}
	implFn := normalizeIndexWidth(tensorIntrin.Impl, bits)
	implRealize, ok := implFn.Body.(*ir.BlockRealize)
	if !ok {
		return nil, fmt.Errorf("schedule: tensor intrinsic %q implementation body is not a single block", tensorIntrin.Name)
	}
	implBlock := implRealize.Block

	impl2desc := map[*ir.Buffer]*ir.Buffer{}
	for i, param := range tensorIntrin.Desc.Params {
		descBuf := tensorIntrin.Desc.BufferMap[param]
		implParam := tensorIntrin.Impl.Params[i]
		implBuf := tensorIntrin.Impl.BufferMap[implParam]
		impl2desc[implBuf] = descBuf
	}

	implRegion := map[*ir.Buffer][]ir.Range{}
	for _, r := range implBlock.Reads {
		implRegion[r.Buffer] = r.Region
	}
	for _, r := range implBlock.Writes {
		implRegion[r.Buffer] = r.Region
	}

	matchBuffers := make([]ir.MatchBufferRegion, 0, len(tensorIntrin.Impl.Params))
	for _, implParam := range tensorIntrin.Impl.Params {
		implBuf := tensorIntrin.Impl.BufferMap[implParam]
		descBuf, ok := impl2desc[implBuf]
		if !ok {
			continue
		}
		curBuf, ok := match.DescToCurrent[descBuf]
		if !ok {
			return nil, &TensorizeNotMatchedError{Block: blockRealize.Block, Reason: fmt.Sprintf("intrinsic buffer %s has no matched buffer in the target block", descBuf.Name)}
		}
		oldRegion := implRegion[implBuf]
		base := match.BaseIndices[curBuf]
		offset := len(base) - len(oldRegion)
		if offset < 0 {
			return nil, &TensorizeNotMatchedError{Block: blockRealize.Block, Reason: fmt.Sprintf("buffer %s has fewer matched index dimensions than the intrinsic implementation expects", curBuf.Name)}
		}
		newRegion := make([]ir.Range, 0, len(curBuf.Shape))
		for i := 0; i < offset; i++ {
			newRegion = append(newRegion, ir.Range{Min: base[i], Extent: ir.One(base[i].Type())})
		}
		for i, r := range oldRegion {
			newRegion = append(newRegion, ir.Range{Min: base[i+offset], Extent: ir.Cast(base[i+offset].Type(), r.Extent)})
		}
		matchBuffers = append(matchBuffers, ir.MatchBufferRegion{Source: implBuf, Target: ir.BufferRegion{Buffer: curBuf, Region: newRegion}})
	}

	newBlock := *blockRealize.Block
	newBlock.Body = implBlock.Body
	newBlock.MatchBuffers = matchBuffers
	if len(implBlock.Annotations) > 0 {
		merged := make(map[string]any, len(newBlock.Annotations)+len(implBlock.Annotations))
		for k, v := range newBlock.Annotations {
			merged[k] = v
		}
		for k, v := range implBlock.Annotations {
			if existing, ok := merged[k]; ok {
				if existing != v {
					xlog.Warnf("tensorize: conflict of annotation %q: block %s has %v, intrinsic %q has %v; keeping the block's value", k, blockRealize.Block.NameHint, existing, tensorIntrin.Name, v)
				}
				continue
			}
			merged[k] = v
		}
		newBlock.Annotations = merged
	}
	newRealize := &ir.BlockRealize{IterValues: blockRealize.IterValues, Predicate: blockRealize.Predicate, Block: &newBlock}

	reuse := subst.BlockReuse{}
	for k, v := range blockizeReuse {
		reuse[k] = v
	}
	if oldBlock != nil {
		reuse[oldBlock] = &newBlock
	} else {
		reuse[blockRealize.Block] = &newBlock
	}
	state.Replace(sref.ReplaceSpec{Old: target, New: newRealize, BlockReuse: reuse})
	return state.GetBlockSRef(&newBlock), nil
}
