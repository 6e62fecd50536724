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
	"github.com/samber/lo"

	"github.com/tensorsched/tir/arith"
	"github.com/tensorsched/tir/ir"
)

// EvalSetRegions relaxes every region in regions by evaluating each
// dimension's bound as an arith.IntSet under dom, then clamping the result
// to the buffer's declared shape.
func EvalSetRegions(a *arith.Analyzer, regions []ir.BufferRegion, dom arith.DomainMap) []ir.BufferRegion {
	out := make([]ir.BufferRegion, len(regions))
	for i, br := range regions {
		ndim := len(br.Buffer.Shape)
		newRegion := make([]ir.Range, ndim)
		for d := 0; d < ndim; d++ {
			relaxed := evalSetRange(a, br.Region[d], dom)
			full := ir.RangeFromExtent(br.Buffer.Shape[d])
			newRegion[d] = clampToRange(a, relaxed, full)
		}
		out[i] = ir.BufferRegion{Buffer: br.Buffer, Region: newRegion}
	}
	return out
}

// evalSetRange relaxes a single-dimension Range [Min, Min+Extent) to the
// IntSet its lower bound Min and upper bound Min+Extent-1 evaluate to under
// dom, mirroring EvalSetRegion's per-dimension treatment.
func evalSetRange(a *arith.Analyzer, r ir.Range, dom arith.DomainMap) arith.IntSet {
	lower := arith.EvalSet(a, r.Min, dom)
	upper := arith.EvalSet(a, a.Simplify(ir.NewBinary(ir.Sub, ir.NewBinary(ir.Add, r.Min, r.Extent), ir.One(r.Min.Type()))), dom)
	return arith.IntSet{Min: lower.Min, Max: upper.Max}
}

func clampToRange(a *arith.Analyzer, s arith.IntSet, full ir.Range) ir.Range {
	lo := a.Simplify(ir.NewBinary(ir.Max, s.Min, full.Min))
	fullMax := a.Simplify(ir.NewBinary(ir.Sub, ir.NewBinary(ir.Add, full.Min, full.Extent), ir.One(full.Extent.Type())))
	hi := a.Simplify(ir.NewBinary(ir.Min, s.Max, fullMax))
	extent := a.Simplify(ir.NewBinary(ir.Add, ir.NewBinary(ir.Sub, hi, lo), ir.One(lo.Type())))
	return ir.Range{Min: lo, Extent: extent}
}

// EvalSetRegion relaxes a single BufferRegion's dimensions under dom,
// without clamping to buffer shape. Blockize and BlockizeBlocks compute
// footprints with EvalSetRegions, not with this function.
func EvalSetRegion(a *arith.Analyzer, br ir.BufferRegion, dom arith.DomainMap) ir.BufferRegion {
	newRegion := make([]ir.Range, len(br.Region))
	for d, r := range br.Region {
		newRegion[d] = evalSetRange(a, r, dom).AsRange(a)
	}
	return ir.BufferRegion{Buffer: br.Buffer, Region: newRegion}
}

// UnionRegions groups regions by buffer identity and unions, dimension by
// dimension, the IntSet each group's occurrences describe.
func UnionRegions(a *arith.Analyzer, regions []ir.BufferRegion) []ir.BufferRegion {
	groups := lo.GroupBy(regions, func(br ir.BufferRegion) *ir.Buffer { return br.Buffer })
	order := lo.Uniq(lo.Map(regions, func(br ir.BufferRegion, _ int) *ir.Buffer { return br.Buffer }))

	out := make([]ir.BufferRegion, 0, len(order))
	for _, buf := range order {
		group := groups[buf]
		ndim := len(buf.Shape)
		newRegion := make([]ir.Range, ndim)
		for d := 0; d < ndim; d++ {
			sets := lo.Map(group, func(br ir.BufferRegion, _ int) arith.IntSet {
				return arith.FromRange(a, br.Region[d])
			})
			newRegion[d] = arith.Union(a, sets).AsRange(a)
		}
		out = append(out, ir.BufferRegion{Buffer: buf, Region: newRegion})
	}
	return out
}
