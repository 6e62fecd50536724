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

package intrin

import (
	"fmt"

	"github.com/tensorsched/tir/ir"
)

// MatchResult carries everything Tensorize needs once a block has been
// structurally matched against a tensor intrinsic's description: which
// current-IR buffer stands in for each buffer the description names, and
// the base index (one per dimension of the buffer being accessed) the
// matched region starts at in the current IR.
type MatchResult struct {
	// DescToCurrent maps a buffer named in the intrinsic description to the
	// buffer it was matched against in the block actually being tensorized.
	DescToCurrent map[*ir.Buffer]*ir.Buffer
	// BaseIndices gives, for every current-IR buffer that was matched, the
	// minimum index of the matched region along each of its dimensions.
	BaseIndices map[*ir.Buffer][]ir.Expr
}

// Comparator performs the structural match Tensorize requires between the
// block being tensorized and a tensor intrinsic's description: same number
// of reads and writes, in the same order, compatible element types and
// ranks, and the same number of iter vars with the same kind at each
// position (iter var extents are not compared). It does not attempt general
// term rewriting: this is a
// syntactic correspondence check over regions and iter vars, the way a
// rule's Match predicate is a cheap structural gate before a more detailed
// rewrite runs.
type Comparator struct{}

// NewComparator returns a ready-to-use Comparator.
func NewComparator() *Comparator { return &Comparator{} }

// Match compares target (the BlockRealize under the loop or block being
// tensorized) against desc (the intrinsic's description BlockRealize),
// returning the buffer correspondence and base indices on success.
func (c *Comparator) Match(target, desc *ir.BlockRealize) (*MatchResult, error) {
	tb, db := target.Block, desc.Block
	if len(tb.IterVars) != len(db.IterVars) {
		return nil, fmt.Errorf("block has %d iter vars, intrinsic description expects %d", len(tb.IterVars), len(db.IterVars))
	}
	for i := range tb.IterVars {
		t, d := tb.IterVars[i], db.IterVars[i]
		if t.IterType != d.IterType {
			return nil, fmt.Errorf("iter var %d: kind %s does not match intrinsic's %s", i, t.IterType, d.IterType)
		}
	}
	if len(tb.Reads) != len(db.Reads) {
		return nil, fmt.Errorf("block reads %d buffers, intrinsic description reads %d", len(tb.Reads), len(db.Reads))
	}
	if len(tb.Writes) != len(db.Writes) {
		return nil, fmt.Errorf("block writes %d buffers, intrinsic description writes %d", len(tb.Writes), len(db.Writes))
	}

	res := &MatchResult{
		DescToCurrent: map[*ir.Buffer]*ir.Buffer{},
		BaseIndices:   map[*ir.Buffer][]ir.Expr{},
	}
	match := func(tr, dr ir.BufferRegion) error {
		if len(tr.Region) < len(dr.Region) {
			return fmt.Errorf("buffer %s has rank %d, intrinsic expects at least %d", tr.Buffer.Name, len(tr.Region), len(dr.Region))
		}
		if !tr.Buffer.DType.Equal(dr.Buffer.DType) {
			return fmt.Errorf("buffer %s has dtype %s, intrinsic description expects %s", tr.Buffer.Name, tr.Buffer.DType, dr.Buffer.DType)
		}
		if existing, ok := res.DescToCurrent[dr.Buffer]; ok && existing != tr.Buffer {
			return fmt.Errorf("buffer %s in the intrinsic description matches two different buffers", dr.Buffer.Name)
		}
		res.DescToCurrent[dr.Buffer] = tr.Buffer
		bases := make([]ir.Expr, len(tr.Region))
		for i, r := range tr.Region {
			bases[i] = r.Min
		}
		res.BaseIndices[tr.Buffer] = bases
		return nil
	}
	for i := range tb.Reads {
		if err := match(tb.Reads[i], db.Reads[i]); err != nil {
			return nil, err
		}
	}
	for i := range tb.Writes {
		if err := match(tb.Writes[i], db.Writes[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}
