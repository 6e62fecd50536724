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

// Package sref maintains the stateful side of a schedule: a stable-identity
// tree mirroring the statement tree (StmtSRef) plus block read/write
// metadata (BlockInfo), together known as the ScheduleState. Unlike
// the ir package, which is a pure, copy-on-write value tree, this package
// holds the one mutable index that schedule primitives replace pieces of.
package sref

import "github.com/tensorsched/tir/ir"

// StmtSRef is a handle to a position in the statement tree: the Stmt at that
// position and the StmtSRef of its parent. ScheduleState.Replace re-indexes
// the tree with freshly allocated StmtSRefs, so a StmtSRef obtained before a
// Replace keeps naming the statement of the previous tree.
type StmtSRef struct {
	Stmt   ir.Stmt
	Parent *StmtSRef
	// SeqIndex is this node's position in its parent SeqStmt, or -1 if the
	// parent is not a SeqStmt or this is the root.
	SeqIndex int
}

// Arena allocates StmtSRefs with stable pointer identity, the way the
// pack's tensor/operator trackers key off of stable integer identities
// (see BlockInfo below) rather than off of structural equality.
type Arena struct {
	nodes []*StmtSRef
}

// NewArena returns an empty Arena.
func NewArena() *Arena { return &Arena{} }

// Alloc creates a new StmtSRef bound to stmt under parent and registers it
// with the arena so it stays reachable for the arena's lifetime.
func (a *Arena) Alloc(stmt ir.Stmt, parent *StmtSRef, seqIndex int) *StmtSRef {
	ref := &StmtSRef{Stmt: stmt, Parent: parent, SeqIndex: seqIndex}
	a.nodes = append(a.nodes, ref)
	return ref
}

// RootMark is a nil ir.Stmt. New does not use it: the root sref, whose
// Parent is nil, holds the body passed to New as its Stmt.
var RootMark ir.Stmt

// BlockInfo carries the derived, cached facts about a Block that schedule
// primitives consult instead of recomputing from scratch: its affine-ness
// and region-based read/write footprint relative to its scope.
type BlockInfo struct {
	// AffineBinding is set to true for every indexed block; no affine
	// analysis of the block's iter var bindings is performed.
	AffineBinding bool
	// Reads/Writes are the block's own declared footprints, prior to any
	// relaxation against an enclosing scope.
	Reads  []ir.BufferRegion
	Writes []ir.BufferRegion
}

// ScheduleState is the mutable index schedule primitives operate against: a
// map from every live *ir.Block to its StmtSRef and BlockInfo, plus the
// StmtSRef for every *ir.For and *ir.BlockRealize reachable from Root.
type ScheduleState struct {
	Root *StmtSRef

	arena       *Arena
	stmt2ref    map[ir.Stmt]*StmtSRef
	blockInfo   map[*ir.Block]*BlockInfo
	blockSref   map[*ir.Block]*StmtSRef
	producerOf  map[*ir.Buffer]*ir.Block
	consumersOf map[*ir.Buffer][]*ir.Block
}

// New builds a ScheduleState over body, the root statement of a PrimFunc,
// indexing every For/BlockRealize/Block it contains.
func New(body ir.Stmt) *ScheduleState {
	s := &ScheduleState{
		arena:       NewArena(),
		stmt2ref:    make(map[ir.Stmt]*StmtSRef),
		blockInfo:   make(map[*ir.Block]*BlockInfo),
		blockSref:   make(map[*ir.Block]*StmtSRef),
		producerOf:  make(map[*ir.Buffer]*ir.Block),
		consumersOf: make(map[*ir.Buffer][]*ir.Block),
	}
	s.Root = s.arena.Alloc(body, nil, -1)
	s.stmt2ref[body] = s.Root
	s.index(body, s.Root)
	return s
}

func (s *ScheduleState) index(stmt ir.Stmt, parent *StmtSRef) {
	switch n := stmt.(type) {
	case *ir.For:
		ref := parent
		if stmt != parent.Stmt {
			ref = s.arena.Alloc(stmt, parent, -1)
			s.stmt2ref[stmt] = ref
		}
		s.index(n.Body, ref)
	case *ir.SeqStmt:
		for i, child := range n.Seq {
			ref := s.arena.Alloc(child, parent, i)
			s.stmt2ref[child] = ref
			s.index(child, ref)
		}
	case *ir.IfThenElse:
		s.index(n.Then, parent)
		if n.Else != nil {
			s.index(n.Else, parent)
		}
	case *ir.BlockRealize:
		ref := parent
		if stmt != parent.Stmt {
			ref = s.arena.Alloc(stmt, parent, -1)
			s.stmt2ref[stmt] = ref
		}
		s.blockSref[n.Block] = ref
		s.updateBlockInfo(n.Block)
		s.index(n.Block.Body, ref)
		if n.Block.Init != nil {
			s.index(n.Block.Init, ref)
		}
	}
}

func (s *ScheduleState) updateBlockInfo(block *ir.Block) {
	s.blockInfo[block] = &BlockInfo{
		AffineBinding: true,
		Reads:         block.Reads,
		Writes:        block.Writes,
	}
	for _, w := range block.Writes {
		s.producerOf[w.Buffer] = block
	}
	for _, r := range block.Reads {
		s.consumersOf[r.Buffer] = append(s.consumersOf[r.Buffer], block)
	}
}

// GetSRef returns the StmtSRef for stmt, which must be a node already
// indexed by this ScheduleState.
func (s *ScheduleState) GetSRef(stmt ir.Stmt) *StmtSRef { return s.stmt2ref[stmt] }

// GetBlockSRef returns the StmtSRef of the BlockRealize that realizes block.
func (s *ScheduleState) GetBlockSRef(block *ir.Block) *StmtSRef { return s.blockSref[block] }

// GetBlockInfo returns the cached BlockInfo for block.
func (s *ScheduleState) GetBlockInfo(block *ir.Block) *BlockInfo { return s.blockInfo[block] }

// IsAffineBlockBinding reports whether block's iter var bindings are affine
// functions of the surrounding loop vars, as cached in its BlockInfo.
func (s *ScheduleState) IsAffineBlockBinding(block *ir.Block) bool {
	info := s.blockInfo[block]
	return info != nil && info.AffineBinding
}

// GetBlockRealize returns the BlockRealize for block.
func (s *ScheduleState) GetBlockRealize(block *ir.Block) *ir.BlockRealize {
	ref := s.blockSref[block]
	if ref == nil {
		return nil
	}
	return ref.Stmt.(*ir.BlockRealize)
}

// GetScopeRoot returns the nearest BlockRealize ancestor sref of sref
// itself, i.e. the block scope sref lives in.
func (s *ScheduleState) GetScopeRoot(sref *StmtSRef) *StmtSRef {
	for cur := sref.Parent; cur != nil; cur = cur.Parent {
		if _, ok := cur.Stmt.(*ir.BlockRealize); ok {
			return cur
		}
	}
	return nil
}

// GetSRefLowestCommonAncestor returns the lowest StmtSRef that is an
// ancestor of (or equal to) every sref in srefs.
func GetSRefLowestCommonAncestor(srefs []*StmtSRef) *StmtSRef {
	if len(srefs) == 0 {
		return nil
	}
	chain := func(ref *StmtSRef) []*StmtSRef {
		var out []*StmtSRef
		for cur := ref; cur != nil; cur = cur.Parent {
			out = append(out, cur)
		}
		// reverse so out[0] is the root
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out
	}
	lca := chain(srefs[0])
	for _, ref := range srefs[1:] {
		c := chain(ref)
		n := len(lca)
		if len(c) < n {
			n = len(c)
		}
		i := 0
		for i < n && lca[i] == c[i] {
			i++
		}
		lca = lca[:i]
	}
	if len(lca) == 0 {
		return nil
	}
	return lca[len(lca)-1]
}

// ReplaceSpec is the substitution a schedule primitive performs: Old is
// rewritten to New, and BlockReuse maps each original Block to the Block
// that replaces it. Replace does not consult BlockReuse.
type ReplaceSpec struct {
	Old        *StmtSRef
	New        ir.Stmt
	BlockReuse map[*ir.Block]*ir.Block
}

// Replace substitutes spec.New for the statement at spec.Old and re-indexes
// the whole tree from the root with New, allocating a fresh StmtSRef for
// every node; spec.BlockReuse is not consulted and no StmtSRef of the
// previous tree is carried over. A block's new sref is looked up with
// GetBlockSRef, which is keyed by block identity, not by tree position.
func (s *ScheduleState) Replace(spec ReplaceSpec) {
	newRoot := replaceIn(s.Root.Stmt, spec.Old.Stmt, spec.New)
	*s = *New(newRoot)
}

func replaceIn(root, old ir.Stmt, replacement ir.Stmt) ir.Stmt {
	if root == old {
		return replacement
	}
	return ir.MutateStmt(root, func(s ir.Stmt) ir.Stmt {
		if s == old {
			return replacement
		}
		return s
	}, nil)
}
