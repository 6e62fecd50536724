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

// Package demo builds small, fixed PrimFuncs and tensor intrinsics for the
// cmd/tirsched driver and for tests to exercise the schedule package
// against, standing in for a front-end that would otherwise parse a host
// language into this module's ir package.
package demo

import "github.com/tensorsched/tir/ir"

// MatmulAccumulate builds a PrimFunc computing C[i, j] += A[i, k] * B[k, j]
// over a 3-deep loop nest, one reduction block per (i, j, k) point.
func MatmulAccumulate(m, n, k int64) (*ir.PrimFunc, *ir.Buffer, *ir.Buffer, *ir.Buffer) {
	a := ir.NewBuffer("A", []ir.Expr{ir.NewIntImm(m, ir.Int32), ir.NewIntImm(k, ir.Int32)}, ir.Fp32)
	b := ir.NewBuffer("B", []ir.Expr{ir.NewIntImm(k, ir.Int32), ir.NewIntImm(n, ir.Int32)}, ir.Fp32)
	c := ir.NewBuffer("C", []ir.Expr{ir.NewIntImm(m, ir.Int32), ir.NewIntImm(n, ir.Int32)}, ir.Fp32)

	li := ir.NewVar("i", ir.Int32)
	lj := ir.NewVar("j", ir.Int32)
	lk := ir.NewVar("k", ir.Int32)

	vi := ir.NewIterVar("vi", ir.RangeFromExtent(ir.NewIntImm(m, ir.Int32)), ir.DataPar)
	vj := ir.NewIterVar("vj", ir.RangeFromExtent(ir.NewIntImm(n, ir.Int32)), ir.DataPar)
	vk := ir.NewIterVar("vk", ir.RangeFromExtent(ir.NewIntImm(k, ir.Int32)), ir.CommReduce)

	load := func(buf *ir.Buffer, idx ...ir.Expr) ir.Expr { return &ir.BufferLoad{Buffer: buf, Indices: idx} }

	store := &ir.BufferStore{
		Buffer:  c,
		Indices: []ir.Expr{vi.V, vj.V},
		Value:   ir.NewBinary(ir.Add, load(c, vi.V, vj.V), ir.NewBinary(ir.Mul, load(a, vi.V, vk.V), load(b, vk.V, vj.V))),
	}
	init := &ir.BufferStore{Buffer: c, Indices: []ir.Expr{vi.V, vj.V}, Value: ir.Zero(ir.Fp32)}

	block := &ir.Block{
		IterVars: []*ir.IterVar{vi, vj, vk},
		Reads: []ir.BufferRegion{
			{Buffer: a, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32)), ir.RangeFromExtent(ir.One(ir.Int32))}},
			{Buffer: b, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32)), ir.RangeFromExtent(ir.One(ir.Int32))}},
			{Buffer: c, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32)), ir.RangeFromExtent(ir.One(ir.Int32))}},
		},
		Writes:   []ir.BufferRegion{{Buffer: c, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32)), ir.RangeFromExtent(ir.One(ir.Int32))}}},
		NameHint: "update",
		Body:     store,
		Init:     init,
	}
	realize := ir.NewBlockRealize([]ir.Expr{li, lj, lk}, block)

	loopK := &ir.For{LoopVar: lk, Min: ir.Zero(ir.Int32), Extent: ir.NewIntImm(k, ir.Int32), Kind: ir.Serial, Body: realize}
	loopJ := &ir.For{LoopVar: lj, Min: ir.Zero(ir.Int32), Extent: ir.NewIntImm(n, ir.Int32), Kind: ir.Serial, Body: loopK}
	loopI := &ir.For{LoopVar: li, Min: ir.Zero(ir.Int32), Extent: ir.NewIntImm(m, ir.Int32), Kind: ir.Serial, Body: loopJ}

	fn := &ir.PrimFunc{
		Name:      "matmul",
		Params:    []*ir.Var{a.Data, b.Data, c.Data},
		BufferMap: map[*ir.Var]*ir.Buffer{a.Data: a, b.Data: b, c.Data: c},
		Body:      loopI,
	}
	return fn, a, b, c
}

// FMAIntrinsic builds a tensor intrinsic matching a single scalar
// multiply-accumulate: c[0] += a[0] * b[0]. Its description carries the same
// iter var kinds Tensorize's blockize-on-the-fly path produces for a
// reduction loop nested under spatial loops (two data-parallel iter vars and
// one reduction iter var, here all of extent 1), over three rank-1,
// single-element buffers; its implementation is the same block built over
// its own three buffers.
func FMAIntrinsic(name string) *ir.TensorIntrinsic {
	newABC := func(suffix string) (a, b, c *ir.Buffer) {
		one := []ir.Expr{ir.One(ir.Int32)}
		return ir.NewBuffer("a"+suffix, one, ir.Fp32), ir.NewBuffer("b"+suffix, one, ir.Fp32), ir.NewBuffer("c"+suffix, one, ir.Fp32)
	}
	buildBody := func(a, b, c *ir.Buffer) *ir.BlockRealize {
		vi := ir.NewIterVar("vi", ir.RangeFromExtent(ir.One(ir.Int32)), ir.DataPar)
		vj := ir.NewIterVar("vj", ir.RangeFromExtent(ir.One(ir.Int32)), ir.DataPar)
		vk := ir.NewIterVar("vk", ir.RangeFromExtent(ir.One(ir.Int32)), ir.CommReduce)
		load := func(buf *ir.Buffer) ir.Expr { return &ir.BufferLoad{Buffer: buf, Indices: []ir.Expr{ir.Zero(ir.Int32)}} }
		block := &ir.Block{
			IterVars: []*ir.IterVar{vi, vj, vk},
			Reads: []ir.BufferRegion{
				{Buffer: a, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
				{Buffer: b, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
				{Buffer: c, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}},
			},
			Writes:   []ir.BufferRegion{{Buffer: c, Region: []ir.Range{ir.RangeFromExtent(ir.One(ir.Int32))}}},
			NameHint: "fma",
			Body: &ir.BufferStore{
				Buffer:  c,
				Indices: []ir.Expr{ir.Zero(ir.Int32)},
				Value:   ir.NewBinary(ir.Add, load(c), ir.NewBinary(ir.Mul, load(a), load(b))),
			},
		}
		return ir.NewBlockRealize([]ir.Expr{ir.Zero(ir.Int32), ir.Zero(ir.Int32), ir.Zero(ir.Int32)}, block)
	}

	descA, descB, descC := newABC("_d")
	implA, implB, implC := newABC("_w")

	desc := &ir.PrimFunc{
		Name:      name + "_desc",
		Params:    []*ir.Var{descA.Data, descB.Data, descC.Data},
		BufferMap: map[*ir.Var]*ir.Buffer{descA.Data: descA, descB.Data: descB, descC.Data: descC},
		Body:      buildBody(descA, descB, descC),
	}
	impl := &ir.PrimFunc{
		Name:      name + "_impl",
		Params:    []*ir.Var{implA.Data, implB.Data, implC.Data},
		BufferMap: map[*ir.Var]*ir.Buffer{implA.Data: implA, implB.Data: implB, implC.Data: implC},
		Body:      buildBody(implA, implB, implC),
	}
	return &ir.TensorIntrinsic{Name: name, Desc: desc, Impl: impl}
}
