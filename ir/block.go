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

// Range is a half-open interval [Min, Min+Extent).
type Range struct {
	Min    Expr
	Extent Expr
}

// RangeFromExtent builds a Range of [0, extent).
func RangeFromExtent(extent Expr) Range {
	return Range{Min: Zero(extent.Type()), Extent: extent}
}

// IterVarType classifies the role an IterVar plays inside its Block.
type IterVarType int

const (
	DataPar IterVarType = iota
	CommReduce
	Opaque
	ThreadIndex
)

func (t IterVarType) String() string {
	switch t {
	case DataPar:
		return "data_par"
	case CommReduce:
		return "reduce"
	case Opaque:
		return "opaque"
	case ThreadIndex:
		return "thread_index"
	default:
		return "iter_var"
	}
}

// IterVar is a block iteration variable together with its domain and kind.
// Identity follows V, not the IterVar value itself.
type IterVar struct {
	Dom      Range
	V        *Var
	IterType IterVarType
}

// NewIterVar allocates a fresh IterVar with a fresh underlying Var.
func NewIterVar(name string, dom Range, kind IterVarType) *IterVar {
	return &IterVar{Dom: dom, V: NewVar(name, dom.Extent.Type()), IterType: kind}
}

// BufferRegion is a rectangular region of a Buffer: one Range per dimension.
type BufferRegion struct {
	Buffer *Buffer
	Region []Range
}

// Buffer is an N-dimensional array. Identity is the pointer.
type Buffer struct {
	Data  *Var
	Shape []Expr
	DType DType
	Name  string
}

func (b *Buffer) isNode() {}

// NewBuffer allocates a fresh Buffer backed by a fresh data handle Var.
func NewBuffer(name string, shape []Expr, dtype DType) *Buffer {
	return &Buffer{
		Data:  NewVar(name, DType{Code: Handle, Bits: 64}),
		Shape: shape,
		DType: dtype,
		Name:  name,
	}
}

// FullRegion returns the BufferRegion covering all of b's shape.
func (b *Buffer) FullRegion() BufferRegion {
	regions := make([]Range, len(b.Shape))
	for i, extent := range b.Shape {
		regions[i] = RangeFromExtent(extent)
	}
	return BufferRegion{Buffer: b, Region: regions}
}

// MatchBufferRegion binds Source, a sub-buffer visible inside a Block body,
// to Target, the corresponding region of an outer buffer.
type MatchBufferRegion struct {
	Source *Buffer
	Target BufferRegion
}

// Block groups a statement body with its iteration variables, read/write
// footprints and any buffers it allocates or match-binds. Block is not
// itself a Stmt: it is only reachable through a BlockRealize.
type Block struct {
	IterVars     []*IterVar
	Reads        []BufferRegion
	Writes       []BufferRegion
	NameHint     string
	Body         Stmt
	Init         Stmt
	AllocBuffers []*Buffer
	MatchBuffers []MatchBufferRegion
	Annotations  map[string]any
}

func (b *Block) isNode() {}

// PrimFunc is a top-level primitive function: parameters, their buffers and
// a body statement. Used both as an ordinary schedulable function and as the
// Desc/Impl pair of a TensorIntrinsic.
type PrimFunc struct {
	Name      string
	Params    []*Var
	BufferMap map[*Var]*Buffer
	Body      Stmt
}

// TensorIntrinsic pairs a structural description of a computation (Desc)
// with a hardware-specific implementation of the same computation (Impl).
// Tensorize matches a loop nest against Desc and substitutes it with Impl.
type TensorIntrinsic struct {
	Name string
	Desc *PrimFunc
	Impl *PrimFunc
}
