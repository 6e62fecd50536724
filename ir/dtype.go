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

// Package ir is the loop-nest intermediate representation operated on by the
// blockize/tensorize scheduling primitives: statement and expression node
// trees, buffers, iteration variables and the blocks that group them.
package ir

import "fmt"

// Code identifies the scalar family of a DType.
type Code int

const (
	Int Code = iota
	UInt
	Float
	Bool
	Handle
)

func (c Code) String() string {
	switch c {
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Handle:
		return "handle"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// DType is the element type of a scalar or buffer: a scalar family plus a bit
// width. Index-width normalization during Tensorize (spec step B) compares
// DType.Bits across buffer-region bounds.
type DType struct {
	Code Code
	Bits int
}

func (d DType) String() string {
	if d.Code == Bool {
		return "bool"
	}
	return fmt.Sprintf("%s%d", d.Code, d.Bits)
}

// Equal reports whether two DTypes are identical.
func (d DType) Equal(o DType) bool { return d == o }

// WithBits returns a copy of d with a different bit width. Used by Tensorize's
// index-dtype normalization pass (spec §4.8 step B).
func (d DType) WithBits(bits int) DType { d.Bits = bits; return d }

// Common dtypes used throughout the package and by tests.
var (
	Int32  = DType{Code: Int, Bits: 32}
	Int64  = DType{Code: Int, Bits: 64}
	UInt32 = DType{Code: UInt, Bits: 32}
	Bool1  = DType{Code: Bool, Bits: 1}
	Fp32   = DType{Code: Float, Bits: 32}
	Fp16   = DType{Code: Float, Bits: 16}
)

// IsInt reports whether d is an integral (signed or unsigned) dtype.
func (d DType) IsInt() bool { return d.Code == Int || d.Code == UInt }
