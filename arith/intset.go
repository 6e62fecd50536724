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

package arith

import (
	"github.com/samber/lo"

	"github.com/tensorsched/tir/ir"
)

// IntSet is a conservative over-approximation of the values an expression
// can take: a single closed interval [Min, Max].
type IntSet struct {
	Min ir.Expr
	Max ir.Expr
}

// SinglePoint returns the degenerate IntSet containing only e.
func SinglePoint(e ir.Expr) IntSet { return IntSet{Min: e, Max: e} }

// FromRange converts a Range [Min, Min+Extent) into the inclusive IntSet
// [Min, Min+Extent-1].
func FromRange(a *Analyzer, r ir.Range) IntSet {
	max := a.Simplify(ir.NewBinary(ir.Sub, ir.NewBinary(ir.Add, r.Min, r.Extent), ir.One(r.Extent.Type())))
	return IntSet{Min: r.Min, Max: max}
}

// DomainMap maps a variable to the IntSet of values it may take.
type DomainMap map[*ir.Var]IntSet

// EvalSet evaluates the range of values e may take given dom, the set of
// values each free variable in e may take. Composition follows interval
// arithmetic: unknown operators widen to the union of both operand
// endpoints rather than fail.
func EvalSet(a *Analyzer, e ir.Expr, dom DomainMap) IntSet {
	switch n := e.(type) {
	case *ir.Var:
		if s, ok := dom[n]; ok {
			return s
		}
		return SinglePoint(n)
	case *ir.IntImm, *ir.FloatImm, *ir.BoolImm:
		return SinglePoint(n)
	case *ir.BinaryExpr:
		x := EvalSet(a, n.X, dom)
		y := EvalSet(a, n.Y, dom)
		return evalBinarySet(a, n.Op, x, y, n.DT)
	case *ir.CastExpr:
		inner := EvalSet(a, n.X, dom)
		return IntSet{Min: ir.Cast(n.DT, inner.Min), Max: ir.Cast(n.DT, inner.Max)}
	default:
		return SinglePoint(e)
	}
}

func evalBinarySet(a *Analyzer, op ir.BinOp, x, y IntSet, dt ir.DType) IntSet {
	add := func(p, q ir.Expr) ir.Expr { return a.Simplify(ir.NewBinary(ir.Add, p, q)) }
	sub := func(p, q ir.Expr) ir.Expr { return a.Simplify(ir.NewBinary(ir.Sub, p, q)) }
	switch op {
	case ir.Add:
		return IntSet{Min: add(x.Min, y.Min), Max: add(x.Max, y.Max)}
	case ir.Sub:
		return IntSet{Min: sub(x.Min, y.Max), Max: sub(x.Max, y.Min)}
	case ir.Mul:
		if yv, ok := ir.IsConstInt(y.Min); ok && a.CanProveEqual(y.Min, y.Max) {
			mul := func(p ir.Expr) ir.Expr { return a.Simplify(ir.NewBinary(ir.Mul, p, y.Min)) }
			if yv >= 0 {
				return IntSet{Min: mul(x.Min), Max: mul(x.Max)}
			}
			return IntSet{Min: mul(x.Max), Max: mul(x.Min)}
		}
		return IntSet{Min: ir.Zero(dt), Max: ir.Zero(dt)}
	case ir.Max:
		return IntSet{Min: a.Simplify(ir.NewBinary(ir.Max, x.Min, y.Min)), Max: a.Simplify(ir.NewBinary(ir.Max, x.Max, y.Max))}
	case ir.Min:
		return IntSet{Min: a.Simplify(ir.NewBinary(ir.Min, x.Min, y.Min)), Max: a.Simplify(ir.NewBinary(ir.Min, x.Max, y.Max))}
	default:
		return IntSet{Min: x.Min, Max: y.Max}
	}
}

// Union returns the smallest IntSet containing every set in sets. An empty
// input returns the zero IntSet.
func Union(a *Analyzer, sets []IntSet) IntSet {
	if len(sets) == 0 {
		return IntSet{}
	}
	mins := lo.Map(sets, func(s IntSet, _ int) ir.Expr { return s.Min })
	maxs := lo.Map(sets, func(s IntSet, _ int) ir.Expr { return s.Max })
	result := IntSet{Min: mins[0], Max: maxs[0]}
	for i := 1; i < len(sets); i++ {
		result.Min = a.Simplify(ir.NewBinary(ir.Min, result.Min, mins[i]))
		result.Max = a.Simplify(ir.NewBinary(ir.Max, result.Max, maxs[i]))
	}
	return result
}

// AsRange converts an IntSet back to a half-open Range [Min, Max+1), clamped
// so Extent is never negative by construction of the caller's inputs.
func (s IntSet) AsRange(a *Analyzer) ir.Range {
	extent := a.Simplify(ir.NewBinary(ir.Add, ir.NewBinary(ir.Sub, s.Max, s.Min), ir.One(s.Min.Type())))
	return ir.Range{Min: s.Min, Extent: extent}
}
