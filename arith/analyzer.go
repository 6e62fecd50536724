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

// Package arith provides the integer-set and affine-binding analyses that
// the schedule package needs: constant folding, interval evaluation of
// expressions under a variable domain, and the subspace division that
// splits block iter bindings into an outer and inner affine space.
package arith

import "github.com/tensorsched/tir/ir"

// Analyzer folds and normalizes ir.Expr trees. It holds no mutable state and
// is safe to reuse across unrelated expressions.
type Analyzer struct{}

// NewAnalyzer returns a fresh Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Simplify returns an equivalent, constant-folded form of e. It never
// changes the set of values e can evaluate to; it only folds literal
// arithmetic and a handful of algebraic identities (x+0, x-0, x*1, x*0).
func (a *Analyzer) Simplify(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.BinaryExpr:
		x := a.Simplify(n.X)
		y := a.Simplify(n.Y)
		if folded := foldBinary(n.Op, x, y); folded != nil {
			return folded
		}
		if x == n.X && y == n.Y {
			return n
		}
		return &ir.BinaryExpr{Op: n.Op, X: x, Y: y, DT: n.DT}
	case *ir.CmpExpr:
		x := a.Simplify(n.X)
		y := a.Simplify(n.Y)
		if folded := foldCmp(n.Op, x, y); folded != nil {
			return folded
		}
		return &ir.CmpExpr{Op: n.Op, X: x, Y: y}
	case *ir.AndExpr:
		x := a.Simplify(n.X)
		y := a.Simplify(n.Y)
		if ir.IsConstTrue(x) {
			return y
		}
		if ir.IsConstTrue(y) {
			return x
		}
		return &ir.AndExpr{X: x, Y: y}
	case *ir.OrExpr:
		x := a.Simplify(n.X)
		y := a.Simplify(n.Y)
		return &ir.OrExpr{X: x, Y: y}
	case *ir.NotExpr:
		return &ir.NotExpr{X: a.Simplify(n.X)}
	case *ir.CastExpr:
		return &ir.CastExpr{X: a.Simplify(n.X), DT: n.DT}
	case *ir.BufferLoad:
		indices := make([]ir.Expr, len(n.Indices))
		for i, idx := range n.Indices {
			indices[i] = a.Simplify(idx)
		}
		return &ir.BufferLoad{Buffer: n.Buffer, Indices: indices}
	default:
		return e
	}
}

// CanProveEqual reports whether a can prove x and y always evaluate to the
// same value, after simplification. It is conservative: a false result does
// not mean the two expressions can differ.
func (a *Analyzer) CanProveEqual(x, y ir.Expr) bool {
	sx, sy := a.Simplify(x), a.Simplify(y)
	if vx, ok := ir.IsConstInt(sx); ok {
		if vy, ok := ir.IsConstInt(sy); ok {
			return vx == vy
		}
	}
	if vx, ok := sx.(*ir.Var); ok {
		if vy, ok := sy.(*ir.Var); ok {
			return vx == vy
		}
	}
	return false
}

func foldBinary(op ir.BinOp, x, y ir.Expr) ir.Expr {
	xv, xok := ir.IsConstInt(x)
	yv, yok := ir.IsConstInt(y)
	if xok && yok {
		switch op {
		case ir.Add:
			return ir.NewIntImm(xv+yv, x.Type())
		case ir.Sub:
			return ir.NewIntImm(xv-yv, x.Type())
		case ir.Mul:
			return ir.NewIntImm(xv*yv, x.Type())
		case ir.FloorDiv:
			if yv != 0 {
				return ir.NewIntImm(floorDiv(xv, yv), x.Type())
			}
		case ir.FloorMod:
			if yv != 0 {
				return ir.NewIntImm(floorMod(xv, yv), x.Type())
			}
		case ir.Max:
			if xv > yv {
				return x
			}
			return y
		case ir.Min:
			if xv < yv {
				return x
			}
			return y
		}
		return nil
	}
	switch op {
	case ir.Add:
		if ir.IsZero(x) {
			return y
		}
		if ir.IsZero(y) {
			return x
		}
	case ir.Sub:
		if ir.IsZero(y) {
			return x
		}
	case ir.Mul:
		if ir.IsOne(x) {
			return y
		}
		if ir.IsOne(y) {
			return x
		}
		if ir.IsZero(x) || ir.IsZero(y) {
			return ir.Zero(x.Type())
		}
	case ir.FloorDiv:
		if ir.IsOne(y) {
			return x
		}
	}
	return nil
}

func foldCmp(op ir.CmpOp, x, y ir.Expr) ir.Expr {
	xv, xok := ir.IsConstInt(x)
	yv, yok := ir.IsConstInt(y)
	if !xok || !yok {
		return nil
	}
	var result bool
	switch op {
	case ir.EQ:
		result = xv == yv
	case ir.NE:
		result = xv != yv
	case ir.LT:
		result = xv < yv
	case ir.LE:
		result = xv <= yv
	case ir.GT:
		result = xv > yv
	case ir.GE:
		result = xv >= yv
	}
	return &ir.BoolImm{Value: result}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
