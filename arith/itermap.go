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

import "github.com/tensorsched/tir/ir"

// IterMark names the subspace a block iter binding was divided into: Source
// is the (normalized) expression of that subspace's binding, Extent is the
// subspace's size.
type IterMark struct {
	Source ir.Expr
	Extent ir.Expr
}

// UnitIterMark is the trivial subspace of extent 1, used to fill in the
// dimension a binding does not project onto.
func UnitIterMark(dt ir.DType) IterMark {
	return IterMark{Source: ir.Zero(dt), Extent: ir.One(dt)}
}

// Division is the pair of subspace marks a single block iter binding was
// split into: [0] is the outer mark, [1] is the inner mark.
type Division [2]IterMark

// UsesAnyVar reports whether e contains a free occurrence of any variable in
// vars.
func UsesAnyVar(e ir.Expr, vars map[*ir.Var]bool) bool {
	found := false
	ir.VisitExpr(e, func(n ir.Expr) bool {
		if found {
			return false
		}
		if v, ok := n.(*ir.Var); ok && vars[v] {
			found = true
		}
		return !found
	})
	return found
}

func varSet(vars []*ir.Var) map[*ir.Var]bool {
	set := make(map[*ir.Var]bool, len(vars))
	for _, v := range vars {
		set[v] = true
	}
	return set
}

// SubspaceDivide splits each of bindings[i] (the binding of iterVars[i])
// into an outer-subspace mark and an inner-subspace mark, given which loop
// variables belong to the outer space and which to the inner space.
//
// Only the trivial division is supported: a binding must use exclusively
// outer vars, exclusively inner vars, or neither. predicate must be the
// literal constant true; any other predicate, or any binding mixing outer
// and inner vars, makes the whole division fail (ok == false), matching the
// behavior of the quasi-affine solver falling back to no-division on any
// binding it cannot prove surjective.
func SubspaceDivide(bindings []ir.Expr, iterVars []*ir.IterVar, predicate ir.Expr, outerVars, innerVars []*ir.Var) ([]Division, bool) {
	if !ir.IsConstTrue(predicate) {
		return nil, false
	}
	outer := varSet(outerVars)
	inner := varSet(innerVars)
	result := make([]Division, len(bindings))
	for i, binding := range bindings {
		usesOuter := UsesAnyVar(binding, outer)
		usesInner := UsesAnyVar(binding, inner)
		mark := IterMark{Source: binding, Extent: iterVars[i].Dom.Extent}
		unit := UnitIterMark(iterVars[i].Dom.Extent.Type())
		switch {
		case usesOuter && !usesInner:
			result[i] = Division{mark, unit}
		case usesInner && !usesOuter:
			result[i] = Division{unit, mark}
		case !usesOuter && !usesInner:
			result[i] = Division{unit, unit}
		default:
			return nil, false
		}
	}
	return result, true
}
