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

// VisitExpr walks e and every sub-expression it contains, calling fn on each
// node in pre-order. Walking stops descending into a subtree if fn returns
// false for the node rooting it.
func VisitExpr(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *IntImm, *FloatImm, *BoolImm, *Var:
		// leaves
	case *BinaryExpr:
		VisitExpr(n.X, fn)
		VisitExpr(n.Y, fn)
	case *CmpExpr:
		VisitExpr(n.X, fn)
		VisitExpr(n.Y, fn)
	case *AndExpr:
		VisitExpr(n.X, fn)
		VisitExpr(n.Y, fn)
	case *OrExpr:
		VisitExpr(n.X, fn)
		VisitExpr(n.Y, fn)
	case *NotExpr:
		VisitExpr(n.X, fn)
	case *CastExpr:
		VisitExpr(n.X, fn)
	case *BufferLoad:
		for _, idx := range n.Indices {
			VisitExpr(idx, fn)
		}
	}
}

// VisitStmt walks s and every nested statement/expression, calling exprFn on
// each expression and stmtFn on each statement encountered, in pre-order.
// Either callback may be nil.
func VisitStmt(s Stmt, stmtFn func(Stmt) bool, exprFn func(Expr) bool) {
	if s == nil {
		return
	}
	if stmtFn != nil && !stmtFn(s) {
		return
	}
	visitExprIn := func(e Expr) {
		if exprFn != nil {
			VisitExpr(e, exprFn)
		}
	}
	switch n := s.(type) {
	case *For:
		visitExprIn(n.Min)
		visitExprIn(n.Extent)
		VisitStmt(n.Body, stmtFn, exprFn)
	case *SeqStmt:
		for _, child := range n.Seq {
			VisitStmt(child, stmtFn, exprFn)
		}
	case *IfThenElse:
		visitExprIn(n.Cond)
		VisitStmt(n.Then, stmtFn, exprFn)
		if n.Else != nil {
			VisitStmt(n.Else, stmtFn, exprFn)
		}
	case *BufferStore:
		for _, idx := range n.Indices {
			visitExprIn(idx)
		}
		visitExprIn(n.Value)
	case *BlockRealize:
		for _, v := range n.IterValues {
			visitExprIn(v)
		}
		visitExprIn(n.Predicate)
		VisitStmt(n.Block.Body, stmtFn, exprFn)
		if n.Block.Init != nil {
			VisitStmt(n.Block.Init, stmtFn, exprFn)
		}
	}
}

// MutateExpr rewrites e by calling fn on every sub-expression in post-order
// (children first), replacing a node wherever fn returns a non-nil result.
func MutateExpr(e Expr, fn func(Expr) Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *BinaryExpr:
		e = &BinaryExpr{Op: n.Op, X: MutateExpr(n.X, fn), Y: MutateExpr(n.Y, fn), DT: n.DT}
	case *CmpExpr:
		e = &CmpExpr{Op: n.Op, X: MutateExpr(n.X, fn), Y: MutateExpr(n.Y, fn)}
	case *AndExpr:
		e = &AndExpr{X: MutateExpr(n.X, fn), Y: MutateExpr(n.Y, fn)}
	case *OrExpr:
		e = &OrExpr{X: MutateExpr(n.X, fn), Y: MutateExpr(n.Y, fn)}
	case *NotExpr:
		e = &NotExpr{X: MutateExpr(n.X, fn)}
	case *CastExpr:
		e = &CastExpr{X: MutateExpr(n.X, fn), DT: n.DT}
	case *BufferLoad:
		indices := make([]Expr, len(n.Indices))
		for i, idx := range n.Indices {
			indices[i] = MutateExpr(idx, fn)
		}
		e = &BufferLoad{Buffer: n.Buffer, Indices: indices}
	}
	if r := fn(e); r != nil {
		return r
	}
	return e
}

// MutateStmt rewrites s by calling exprFn over every expression it directly
// contains (via MutateExpr) and recursing into nested statements. stmtFn, if
// non-nil, is called on the rewritten node and may replace it.
func MutateStmt(s Stmt, stmtFn func(Stmt) Stmt, exprFn func(Expr) Expr) Stmt {
	if s == nil {
		return nil
	}
	mutateExprIn := func(e Expr) Expr {
		if exprFn == nil || e == nil {
			return e
		}
		return MutateExpr(e, exprFn)
	}
	switch n := s.(type) {
	case *For:
		s = &For{
			LoopVar:       n.LoopVar,
			Min:           mutateExprIn(n.Min),
			Extent:        mutateExprIn(n.Extent),
			Kind:          n.Kind,
			Body:          MutateStmt(n.Body, stmtFn, exprFn),
			ThreadBinding: n.ThreadBinding,
			Annotations:   n.Annotations,
		}
	case *SeqStmt:
		seq := make([]Stmt, len(n.Seq))
		for i, child := range n.Seq {
			seq[i] = MutateStmt(child, stmtFn, exprFn)
		}
		s = &SeqStmt{Seq: seq}
	case *IfThenElse:
		var els Stmt
		if n.Else != nil {
			els = MutateStmt(n.Else, stmtFn, exprFn)
		}
		s = &IfThenElse{Cond: mutateExprIn(n.Cond), Then: MutateStmt(n.Then, stmtFn, exprFn), Else: els}
	case *BufferStore:
		indices := make([]Expr, len(n.Indices))
		for i, idx := range n.Indices {
			indices[i] = mutateExprIn(idx)
		}
		s = &BufferStore{Buffer: n.Buffer, Indices: indices, Value: mutateExprIn(n.Value)}
	case *BlockRealize:
		values := make([]Expr, len(n.IterValues))
		for i, v := range n.IterValues {
			values[i] = mutateExprIn(v)
		}
		block := n.Block
		newBody := MutateStmt(block.Body, stmtFn, exprFn)
		var newInit Stmt
		if block.Init != nil {
			newInit = MutateStmt(block.Init, stmtFn, exprFn)
		}
		if newBody != block.Body || newInit != block.Init {
			clone := *block
			clone.Body = newBody
			clone.Init = newInit
			block = &clone
		}
		s = &BlockRealize{IterValues: values, Predicate: mutateExprIn(n.Predicate), Block: block}
	}
	if stmtFn != nil {
		return stmtFn(s)
	}
	return s
}
