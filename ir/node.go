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

// Node is the common ancestor of every tree node. The unexported marker
// method keeps the sum type closed to this package, the way
// gx-org/build/ir.Node's node() method does for the GX IR.
type Node interface {
	isNode()
}

// Expr is a pure expression: scalars, variables, buffer loads and the
// arithmetic/comparison operators over them.
type Expr interface {
	Node
	isExpr()

	// Type returns the dtype of the expression's value.
	Type() DType
}

// Stmt is a statement node: loops, sequencing, conditionals, block
// realizations and buffer stores.
type Stmt interface {
	Node
	isStmt()
}
