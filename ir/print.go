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

import (
	"fmt"
	"strings"
)

// PrintExpr renders e as a parenthesized arithmetic expression, for debug
// output and ScheduleError diagnostics.
func PrintExpr(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Var:
		sb.WriteString(n.String())
	case *IntImm:
		fmt.Fprintf(sb, "%d", n.Value)
	case *FloatImm:
		fmt.Fprintf(sb, "%g", n.Value)
	case *BoolImm:
		fmt.Fprintf(sb, "%t", n.Value)
	case *BinaryExpr:
		sb.WriteByte('(')
		writeExpr(sb, n.X)
		fmt.Fprintf(sb, " %s ", n.Op)
		writeExpr(sb, n.Y)
		sb.WriteByte(')')
	case *CmpExpr:
		sb.WriteByte('(')
		writeExpr(sb, n.X)
		fmt.Fprintf(sb, " %s ", n.Op)
		writeExpr(sb, n.Y)
		sb.WriteByte(')')
	case *AndExpr:
		sb.WriteByte('(')
		writeExpr(sb, n.X)
		sb.WriteString(" && ")
		writeExpr(sb, n.Y)
		sb.WriteByte(')')
	case *OrExpr:
		sb.WriteByte('(')
		writeExpr(sb, n.X)
		sb.WriteString(" || ")
		writeExpr(sb, n.Y)
		sb.WriteByte(')')
	case *NotExpr:
		sb.WriteString("!")
		writeExpr(sb, n.X)
	case *CastExpr:
		fmt.Fprintf(sb, "cast(%s, ", n.DT)
		writeExpr(sb, n.X)
		sb.WriteByte(')')
	case *BufferLoad:
		fmt.Fprintf(sb, "%s[", n.Buffer.Name)
		for i, idx := range n.Indices {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, idx)
		}
		sb.WriteByte(']')
	default:
		fmt.Fprintf(sb, "<expr %T>", e)
	}
}

// PrintStmt renders s as an indented pseudo-statement tree, for debug output
// and ScheduleError diagnostics.
func PrintStmt(s Stmt) string {
	var sb strings.Builder
	writeStmt(&sb, s, 0)
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func writeStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch n := s.(type) {
	case nil:
		sb.WriteString("<nil>\n")
	case *For:
		fmt.Fprintf(sb, "for %s in [%s, %s+%s) [%s]:\n", n.LoopVar, PrintExpr(n.Min), PrintExpr(n.Min), PrintExpr(n.Extent), n.Kind)
		writeStmt(sb, n.Body, depth+1)
	case *SeqStmt:
		sb.WriteString("seq:\n")
		for _, child := range n.Seq {
			writeStmt(sb, child, depth+1)
		}
	case *IfThenElse:
		fmt.Fprintf(sb, "if %s:\n", PrintExpr(n.Cond))
		writeStmt(sb, n.Then, depth+1)
		if n.Else != nil {
			indent(sb, depth)
			sb.WriteString("else:\n")
			writeStmt(sb, n.Else, depth+1)
		}
	case *BufferStore:
		fmt.Fprintf(sb, "%s[", n.Buffer.Name)
		for i, idx := range n.Indices {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(PrintExpr(idx))
		}
		fmt.Fprintf(sb, "] = %s\n", PrintExpr(n.Value))
	case *BlockRealize:
		fmt.Fprintf(sb, "block %s(", n.Block.NameHint)
		for i, iv := range n.Block.IterVars {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s=%s", iv.V, PrintExpr(n.IterValues[i]))
		}
		fmt.Fprintf(sb, ") where %s:\n", PrintExpr(n.Predicate))
		if n.Block.Init != nil {
			indent(sb, depth+1)
			sb.WriteString("init:\n")
			writeStmt(sb, n.Block.Init, depth+2)
		}
		writeStmt(sb, n.Block.Body, depth+1)
	default:
		fmt.Fprintf(sb, "<stmt %T>\n", s)
	}
}
