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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tensorsched/tir/internal/demo"
	"github.com/tensorsched/tir/internal/xlog"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/schedule"
	"github.com/tensorsched/tir/sref"
	"github.com/tensorsched/tir/trace"
)

func newBlockizeCmd() *cobra.Command {
	var preserveUnitIters bool
	var loopDepth int

	cmd := &cobra.Command{
		Use:   "blockize",
		Short: "Blockize the loop at the given depth of the built-in matmul example",
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, _, _, _ := demo.MatmulAccumulate(8, 8, 8)
			state := sref.New(fn.Body)

			loopRef, err := nthLoop(state, loopDepth)
			if err != nil {
				return err
			}

			xlog.Debugf("blockizing loop at depth %d", loopDepth)
			result, err := schedule.Blockize(state, loopRef, schedule.WithPreserveUnitIters(preserveUnitIters))
			if err != nil {
				return err
			}

			tr := &trace.Trace{}
			tr.Blockize(fmt.Sprintf("loop%d", loopDepth), preserveUnitIters, "b0")
			cmd.Println(tr.AsPython())
			cmd.Println()
			cmd.Println(ir.PrintStmt(result.Stmt))
			return nil
		},
	}
	cmd.Flags().BoolVar(&preserveUnitIters, "preserve-unit-iters", false, "keep unit-extent block iter vars instead of folding them away")
	cmd.Flags().IntVar(&loopDepth, "loop-depth", 2, "0-indexed depth (from the outermost loop) of the loop to blockize")
	return cmd
}

// nthLoop descends depth For nodes from the ScheduleState's root and
// returns the StmtSRef of the one at that depth.
func nthLoop(state *sref.ScheduleState, depth int) (*sref.StmtSRef, error) {
	ref := state.Root
	stmt := ref.Stmt
	for i := 0; i <= depth; i++ {
		loop, ok := stmt.(*ir.For)
		if !ok {
			return nil, fmt.Errorf("loop depth %d exceeds the example's loop nest", depth)
		}
		found := state.GetSRef(loop)
		if found == nil {
			return nil, fmt.Errorf("loop depth %d: no sref indexed for this loop", depth)
		}
		ref = found
		if i == depth {
			return ref, nil
		}
		stmt = loop.Body
	}
	return nil, fmt.Errorf("loop depth %d exceeds the example's loop nest", depth)
}
