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
	"github.com/spf13/cobra"

	"github.com/tensorsched/tir/internal/demo"
	"github.com/tensorsched/tir/ir"
	"github.com/tensorsched/tir/schedule"
	"github.com/tensorsched/tir/sref"
	"github.com/tensorsched/tir/trace"
)

func newTensorizeCmd() *cobra.Command {
	var preserveUnitIters bool

	cmd := &cobra.Command{
		Use:   "tensorize",
		Short: "Blockize then tensorize the innermost loop of the built-in matmul example against an FMA intrinsic",
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, _, _, _ := demo.MatmulAccumulate(8, 8, 8)
			state := sref.New(fn.Body)

			innerLoop, err := nthLoop(state, 2)
			if err != nil {
				return err
			}

			intrinsic := demo.FMAIntrinsic("fma")
			result, err := schedule.Tensorize(state, innerLoop, intrinsic, schedule.WithPreserveUnitIters(preserveUnitIters))
			if err != nil {
				return err
			}

			tr := &trace.Trace{}
			tr.Tensorize("loop2", intrinsic.Name, preserveUnitIters)
			cmd.Println(tr.AsPython())
			cmd.Println()
			cmd.Println(ir.PrintStmt(result.Stmt))
			return nil
		},
	}
	cmd.Flags().BoolVar(&preserveUnitIters, "preserve-unit-iters", false, "keep unit-extent block iter vars instead of folding them away")
	return cmd
}
