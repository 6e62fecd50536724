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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tensorsched/tir/internal/demo"
	"github.com/tensorsched/tir/schedule"
	"github.com/tensorsched/tir/sref"
)

// newBatchCmd runs N independent blockize-then-tensorize pipelines
// concurrently, one ScheduleState per worker, demonstrating that distinct
// schedule instances share no mutable state and can be driven by an
// errgroup the way independent build or test jobs are.
func newBatchCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run N independent blockize+tensorize pipelines concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _ := errgroup.WithContext(context.Background())
			for i := 0; i < n; i++ {
				i := i
				g.Go(func() error {
					if err := runPipeline(); err != nil {
						return fmt.Errorf("worker %d: %w", i, err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			cmd.Printf("completed %d independent schedule pipelines\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 4, "number of independent schedule pipelines to run")
	return cmd
}

func runPipeline() error {
	fn, _, _, _ := demo.MatmulAccumulate(8, 8, 8)
	state := sref.New(fn.Body)
	innerLoop, err := nthLoop(state, 2)
	if err != nil {
		return err
	}
	intrinsic := demo.FMAIntrinsic("fma")
	_, err = schedule.Tensorize(state, innerLoop, intrinsic)
	return err
}
