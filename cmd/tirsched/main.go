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

// Command tirsched drives the Blockize and Tensorize schedule primitives
// against small, fixed example programs, for manual inspection of the
// rewrites each primitive performs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tirsched:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tirsched",
		Short: "Inspect the blockize and tensorize loop-nest scheduling primitives",
	}
	root.AddCommand(newBlockizeCmd())
	root.AddCommand(newTensorizeCmd())
	root.AddCommand(newBatchCmd())
	return root
}
