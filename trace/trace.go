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

// Package trace records schedule primitive invocations as replayable
// instructions and renders them back out as Python-schedule-API-style
// source, the way a real scheduling workflow logs every step it took so the
// same schedule can be replayed or inspected later.
package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is a named argument to an Instruction, rendered in Python-call
// syntax by APICall.
type Attr struct {
	Name  string
	Value any
}

// Instruction is a single recorded call to a schedule primitive: its kind
// name, the RV (random-variable) handles it read, and the attributes and
// outputs it produced.
type Instruction struct {
	Kind    string
	Inputs  []string
	Attrs   []Attr
	Outputs []string
}

// Kind describes one registered instruction kind: its name and whether
// applying it can be skipped without changing the schedule's observable
// effect (pure instructions, unlike Blockize/Tensorize, can be dropped by
// trace simplification passes).
type Kind struct {
	Name   string
	IsPure bool
}

var registry = map[string]Kind{}

func init() {
	Register(Kind{Name: "Blockize", IsPure: false})
	Register(Kind{Name: "Tensorize", IsPure: false})
}

// Register adds kind to the package's instruction kind table, the way
// TVM_REGISTER_INST_KIND_TRAITS registers BlockizeTraits/TensorizeTraits.
func Register(kind Kind) { registry[kind.Name] = kind }

// Lookup returns the registered Kind by name.
func Lookup(name string) (Kind, bool) {
	kind, ok := registry[name]
	return kind, ok
}

// Trace is an ordered sequence of Instructions, building up a replayable
// record of the schedule primitives applied to a PrimFunc.
type Trace struct {
	Insts []Instruction
}

// Append records inst at the end of t.
func (t *Trace) Append(inst Instruction) { t.Insts = append(t.Insts, inst) }

// Blockize appends a Blockize instruction over target (a loop or block RV
// name, or a comma-joined list of block RV names for the group form).
func (t *Trace) Blockize(target string, preserveUnitIters bool, output string) {
	t.Append(Instruction{
		Kind:    "Blockize",
		Inputs:  []string{target},
		Attrs:   []Attr{{Name: "preserve_unit_iters", Value: preserveUnitIters}},
		Outputs: []string{output},
	})
}

// Tensorize appends a Tensorize instruction over target (a loop or block RV
// name) against the named tensor intrinsic.
func (t *Trace) Tensorize(target, intrinName string, preserveUnitIters bool) {
	t.Append(Instruction{
		Kind:   "Tensorize",
		Inputs: []string{target},
		Attrs: []Attr{
			{Name: "tensor_intrin", Value: intrinName},
			{Name: "preserve_unit_iters", Value: preserveUnitIters},
		},
	})
}

// APICall renders a single Instruction as a Python schedule-API call, the
// way PythonAPICall formats "sch.blockize(loop, preserve_unit_iters=True)".
type APICall struct {
	methodName string
	inputs     []string
	attrs      []string
	outputs    []string
}

// NewAPICall begins rendering a call to sch.<methodName>(...).
func NewAPICall(methodName string) *APICall {
	return &APICall{methodName: strings.ToLower(methodName[:1]) + methodName[1:]}
}

// Input appends a positional argument.
func (c *APICall) Input(value string) *APICall {
	c.inputs = append(c.inputs, value)
	return c
}

// Attr appends a name=value keyword argument.
func (c *APICall) Attr(name string, value any) *APICall {
	c.attrs = append(c.attrs, fmt.Sprintf("%s=%s", name, pyLiteral(value)))
	return c
}

// SingleOutput records a single output RV name to assign the call's result
// to.
func (c *APICall) SingleOutput(name string) *APICall {
	c.outputs = []string{name}
	return c
}

// String renders the call, e.g. "b1 = sch.blockize(loop0, preserve_unit_iters=True)".
func (c *APICall) String() string {
	args := append(append([]string{}, c.inputs...), c.attrs...)
	call := fmt.Sprintf("sch.%s(%s)", c.methodName, strings.Join(args, ", "))
	if len(c.outputs) == 0 {
		return call
	}
	return fmt.Sprintf("%s = %s", strings.Join(c.outputs, ", "), call)
}

func pyLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AsPython renders every instruction in t as a sequence of Python API
// calls, one per line.
func (t *Trace) AsPython() string {
	var lines []string
	for _, inst := range t.Insts {
		call := NewAPICall(inst.Kind)
		for _, in := range inst.Inputs {
			call.Input(in)
		}
		for _, a := range inst.Attrs {
			call.Attr(a.Name, a.Value)
		}
		if len(inst.Outputs) == 1 {
			call.SingleOutput(inst.Outputs[0])
		} else if len(inst.Outputs) > 1 {
			call.outputs = inst.Outputs
		}
		lines = append(lines, call.String())
	}
	return strings.Join(lines, "\n")
}
