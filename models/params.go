// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Params is an open mapping of training arguments. Values are whatever the
// YAML decoder produced: int, float64, string, bool, nested maps and lists.
type Params map[string]any

// Grid is a hyperparameter search grid: each axis lists candidate values.
type Grid map[string][]any

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new Params holding p overlaid with other.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// MarshalYAML emits keys in sorted order and keeps integral floats tagged as
// floats, so that a marshal/unmarshal cycle reproduces the same Go values.
func (p Params) MarshalYAML() (any, error) {
	if p == nil {
		return nil, nil
	}
	return mappingNode(p)
}

// Axes returns the grid axis names in sorted order.
func (g Grid) Axes() []string {
	axes := make([]string, 0, len(g))
	for k := range g {
		axes = append(axes, k)
	}
	sort.Strings(axes)
	return axes
}

// Size is the number of combinations the grid expands to. An empty grid
// expands to a single empty combination.
func (g Grid) Size() int {
	n := 1
	for _, values := range g {
		n *= len(values)
	}
	return n
}

// Combinations expands the grid into its cartesian product. Axes are walked
// in sorted order with the last axis varying fastest, so the expansion is
// deterministic for a given document.
func (g Grid) Combinations() []Params {
	combos := []Params{{}}
	for _, axis := range g.Axes() {
		next := make([]Params, 0, len(combos)*len(g[axis]))
		for _, combo := range combos {
			for _, v := range g[axis] {
				c := combo.Merge(Params{axis: v})
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos
}

// MarshalYAML emits axes in sorted order with float-preserving values.
func (g Grid) MarshalYAML() (any, error) {
	if g == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, axis := range g.Axes() {
		values, err := valueNode(g[axis])
		if err != nil {
			return nil, fmt.Errorf("hyperparameter %q: %w", axis, err)
		}
		node.Content = append(node.Content, keyNode(axis), values)
	}
	return node, nil
}

func mappingNode(m map[string]any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range Params(m).Keys() {
		v, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode(k), v)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case float64:
		return floatNode(val), nil
	case float32:
		return floatNode(float64(val)), nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			n, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case map[string]any:
		return mappingNode(val)
	case Params:
		return mappingNode(val)
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

func keyNode(k string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
}

func floatNode(f float64) *yaml.Node {
	var s string
	switch {
	case math.IsNaN(f):
		s = ".nan"
	case math.IsInf(f, 1):
		s = ".inf"
	case math.IsInf(f, -1):
		s = "-.inf"
	default:
		s = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}
