// Package estimator holds the trained regression estimators, one per
// budget target, and the schemas they were trained on.
package estimator

import (
	"fmt"
)

// Estimator predicts one target from a schema-aligned row.
type Estimator interface {
	Target() string
	Schema() Schema
	Predict(row Row) (float64, error)
}

// Linear is an intercept plus one coefficient per schema feature.
type Linear struct {
	target    string
	schema    Schema
	intercept float64
	coef      []float64
}

// NewLinear validates widths and returns a linear estimator.
func NewLinear(target string, schema Schema, intercept float64, coef []float64) (*Linear, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(coef) != schema.Width() {
		return nil, fmt.Errorf("%w: %s has %d coefficients for %d features", ErrSchemaMismatch, target, len(coef), schema.Width())
	}
	return &Linear{target: target, schema: schema, intercept: intercept, coef: append([]float64(nil), coef...)}, nil
}

func (l *Linear) Target() string { return l.target }
func (l *Linear) Schema() Schema { return l.schema }

func (l *Linear) Predict(row Row) (float64, error) {
	if err := l.schema.check(row); err != nil {
		return 0, err
	}
	y := l.intercept
	for i, c := range l.coef {
		y += c * row.Values[i]
	}
	return y, nil
}

// Tree is a fitted regression tree in array form. Node 0 is the root and a
// child index of -1 marks a leaf. Samples go left when x <= threshold.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

const leaf = -1

func (t Tree) validate(width int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has child out of range", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= width {
			return fmt.Errorf("node %d splits on feature %d, schema has %d", i, t.Feature[i], width)
		}
	}
	return nil
}

func (t Tree) eval(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Forest averages the leaf values of its trees.
type Forest struct {
	target string
	schema Schema
	trees  []Tree
}

// NewForest validates every tree against the schema width.
func NewForest(target string, schema Schema, trees []Tree) (*Forest, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest %s has no trees", target)
	}
	for i, t := range trees {
		if err := t.validate(schema.Width()); err != nil {
			return nil, fmt.Errorf("forest %s tree %d: %w", target, i, err)
		}
	}
	return &Forest{target: target, schema: schema, trees: trees}, nil
}

func (f *Forest) Target() string { return f.target }
func (f *Forest) Schema() Schema { return f.schema }

func (f *Forest) Predict(row Row) (float64, error) {
	if err := f.schema.check(row); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.eval(row.Values)
	}
	return sum / float64(len(f.trees)), nil
}

// Constant always predicts the same value. Its schema still applies.
type Constant struct {
	target string
	schema Schema
	value  float64
}

// NewConstant returns a constant estimator.
func NewConstant(target string, schema Schema, value float64) (*Constant, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Constant{target: target, schema: schema, value: value}, nil
}

func (c *Constant) Target() string { return c.target }
func (c *Constant) Schema() Schema { return c.schema }

func (c *Constant) Predict(row Row) (float64, error) {
	if err := c.schema.check(row); err != nil {
		return 0, err
	}
	return c.value, nil
}
