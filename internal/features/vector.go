package features

// UnseenLevel records a categorical value outside the training universe.
type UnseenLevel struct {
	Field string `json:"field"`
	Level string `json:"level"`
}

// Vector is an ordered mapping from feature name to value.
type Vector struct {
	names  []string
	values []float64
	index  map[string]int

	// Unseen lists the categorical inputs that fell back to the reference
	// level because they were not in the universe.
	Unseen []UnseenLevel
}

func newVector(capacity int) Vector {
	return Vector{
		names:  make([]string, 0, capacity),
		values: make([]float64, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// NewVector builds a vector from parallel name and value slices.
// Missing values default to 0.
func NewVector(names []string, values []float64) Vector {
	v := newVector(len(names))
	for i, n := range names {
		var x float64
		if i < len(values) {
			x = values[i]
		}
		v.set(n, x)
	}
	return v
}

func (v *Vector) set(name string, x float64) {
	if i, ok := v.index[name]; ok {
		v.values[i] = x
		return
	}
	v.index[name] = len(v.names)
	v.names = append(v.names, name)
	v.values = append(v.values, x)
}

// Get returns the value for name.
func (v Vector) Get(name string) (float64, bool) {
	i, ok := v.index[name]
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// Len returns the number of features.
func (v Vector) Len() int { return len(v.names) }

// Names returns the feature names in order.
func (v Vector) Names() []string { return append([]string(nil), v.names...) }

// Values returns the feature values in order.
func (v Vector) Values() []float64 { return append([]float64(nil), v.values...) }

// Map returns the vector as an unordered map.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.names))
	for i, n := range v.names {
		m[n] = v.values[i]
	}
	return m
}

// Equal reports whether two vectors have the same names, order and values.
func (v Vector) Equal(o Vector) bool {
	if len(v.names) != len(o.names) {
		return false
	}
	for i := range v.names {
		if v.names[i] != o.names[i] || v.values[i] != o.values[i] {
			return false
		}
	}
	return true
}
