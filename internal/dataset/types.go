// Package dataset holds the tabular data model the classification engine
// operates on: typed attribute values, rows ("instances"), and the dense
// decision-label enumeration every classifier keys its support counts by.
package dataset

// AttrKind distinguishes numeric from nominal conditional attributes.
type AttrKind int

const (
	Numeric AttrKind = iota
	Nominal
)

func (k AttrKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "nominal"
}

// AttributeValue is a single cell. Num is meaningful only when the owning
// attribute is Numeric and Missing is false; Raw always carries the
// original token, used for nominal comparison and for echoing to output.
type AttributeValue struct {
	Missing bool
	Num     float64
	Raw     string
}

// Instance is one row: a 1-based id, the conditional attribute values in
// column order, and the decision label. Conditional attributes and the
// decision are disjoint.
type Instance struct {
	ID     int
	Attrs  []AttributeValue
	Decision string
}

// Dataset is an ordered set of instances plus the attribute-kind vector
// and the insertion-ordered decision-label enumeration shared by every
// row. It is built once by ingestion and never mutated afterward.
type Dataset struct {
	Rows  []Instance
	Types []AttrKind

	// DecisionValues is insertion order of first appearance; DecisionIndex
	// is its inverse. Confusion-matrix rows/columns and support-count
	// slots are indexed by DecisionIndex, so this order must never be
	// reconstructed from an unordered map.
	DecisionValues []string
	DecisionIndex  map[string]int
}

// NumAttrs returns the number of conditional attributes.
func (d *Dataset) NumAttrs() int {
	return len(d.Types)
}

// NumClasses returns the number of distinct decision labels.
func (d *Dataset) NumClasses() int {
	return len(d.DecisionValues)
}

// ClassOf returns the dense class index for a row's decision label.
func (d *Dataset) ClassOf(row int) int {
	return d.DecisionIndex[d.Rows[row].Decision]
}

// AllIndices returns every row index in ascending order, a convenience for
// building a global training set.
func (d *Dataset) AllIndices() []int {
	idx := make([]int, len(d.Rows))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// ClassSizes counts, for each decision label, how many of the given row
// indices carry it. Always called with a training index set per
// spec.md's "class_sizes is always derived from the training index set".
func (d *Dataset) ClassSizes(indices []int) []int {
	sizes := make([]int, d.NumClasses())
	for _, idx := range indices {
		sizes[d.ClassOf(idx)]++
	}
	return sizes
}

// addDecision registers a decision label if it hasn't been seen before,
// preserving first-appearance order.
func (d *Dataset) addDecision(label string) {
	if d.DecisionIndex == nil {
		d.DecisionIndex = make(map[string]int)
	}
	if _, ok := d.DecisionIndex[label]; ok {
		return
	}
	d.DecisionIndex[label] = len(d.DecisionValues)
	d.DecisionValues = append(d.DecisionValues, label)
}
