package classifier

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
)

// Label is a graph class. The numeric value is the model output index.
type Label int

const (
	LabelCyclic Label = iota
	LabelDAG
	LabelTree
)

var labelNames = [...]string{"Cyclic", "DAG", "Tree"}

// Labels lists every label in output-index order
func Labels() []Label {
	return []Label{LabelCyclic, LabelDAG, LabelTree}
}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Valid reports whether l is one of the known labels
func (l Label) Valid() bool {
	return l >= 0 && int(l) < len(labelNames)
}

// MarshalJSON encodes the label by name
func (l Label) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown label %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel converts a label name
func ParseLabel(s string) (Label, error) {
	for i, name := range labelNames {
		if name == s {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("unknown label %q", s)
}

func labelFromStructure(s algorithms.Structure) Label {
	switch s {
	case algorithms.StructureCyclic:
		return LabelCyclic
	case algorithms.StructureTree:
		return LabelTree
	default:
		return LabelDAG
	}
}
