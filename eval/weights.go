package eval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the pattern weights summed by the evaluator. A pattern
// is a run of same-colored stones classified by length, number of
// open ends, and whether the run contains a single one-cell hole.
// The defaults keep each class an order of magnitude apart so that an
// open four always outweighs any pile of smaller shapes.
type Weights struct {
	Five        int64 `yaml:"five"`
	OpenFour    int64 `yaml:"open_four"`
	ClosedFour  int64 `yaml:"closed_four"`
	OpenThree   int64 `yaml:"open_three"`
	ClosedThree int64 `yaml:"closed_three"`
	OpenTwo     int64 `yaml:"open_two"`

	// Holed shapes: the run counts the hole, so a "holed five" is
	// five stones broken by one gap.
	HoleFive       int64 `yaml:"hole_five"`
	HoleOpenFour   int64 `yaml:"hole_open_four"`
	HoleClosedFour int64 `yaml:"hole_closed_four"`
}

// DefaultWeights returns the stock weight table.
func DefaultWeights() Weights {
	return Weights{
		Five:           100_000_000,
		OpenFour:       10_000_000,
		ClosedFour:     100_000,
		OpenThree:      5_000_000,
		ClosedThree:    10_000,
		OpenTwo:        2_000,
		HoleFive:       40_000,
		HoleOpenFour:   20_000,
		HoleClosedFour: 500,
	}
}

// LoadWeights reads a YAML weights file. Fields absent from the file
// keep their defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("reading weights file: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parsing weights file %s: %w", path, err)
	}
	return w, nil
}

func (w Weights) shapeScore(consecutive, openEnds int, hasHole bool) (int64, bool) {
	if hasHole {
		switch {
		case consecutive >= 5:
			return w.HoleFive, false
		case consecutive == 4 && openEnds == 2:
			return w.HoleOpenFour, false
		case consecutive == 4 && openEnds == 1:
			return w.HoleClosedFour, false
		}
		return 0, false
	}
	switch {
	// A five wins regardless of open ends.
	case consecutive >= 5:
		return w.Five, true
	case consecutive == 4 && openEnds == 2:
		return w.OpenFour, false
	case consecutive == 4 && openEnds == 1:
		return w.ClosedFour, false
	case consecutive == 3 && openEnds == 2:
		return w.OpenThree, false
	case consecutive == 3 && openEnds == 1:
		return w.ClosedThree, false
	case consecutive == 2 && openEnds == 2:
		return w.OpenTwo, false
	}
	return 0, false
}
