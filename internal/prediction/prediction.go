// Package prediction models clustering and range predictions produced by
// external inference services. Their payloads are opaque; only the
// algorithm/intent pair is interpreted, as a closed set of kinds, plus the
// rules of range predictions which can be replayed against a dataset.
package prediction

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Kind is the closed set of prediction kinds the presentation layer
// dispatches on.
type Kind int

const (
	KindUnknown Kind = iota
	KindDBScanCluster
	KindKMeansCluster
	KindRange
	KindSimplifiedRange
)

func (k Kind) String() string {
	switch k {
	case KindDBScanCluster:
		return "dbscan-cluster"
	case KindKMeansCluster:
		return "kmeans-cluster"
	case KindRange:
		return "range"
	case KindSimplifiedRange:
		return "simplified-range"
	default:
		return "unknown"
	}
}

// KindOf maps the algorithm and intent discriminators to a Kind. DBScan
// only renders as a cluster; KMeans renders regardless of intent.
func KindOf(algorithm, intent string) Kind {
	switch algorithm {
	case "DBScan":
		if intent == "Cluster" {
			return KindDBScanCluster
		}
	case "KMeans":
		return KindKMeansCluster
	case "DecisionTree":
		switch intent {
		case "Range":
			return KindRange
		case "SimplifiedRange":
			return KindSimplifiedRange
		}
	}
	return KindUnknown
}

// Prediction is one result of an inference run.
type Prediction struct {
	ID          string         `yaml:"id" json:"id"`
	Rank        float64        `yaml:"rank" json:"rank"`
	Intent      string         `yaml:"intent" json:"intent"`
	Algorithm   string         `yaml:"algorithm" json:"algorithm"`
	MemberIDs   []int          `yaml:"memberIds" json:"memberIds"`
	Dimensions  []string       `yaml:"dimensions" json:"dimensions"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Info        map[string]any `yaml:"info,omitempty" json:"info,omitempty"`
}

// Kind classifies the prediction.
func (p Prediction) Kind() Kind { return KindOf(p.Algorithm, p.Intent) }

// ErrNoRules is returned by Rules for predictions without range rules.
var ErrNoRules = errors.New("prediction has no range rules")

// Rules decodes info.rules of a range prediction.
func (p Prediction) Rules() (RuleSet, error) {
	raw, ok := p.Info["rules"]
	if !ok {
		return nil, ErrNoRules
	}
	outer, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("info.rules: expected list, got %T", raw)
	}
	exprs := make([][]string, len(outer))
	for i, r := range outer {
		inner, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("info.rules[%d]: expected list, got %T", i, r)
		}
		for j, e := range inner {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("info.rules[%d][%d]: expected string, got %T", i, j, e)
			}
			exprs[i] = append(exprs[i], s)
		}
	}
	return ParseRules(exprs)
}

// Load reads predictions from a YAML or JSON file. The document is either
// a list of predictions or an object with a "predictions" list. Missing
// IDs are filled with random UUIDs.
func Load(path string) ([]Prediction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	return Parse(b)
}

// Parse decodes predictions from YAML or JSON bytes.
func Parse(b []byte) ([]Prediction, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("parse predictions: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	var preds []Prediction
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&preds); err != nil {
			return nil, fmt.Errorf("decode predictions: %w", err)
		}
	case yaml.MappingNode:
		var doc struct {
			Predictions []Prediction `yaml:"predictions"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode predictions: %w", err)
		}
		preds = doc.Predictions
	default:
		return nil, fmt.Errorf("parse predictions: unexpected %s document", strings.TrimSpace(root.Tag))
	}
	for i := range preds {
		if preds[i].ID == "" {
			preds[i].ID = uuid.NewString()
		}
	}
	return preds, nil
}

// RangeRank is the rank a decision tree of the given depth assigns to its
// range prediction: shallower trees rank higher.
func RangeRank(depth int) float64 {
	return 1 / (float64(depth*depth) + 1)
}
