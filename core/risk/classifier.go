package risk

import (
	"github.com/pkg/errors"
)

// Classifier is the contract with the trained artifact: one feature vector
// in, one risk label out. The label vocabulary is determined entirely by the
// artifact. Implementations must be safe for concurrent use.
type Classifier interface {
	Predict(vec FeatureVector) (string, error)
}

type (
	// TreeNode is one node of an exported decision tree. Leaf nodes carry a
	// label and have Feature == -1; split nodes route to the Left child when
	// vec[Feature] <= Threshold, otherwise to the Right child.
	TreeNode struct {
		Feature   int     `json:"feature"`
		Threshold float64 `json:"threshold"`
		Left      int     `json:"left"`
		Right     int     `json:"right"`
		Label     string  `json:"label"`
	}

	// DecisionTree is the artifact-backed classifier: the offline training
	// job exports the fitted tree (with labels already inverse-transformed
	// to strings) and this walks it. Read-only after load.
	DecisionTree struct {
		nodes []TreeNode
	}
)

var _ Classifier = (*DecisionTree)(nil)

// NewDecisionTree validates node references and returns the classifier.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("decision tree has no nodes")
	}
	for i, n := range nodes {
		if n.Feature == -1 {
			if n.Label == "" {
				return nil, errors.Errorf("leaf node %d has no label", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= FeatureCount {
			return nil, errors.Errorf("node %d references feature %d, want 0..%d", i, n.Feature, FeatureCount-1)
		}
		// children must exist and point forward, ruling out cycles
		if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
			return nil, errors.Errorf("node %d has invalid children (%d, %d)", i, n.Left, n.Right)
		}
	}
	return &DecisionTree{nodes: nodes}, nil
}

func (t *DecisionTree) Predict(vec FeatureVector) (string, error) {
	i := 0
	for {
		node := t.nodes[i]
		if node.Feature == -1 {
			return node.Label, nil
		}
		if vec[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Labels returns the distinct leaf labels of the tree.
func (t *DecisionTree) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, n := range t.nodes {
		if n.Feature == -1 && !seen[n.Label] {
			seen[n.Label] = true
			labels = append(labels, n.Label)
		}
	}
	return labels
}
