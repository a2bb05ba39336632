package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Artifact kinds.
const (
	KindLogistic = "logistic"
	KindForest   = "forest"
)

const formatVersion = 1

// ErrInvalidArtifact wraps every consistency problem found while loading.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact is the JSON export of a trained classifier.
type Artifact struct {
	FormatVersion int             `json:"format_version"`
	Kind          string          `json:"kind"`
	Description   string          `json:"description,omitempty"`
	FeatureNames  []string        `json:"feature_names,omitempty"`
	NumFeatures   int             `json:"n_features,omitempty"`
	Logistic      *LogisticParams `json:"logistic,omitempty"`
	Forest        *ForestParams   `json:"forest,omitempty"`
}

type LogisticParams struct {
	Intercept    float64       `json:"intercept"`
	Coefficients []float64     `json:"coefficients"`
	Scaler       *ScalerParams `json:"scaler,omitempty"`
}

type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type ForestParams struct {
	Trees []TreeParams `json:"trees"`
}

type TreeParams struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Load reads and validates the artifact at path.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes an artifact. The version of the returned classifier is the kind plus
// the first 12 hex digits of the artifact's SHA-256.
func Parse(data []byte) (Classifier, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if a.FormatVersion != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format_version %d", ErrInvalidArtifact, a.FormatVersion)
	}

	sum := sha256.Sum256(data)
	version := a.Kind + "@" + hex.EncodeToString(sum[:])[:12]

	switch a.Kind {
	case KindLogistic:
		return buildLogistic(a, version)
	case KindForest:
		return buildForest(a, version)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, fmt.Sprintf(format, args...))
}

func buildLogistic(a Artifact, version string) (*Logistic, error) {
	p := a.Logistic
	if p == nil {
		return nil, invalid("kind logistic without logistic parameters")
	}
	n := len(p.Coefficients)
	if n == 0 {
		return nil, invalid("no coefficients")
	}
	if err := checkNames(a.FeatureNames, n); err != nil {
		return nil, err
	}

	m := &Logistic{
		features:     a.FeatureNames,
		version:      version,
		description:  a.Description,
		intercept:    p.Intercept,
		coefficients: p.Coefficients,
	}
	if p.Scaler != nil {
		if len(p.Scaler.Mean) != n || len(p.Scaler.Scale) != n {
			return nil, invalid("scaler has %d means and %d scales for %d coefficients",
				len(p.Scaler.Mean), len(p.Scaler.Scale), n)
		}
		for i, s := range p.Scaler.Scale {
			if s == 0 || math.IsNaN(s) {
				return nil, invalid("scaler scale[%d] is %v", i, s)
			}
		}
		m.mean = p.Scaler.Mean
		m.scale = p.Scaler.Scale
	}
	return m, nil
}

func buildForest(a Artifact, version string) (*Forest, error) {
	p := a.Forest
	if p == nil || len(p.Trees) == 0 {
		return nil, invalid("kind forest without trees")
	}
	n := a.NumFeatures
	if n == 0 {
		n = len(a.FeatureNames)
	}
	if n == 0 {
		return nil, invalid("forest needs feature_names or n_features")
	}
	if err := checkNames(a.FeatureNames, n); err != nil {
		return nil, err
	}

	m := &Forest{
		features:    a.FeatureNames,
		version:     version,
		description: a.Description,
		numFeatures: n,
		trees:       make([]tree, 0, len(p.Trees)),
	}
	for i, tp := range p.Trees {
		t, err := buildTree(tp, n)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, t)
	}
	return m, nil
}

func buildTree(tp TreeParams, numFeatures int) (tree, error) {
	nodes := len(tp.ChildrenLeft)
	if nodes == 0 {
		return tree{}, invalid("empty tree")
	}
	if len(tp.ChildrenRight) != nodes || len(tp.Feature) != nodes ||
		len(tp.Threshold) != nodes || len(tp.Value) != nodes {
		return tree{}, invalid("node arrays differ in length")
	}

	t := tree{
		left:      tp.ChildrenLeft,
		right:     tp.ChildrenRight,
		feature:   tp.Feature,
		threshold: tp.Threshold,
		value:     make([][2]float64, nodes),
	}
	for i := 0; i < nodes; i++ {
		if len(tp.Value[i]) != 2 {
			return tree{}, invalid("node %d has %d class weights, want 2", i, len(tp.Value[i]))
		}
		t.value[i] = [2]float64{tp.Value[i][0], tp.Value[i][1]}

		l, r := tp.ChildrenLeft[i], tp.ChildrenRight[i]
		if l == -1 {
			if r != -1 {
				return tree{}, invalid("node %d has only one child", i)
			}
			continue
		}
		// children always come after their parent, so every walk terminates
		if l <= i || l >= nodes || r <= i || r >= nodes {
			return tree{}, invalid("node %d has children %d/%d out of range", i, l, r)
		}
		if f := tp.Feature[i]; f < 0 || f >= numFeatures {
			return tree{}, invalid("node %d splits on feature %d of %d", i, f, numFeatures)
		}
	}
	return t, nil
}

func checkNames(names []string, n int) error {
	if len(names) != 0 && len(names) != n {
		return invalid("%d feature names for %d features", len(names), n)
	}
	return nil
}
