// Package catalog holds the static syllabus: the ordered list of exam topics
// with their weights, and the learning-module structure generated beneath each
// topic. The structure is derived deterministically from the catalog version so
// every process sees the same module and outcome identifiers.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed topics.json
var defaultCatalogJSON []byte

//go:embed topics.schema.json
var catalogSchemaJSON []byte

const (
	minOutcomesPerModule = 5
	maxOutcomesPerModule = 12
)

// Topic is a syllabus subject area. Weight is the topic's percentage
// contribution to the exam-weighted score; weights across the catalog sum to
// roughly 100.
type Topic struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	ModuleCount int     `json:"module_count"`
}

// LearningOutcome is the finest-grained trackable unit. Its identifier doubles
// as the quiz identifier candidates record attempts against.
type LearningOutcome struct {
	ID string `json:"id"`
}

// LearningModule groups learning outcomes within a topic.
type LearningModule struct {
	ID       string            `json:"id"`
	Outcomes []LearningOutcome `json:"outcomes"`
}

// Catalog is an immutable, versioned topic catalog.
type Catalog struct {
	version string
	topics  []Topic
	index   map[string]int
}

type catalogDocument struct {
	Version string  `json:"version"`
	Topics  []Topic `json:"topics"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalogJSON)
}

// LoadFile reads a catalog override from disk. The document is validated
// against the same schema as the embedded default.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("topics.schema.json", bytes.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load catalog schema: %w", err)
	}

	schema, err := compiler.Compile("topics.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("catalog document failed validation: %w", err)
	}

	var parsed catalogDocument
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}

	index := make(map[string]int, len(parsed.Topics))
	for i, topic := range parsed.Topics {
		if _, exists := index[topic.ID]; exists {
			return nil, fmt.Errorf("duplicate topic id %q", topic.ID)
		}
		index[topic.ID] = i
	}

	return &Catalog{
		version: parsed.Version,
		topics:  parsed.Topics,
		index:   index,
	}, nil
}

// Version returns the catalog version identifier.
func (c *Catalog) Version() string {
	return c.version
}

// Topics returns the ordered topic list.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Topic looks up a topic by id.
func (c *Catalog) Topic(id string) (Topic, bool) {
	i, ok := c.index[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Weights returns the topic id to exam weight mapping used by the aggregator.
func (c *Catalog) Weights() map[string]float64 {
	weights := make(map[string]float64, len(c.topics))
	for _, topic := range c.topics {
		weights[topic.ID] = topic.Weight
	}
	return weights
}

// Modules generates the learning-module structure for a topic. Module n is
// named LM<n> and its outcomes LM<n>-LOS<m>; the number of outcomes per module
// is drawn from a seed derived from the catalog version, so the structure is
// stable across restarts and changes only with the version.
func (c *Catalog) Modules(topicID string) ([]LearningModule, bool) {
	topic, ok := c.Topic(topicID)
	if !ok {
		return nil, false
	}

	modules := make([]LearningModule, 0, topic.ModuleCount)
	for n := 1; n <= topic.ModuleCount; n++ {
		moduleID := fmt.Sprintf("LM%d", n)
		count := c.outcomeCount(topicID, n)
		outcomes := make([]LearningOutcome, 0, count)
		for m := 1; m <= count; m++ {
			outcomes = append(outcomes, LearningOutcome{ID: fmt.Sprintf("%s-LOS%d", moduleID, m)})
		}
		modules = append(modules, LearningModule{ID: moduleID, Outcomes: outcomes})
	}

	return modules, true
}

func (c *Catalog) outcomeCount(topicID string, module int) int {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s/LM%d", c.version, topicID, module)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return minOutcomesPerModule + rng.Intn(maxOutcomesPerModule-minOutcomesPerModule+1)
}
