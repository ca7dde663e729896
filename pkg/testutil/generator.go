// Package testutil provides content tree fixtures for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
)

// GeneratorConfig controls document generation.
type GeneratorConfig struct {
	Seed          int64   // Random seed for determinism (0 = 42)
	IDPrefix      string  // Prefix for node IDs (default: "n")
	MaxDepth      int     // Deepest level generated below the root (default: 4)
	MaxBreadth    int     // Upper bound on children per node (default: 4)
	ValuesPerNode int     // Upper bound on values per node (default: 3)
	PrimaryRatio  float64 // Probability a value is primary content (default: 0.5)
	URLRatio      float64 // Probability a node carries a URL value
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42,
		IDPrefix:      "n",
		MaxDepth:      4,
		MaxBreadth:    4,
		ValuesPerNode: 3,
		PrimaryRatio:  0.5,
		URLRatio:      0.2,
	}
}

// Generator creates content trees with various shapes.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = def.IDPrefix
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxBreadth <= 0 {
		cfg.MaxBreadth = def.MaxBreadth
	}
	if cfg.ValuesPerNode <= 0 {
		cfg.ValuesPerNode = def.ValuesPerNode
	}
	if cfg.PrimaryRatio <= 0 {
		cfg.PrimaryRatio = def.PrimaryRatio
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) id() string {
	id := fmt.Sprintf("%s%d", g.cfg.IDPrefix, g.next)
	g.next++
	return id
}

// Document creates a random linked tree. Every node gets at least one value,
// so none is degenerate.
func (g *Generator) Document() *content.Node {
	var build func(depth int) *content.Node
	build = func(depth int) *content.Node {
		n := &content.Node{ID: g.id(), Values: g.values()}
		if depth < g.cfg.MaxDepth {
			for i := g.rng.Intn(g.cfg.MaxBreadth + 1); i > 0; i-- {
				n.Children = append(n.Children, build(depth+1))
			}
		}
		return n
	}
	return content.Link(build(0))
}

// Chain creates a linear tree of size nodes where each node has exactly one
// child: r -> c1 -> c2 ... Every node carries one value.
func (g *Generator) Chain(size int) *content.Node {
	if size < 1 {
		size = 1
	}
	root := &content.Node{ID: g.id(), Values: []content.ValueAnnotation{Val("text", "root")}}
	cur := root
	for i := 1; i < size; i++ {
		c := &content.Node{ID: g.id(), Values: []content.ValueAnnotation{Val("text", fmt.Sprintf("level %d", i))}}
		cur.Children = []*content.Node{c}
		cur = c
	}
	return content.Link(root)
}

// Wide creates a root with breadth leaf children.
func (g *Generator) Wide(breadth int) *content.Node {
	root := &content.Node{ID: g.id(), Values: []content.ValueAnnotation{Val("title", "wide", Title)}}
	for i := 0; i < breadth; i++ {
		root.Children = append(root.Children, &content.Node{
			ID:     g.id(),
			Values: []content.ValueAnnotation{Val("text", fmt.Sprintf("item %d", i), Primary)},
		})
	}
	return content.Link(root)
}

// Layered creates a tree whose main primary content is spread over depths
// as described by counts: counts[d] main primary values at depth d. Each
// level hangs under the first node of the level above.
func (g *Generator) Layered(counts map[int]int) *content.Node {
	deepest := 0
	for d := range counts {
		deepest = max(deepest, d)
	}
	root := &content.Node{ID: g.id(), Values: []content.ValueAnnotation{Val("title", "layered", Title)}}
	parent := root
	for d := 1; d <= deepest; d++ {
		c := &content.Node{ID: g.id(), Values: []content.ValueAnnotation{Val("label", fmt.Sprintf("depth %d", d))}}
		for i := 0; i < counts[d]; i++ {
			c.Values = append(c.Values, Val(fmt.Sprintf("body%03d", i), "content", Main))
		}
		parent.Children = append(parent.Children, c)
		parent = c
	}
	for i := 0; i < counts[0]; i++ {
		root.Values = append(root.Values, Val(fmt.Sprintf("body%03d", i), "content", Main))
	}
	return content.Link(root)
}

var sampleWords = []string{"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit", "sed", "do", "eiusmod", "tempor"}

func (g *Generator) values() []content.ValueAnnotation {
	count := g.rng.Intn(g.cfg.ValuesPerNode) + 1
	vals := make([]content.ValueAnnotation, 0, count+1)
	for i := 0; i < count; i++ {
		var opts []ValueOption
		if g.rng.Float64() < g.cfg.PrimaryRatio {
			opts = append(opts, Primary)
			if g.rng.Intn(2) == 0 {
				opts = append(opts, Main)
			}
		}
		vals = append(vals, Val(fmt.Sprintf("v%d", i), g.sentence(), opts...))
	}
	if g.rng.Float64() < g.cfg.URLRatio {
		vals = append(vals, Val("href", fmt.Sprintf("https://example.com/%d", g.rng.Intn(1000)), URL))
	}
	return vals
}

func (g *Generator) sentence() string {
	n := g.rng.Intn(8) + 1
	words := make([]string, n)
	for i := range words {
		words[i] = sampleWords[g.rng.Intn(len(sampleWords))]
	}
	return strings.Join(words, " ")
}
