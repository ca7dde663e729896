//go:build ignore

// generate_testdata.go creates sample documents for benchmarking and manual
// testing of the navigator.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.json   (depth 3, breadth 4)
//	testdata/benchmark/medium.json  (depth 5, breadth 6)
//	testdata/benchmark/large.json   (depth 6, breadth 10)
//	testdata/benchmark/chain.json   (single-child chain, 50 levels)
//	testdata/benchmark/layered.json (main content concentrated at depth 3)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/loader"
	"github.com/davidRoussov/json-to-terminal/pkg/testutil"
)

type datasetSpec struct {
	name    string
	depth   int
	breadth int
	desc    string
}

var datasets = []datasetSpec{
	{"small", 3, 4, "Small listing page"},
	{"medium", 5, 6, "Medium forum thread"},
	{"large", 6, 10, "Large nested archive"},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (depth %d, breadth %d)...\n", ds.name, ds.depth, ds.breadth)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:          int64(ds.depth*100 + ds.breadth), // Reproducible per-size
			IDPrefix:      ds.name,
			MaxDepth:      ds.depth,
			MaxBreadth:    ds.breadth,
			ValuesPerNode: 4,
			PrimaryRatio:  0.4,
			URLRatio:      0.3,
		})
		write(outputDir, ds.name, ds.desc, gen.Document())
	}

	gen := testutil.NewDefault()
	write(outputDir, "chain", "Single-child chain", gen.Chain(50))
	write(outputDir, "layered", "Main content at depth 3", gen.Layered(map[int]int{1: 2, 3: 40, 5: 3}))

	fmt.Println("\nDone! Sample documents created in", outputDir)
}

func write(dir, name, title string, root *content.Node) {
	tree, err := content.NewTree(title, content.Link(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s tree: %v\n", name, err)
		os.Exit(1)
	}

	outputPath := filepath.Join(dir, name+".json")
	f, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := loader.Write(f, tree); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("  Written %s (%d nodes, max depth %d)\n", outputPath, tree.Len(), tree.MaxDepth())
}
