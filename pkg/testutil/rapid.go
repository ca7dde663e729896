package testutil

import (
	"fmt"

	"pgregory.net/rapid"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
)

// TreeGen draws random valid trees up to maxDepth levels below the root and
// maxBreadth children per node. Nodes may be degenerate or carry only
// filtered values, so projections see every case.
func TreeGen(maxDepth, maxBreadth int) *rapid.Generator[*content.Tree] {
	return rapid.Custom(func(t *rapid.T) *content.Tree {
		next := 0
		var build func(depth int) *content.Node
		build = func(depth int) *content.Node {
			n := &content.Node{ID: fmt.Sprintf("n%d", next)}
			next++
			n.Values = ValuesGen().Draw(t, n.ID+".values")
			if depth < maxDepth {
				kids := rapid.IntRange(0, maxBreadth).Draw(t, n.ID+".children")
				for i := 0; i < kids; i++ {
					n.Children = append(n.Children, build(depth+1))
				}
			}
			return n
		}
		tree, err := content.NewTree("generated", content.Link(build(0)))
		if err != nil {
			t.Fatalf("generated tree invalid: %v", err)
		}
		return tree
	})
}

// ValuesGen draws a short value list with random, valid classification
// flags.
func ValuesGen() *rapid.Generator[[]content.ValueAnnotation] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) content.ValueAnnotation {
		v := content.ValueAnnotation{
			Name:             rapid.SampledFrom([]string{"a", "b", "body", "href", "title"}).Draw(t, "name"),
			Value:            rapid.StringMatching(`[a-z]{1,12}( [a-z]{1,12}){0,3}`).Draw(t, "value"),
			IsID:             rapid.Float64Range(0, 1).Draw(t, "id") < 0.1,
			IsURL:            rapid.Bool().Draw(t, "url"),
			IsActionLink:     rapid.Float64Range(0, 1).Draw(t, "action") < 0.1,
			IsTitle:          rapid.Bool().Draw(t, "title"),
			IsPrimaryContent: rapid.Bool().Draw(t, "primary"),
		}
		v.IsMainPrimaryContent = v.IsPrimaryContent && rapid.Bool().Draw(t, "main")
		return v
	}), 0, 3)
}
