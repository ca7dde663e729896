package navigator

import (
	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
)

// CoherentDepth picks a starting depth from where main primary content
// concentrates: one level above the shallowest depth holding more than 10%
// of all main primary values. That level is usually the container of the
// items a reader wants to browse.
//
// ok is false when no depth passes the threshold, including documents with
// no main primary content at all.
func CoherentDepth(tree *content.Tree) (depth int, ok bool) {
	defer metrics.Timer(metrics.DepthEstimate)()
	if tree == nil {
		return 0, false
	}

	counts := make(map[int]int)
	total := 0
	tree.Walk(func(n *content.Node) bool {
		for _, v := range n.Values {
			if v.IsMainPrimaryContent {
				counts[n.Depth]++
				total++
			}
		}
		return true
	})

	shallowest := -1
	for d, c := range counts {
		if c*10 <= total {
			continue
		}
		if shallowest < 0 || d < shallowest {
			shallowest = d
		}
	}
	debug.Log("estimate: counts=%v total=%d shallowest=%d", counts, total, shallowest)

	if shallowest < 0 {
		return 0, false
	}
	return max(shallowest-1, 0), true
}

// StartDepth is CoherentDepth with the fallback applied: documents without a
// qualifying depth start at the root level.
func StartDepth(tree *content.Tree) int {
	d, ok := CoherentDepth(tree)
	if !ok {
		return 0
	}
	return d
}
