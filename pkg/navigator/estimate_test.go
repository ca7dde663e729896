package navigator

import (
	"testing"

	"github.com/davidRoussov/json-to-terminal/pkg/testutil"
)

func TestCoherentDepth(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
		want   int
		wantOK bool
	}{
		{"ninety_ten", map[int]int{3: 90, 5: 10}, 2, true},
		{"ten_percent_is_not_enough", map[int]int{1: 10, 4: 90}, 3, true},
		{"shallowest_candidate_wins", map[int]int{2: 50, 4: 50}, 1, true},
		{"clamped_at_zero", map[int]int{0: 5, 1: 5}, 0, true},
		{"no_main_content", map[int]int{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := testutil.MustTree(t, tt.name, testutil.NewDefault().Layered(tt.counts))
			got, ok := CoherentDepth(tree)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CoherentDepth = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStartDepth_FallsBackToRoot(t *testing.T) {
	tree := testutil.MustTree(t, "plain", testutil.NewDefault().Chain(4))
	if got := StartDepth(tree); got != 0 {
		t.Errorf("StartDepth = %d, want 0", got)
	}
}

func TestCoherentDepth_NilTree(t *testing.T) {
	if d, ok := CoherentDepth(nil); ok || d != 0 {
		t.Errorf("CoherentDepth(nil) = %d, %v", d, ok)
	}
}
