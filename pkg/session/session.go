// Package session defines the record a finished navigation session hands
// back to the host process.
package session

import "time"

// Result is the outcome of one interactive session.
type Result struct {
	Source    string    `json:"source,omitempty"`
	Title     string    `json:"title,omitempty"`
	Depth     int       `json:"depth"`
	Ancestors []string  `json:"ancestors,omitempty"`
	NodeID    string    `json:"node_id,omitempty"`
	Value     string    `json:"value,omitempty"`
	URL       string    `json:"url,omitempty"`
	Chosen    bool      `json:"chosen"` // ended by choosing a value rather than quitting
	EndedAt   time.Time `json:"ended_at"`
}

// HasSelection reports whether the session ended with a node selected.
func (r Result) HasSelection() bool {
	return r.NodeID != ""
}
