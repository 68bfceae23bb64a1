package domain

import "time"

// BuildResult records the outcome of building one recipe. It is what the
// store index persists and what cache lookups compare against.
type BuildResult struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	InputHash  string    `json:"input_hash"`
	OutputHash string    `json:"output_hash,omitzero"`
	StorePath  string    `json:"store_path"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
