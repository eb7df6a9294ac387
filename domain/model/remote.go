package model

// Remote is a named upload destination.
type Remote struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Default bool   `json:"default"`
}
