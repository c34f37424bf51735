package model

// Item is the domain model for a todo entry.
// IDs are opaque to everything outside the todo store.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}
