package domain

// Tag is a shared label applied to trips and activities (many-to-many).
// Tags are global — no trip or activity owns them. Submissions reference
// tags by name (TagNames on the create requests); the server resolves or
// creates them and returns the full Tag.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
