package model

// Prompt is the text a room must type. It is selected when the countdown
// begins and never mutated afterwards.
type Prompt struct {
	Text string `json:"text"`
}

// Length returns the number of characters a racer must type
func (p Prompt) Length() int {
	return len(p.Text)
}

// IsZero reports whether no prompt has been selected yet
func (p Prompt) IsZero() bool {
	return p.Text == ""
}
