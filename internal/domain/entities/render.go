package entities

// Control is one interactive button attached to a rendered message. Data
// carries the encoded callback command delivered back when it is pressed.
type Control struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// RenderIntent is what the survey flow asks the presentation layer to show.
// The flow never talks to the chat transport itself; the caller renders the
// intent however its platform requires.
type RenderIntent struct {
	Text     string      `json:"text"`
	Controls [][]Control `json:"controls,omitempty"`

	// Transient marks a short-lived notice (for example an invalid input
	// warning) that should not replace the current screen.
	Transient bool `json:"transient,omitempty"`

	// Replace asks the presenter to update the current message in place
	// when the platform allows it, falling back to sending a new one.
	Replace bool `json:"replace,omitempty"`
}

// Notice builds a transient render intent with no controls.
func Notice(text string) *RenderIntent {
	return &RenderIntent{Text: text, Transient: true}
}
