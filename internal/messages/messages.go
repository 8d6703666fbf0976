package messages

// SettledMsg reports the outcome of a generation request. Exactly one of
// Text or Err is meaningful.
type SettledMsg struct {
	ID   string
	Text string
	Err  error
}

// Renderer timers. Seq identifies the timer generation so ticks from a
// cancelled timer are ignored.
type RevealTickMsg struct {
	ID  string
	Seq int
}

type DotsTickMsg struct {
	ID  string
	Seq int
}

// AnimationCompleteMsg is sent once when an entry's reveal has shown the
// full response.
type AnimationCompleteMsg struct {
	ID string
}
