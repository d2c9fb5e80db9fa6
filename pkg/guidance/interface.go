package guidance

// Speaker. speech output, implemented outside the core
type Speaker interface {
	Speak(text string)
}
