package domain

// SessionState is everything one browser session keeps between passes.
type SessionState struct {
	Selection    Selection
	RatesHistory History // questions asked about the visible rates
	ChatHistory  History // staff assistant transcript
}
