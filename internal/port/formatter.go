package port

// Formatter turns doc comment prose into presentation markup.
type Formatter func(text string) string
