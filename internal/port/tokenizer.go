package port

// Tokenizer turns an Input into an ordered sequence of tokens.
type Tokenizer interface {
	Tokenize(in Input) []string
}

// Tokenizable is implemented by documents that know how to produce their own
// tokens. The active tokenizer is passed along so an implementation can reuse
// its text policy; it may also ignore it.
type Tokenizable interface {
	Tokens(tok Tokenizer) []string
}

// Input is either raw text or a Tokenizable object.
type Input struct {
	text   string
	object Tokenizable
}

// Text wraps raw text.
func Text(s string) Input {
	return Input{text: s}
}

// Object wraps a self-tokenizing value.
func Object(t Tokenizable) Input {
	return Input{object: t}
}

// Tokenizable returns the wrapped object, if any.
func (in Input) Tokenizable() (Tokenizable, bool) {
	return in.object, in.object != nil
}

// String returns the raw text. It is empty for object inputs.
func (in Input) String() string {
	return in.text
}
