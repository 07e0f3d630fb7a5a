package schema

// String is a plain-text schema for free-form user input.
type String string

// NewString wraps raw text as a schema payload.
func NewString(s string) String {
	return String(s)
}

func (s String) String() string {
	return string(s)
}

func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}
