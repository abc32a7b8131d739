package sequence

import "github.com/pkg/errors"

// Side of a sequence where padding is added or truncation removes tokens.
type Side string

const (
	// Pre is the start of the sequence.
	Pre Side = "pre"

	// Post is the end of the sequence.
	Post Side = "post"
)

// ParseSide converts "pre" or "post" to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Pre, Post:
		return Side(s), nil
	}
	return "", errors.Errorf("invalid side %q, valid values are %q and %q", s, Pre, Post)
}

// DefaultMaxLength is the fixed sentence length used when none is configured.
const DefaultMaxLength = 60

// Options controls how sentences are brought to a fixed length.
type Options struct {
	// MaxLength is the length L of every packed sequence.
	MaxLength int

	// Padding is the side where the pad sentinel is added to short sentences.
	Padding Side

	// Truncating is the side where tokens are dropped from long sentences.
	Truncating Side
}

// DefaultOptions pads on the left and truncates from the front, to maxLength.
func DefaultOptions(maxLength int) Options {
	return Options{MaxLength: maxLength, Padding: Pre, Truncating: Pre}
}

// Validate returns an error if the options can't be used to pad.
func (o Options) Validate() error {
	if o.MaxLength <= 0 {
		return errors.Errorf("max length must be positive, got %d", o.MaxLength)
	}
	if _, err := ParseSide(string(o.Padding)); err != nil {
		return errors.WithMessage(err, "padding")
	}
	if _, err := ParseSide(string(o.Truncating)); err != nil {
		return errors.WithMessage(err, "truncating")
	}
	return nil
}

// window returns, for a sequence of length n, the range [from, from+kept) of source positions
// that survive truncation and the position where they start in the padded output.
func (o Options) window(n int) (from, kept, offset int) {
	kept = n
	if n > o.MaxLength {
		kept = o.MaxLength
		if o.Truncating == Pre {
			from = n - o.MaxLength
		}
	}
	if o.Padding == Pre {
		offset = o.MaxLength - kept
	}
	return
}
