// Package ocr wraps an optical character recognition capability behind a
// narrow interface so the clock extractor stays independent of the engine.
package ocr

// Profile selects how the engine is tuned for a recognition call.
type Profile int

const (
	// ProfileBlock recognizes small dense multi-line text blocks without
	// constraining the alphabet.
	ProfileBlock Profile = iota
	// ProfileDigits recognizes a single short token restricted to digits
	// and colon, tuned for isolated strings.
	ProfileDigits
)

// Engine performs best-effort text recognition on a PNG-encoded image.
// An empty result means no text was found; that is a normal outcome, not an
// error. Implementations need not be safe for concurrent use.
type Engine interface {
	Recognize(image []byte, profile Profile) (string, error)
	Close() error
}
