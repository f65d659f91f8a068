package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine on top of the Tesseract OCR library.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates an engine for the given language ("eng" by default).
// tessdataPrefix overrides the trained-data directory when non-empty.
func NewTesseract(language, tessdataPrefix string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set ocr language %q: %w", language, err)
		}
	}
	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("set tessdata prefix %q: %w", tessdataPrefix, err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs one recognition pass. The page segmentation mode and the
// character whitelist are switched per call according to the profile.
func (t *Tesseract) Recognize(image []byte, profile Profile) (string, error) {
	var (
		psm       gosseract.PageSegMode
		whitelist string
	)
	switch profile {
	case ProfileDigits:
		psm = gosseract.PSM_SINGLE_LINE
		whitelist = "0123456789:"
	default:
		psm = gosseract.PSM_SINGLE_BLOCK
	}

	if err := t.client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := t.client.SetWhitelist(whitelist); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := t.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the underlying Tesseract client.
func (t *Tesseract) Close() error {
	return t.client.Close()
}
