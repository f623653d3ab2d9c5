// Package dataurl turns raw image bytes into the self-describing
// data:<mime>;base64,<payload> form the completion service expects.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Encode reads r to completion and produces a data URI with the given MIME
// type. A read failure propagates to the caller; there is no retry.
func Encode(mime string, r io.Reader) (string, error) {
	if strings.TrimSpace(mime) == "" {
		return "", fmt.Errorf("mime type is required")
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("image is empty")
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// DetectAndEncode sniffs the MIME type from the payload's leading bytes
// before encoding. Used where no declared content type is available.
func DetectAndEncode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("image is empty")
	}

	mime := http.DetectContentType(raw)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
