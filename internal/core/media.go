package core

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMediaMaxBytes is the decoded size ceiling for media messages.
const DefaultMediaMaxBytes = 5 << 20

var allowedMedia = map[string]MessageKind{
	"image/png":  MessageImage,
	"image/jpeg": MessageImage,
	"image/gif":  MessageImage,
	"video/mp4":  MessageVideo,
	"video/webm": MessageVideo,
}

// MediaPayload is an opaque encoded blob with its declared MIME type. Data
// is either a data URL or plain standard base64.
type MediaPayload struct {
	MIME string
	Data string
}

// MediaPolicy validates media payloads before they are relayed.
type MediaPolicy struct {
	MaxBytes int
}

// Validate checks the declared type against the allow-list, enforces the
// size ceiling and sniffs the decoded content. It returns the message kind
// and the canonical MIME type.
func (p MediaPolicy) Validate(m MediaPayload) (MessageKind, string, error) {
	maxBytes := p.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMediaMaxBytes
	}

	declared := strings.ToLower(strings.TrimSpace(m.MIME))
	encoded := m.Data
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return "", "", fmt.Errorf("%w: malformed data url", ErrInvalidMedia)
		}
		headerMIME, isBase64 := strings.CutSuffix(strings.ToLower(header), ";base64")
		if !isBase64 {
			return "", "", fmt.Errorf("%w: data url must be base64", ErrInvalidMedia)
		}
		switch {
		case declared == "":
			declared = headerMIME
		case declared != headerMIME:
			return "", "", fmt.Errorf("%w: declared %s but data url says %s", ErrInvalidMedia, declared, headerMIME)
		}
		encoded = body
	}

	kind, ok := allowedMedia[declared]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, declared)
	}
	if len(encoded) > base64.StdEncoding.EncodedLen(maxBytes) {
		return "", "", fmt.Errorf("%w: limit is %d bytes", ErrMediaTooLarge, maxBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}
	if len(raw) == 0 {
		return "", "", fmt.Errorf("%w: empty payload", ErrInvalidMedia)
	}
	if len(raw) > maxBytes {
		return "", "", fmt.Errorf("%w: limit is %d bytes", ErrMediaTooLarge, maxBytes)
	}

	detected := mimetype.Detect(raw)
	if !detected.Is(declared) && family(detected.String()) != family(declared) {
		return "", "", fmt.Errorf("%w: content looks like %s, declared %s", ErrInvalidMedia, detected.String(), declared)
	}
	return kind, declared, nil
}

func family(mime string) string {
	f, _, _ := strings.Cut(mime, "/")
	return f
}
