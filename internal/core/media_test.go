package core

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaPolicyValidate(t *testing.T) {
	policy := MediaPolicy{MaxBytes: 64}
	png := base64.StdEncoding.EncodeToString(pngHeader)

	kind, mime, err := policy.Validate(MediaPayload{MIME: "image/png", Data: png})
	require.NoError(t, err)
	assert.Equal(t, MessageImage, kind)
	assert.Equal(t, "image/png", mime)

	kind, mime, err = policy.Validate(MediaPayload{Data: "data:image/png;base64," + png})
	require.NoError(t, err)
	assert.Equal(t, MessageImage, kind)
	assert.Equal(t, "image/png", mime)

	tests := []struct {
		name    string
		payload MediaPayload
		want    error
	}{
		{"zip", MediaPayload{MIME: "application/zip", Data: png}, ErrUnsupportedMedia},
		{"header mismatch", MediaPayload{MIME: "image/gif", Data: "data:image/png;base64," + png}, ErrInvalidMedia},
		{"not base64 url", MediaPayload{Data: "data:image/png," + png}, ErrInvalidMedia},
		{"garbage", MediaPayload{MIME: "image/png", Data: "@@@"}, ErrInvalidMedia},
		{"empty", MediaPayload{MIME: "image/png", Data: ""}, ErrInvalidMedia},
		{"too large", MediaPayload{MIME: "image/png", Data: base64.StdEncoding.EncodeToString(make([]byte, 65))}, ErrMediaTooLarge},
		{"content mismatch", MediaPayload{MIME: "image/png", Data: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("plain text ", 3)))}, ErrInvalidMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := policy.Validate(tt.payload)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMediaPolicyDefaultCeiling(t *testing.T) {
	var policy MediaPolicy
	big := append(append([]byte{}, pngHeader...), make([]byte, DefaultMediaMaxBytes)...)

	_, _, err := policy.Validate(MediaPayload{MIME: "image/png", Data: base64.StdEncoding.EncodeToString(big)})
	assert.ErrorIs(t, err, ErrMediaTooLarge)
}
