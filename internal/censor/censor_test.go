package censor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterCensor(t *testing.T) {
	req := require.New(t)
	f, err := New([]string{"spam", "phishing"}, '#')
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain word", "no spam here", "no #### here"},
		{"repeated", "spam spam", "#### ####"},
		{"case and dots", "S.P.A.M alert", "####### alert"},
		{"leet", "5p4m", "####"},
		{"inside punctuation", "stop phishing!", "stop ########!"},
		{"untouched", "general chat", "general chat"},
		{"unicode around", "été spam été", "été #### été"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, f.Censor(tt.input))
		})
	}
}

func TestFilterPassThrough(t *testing.T) {
	f, err := New(nil, 0)
	require.NoError(t, err)
	require.Equal(t, "anything goes", f.Censor("anything goes"))

	f, err = New([]string{"...", "  "}, 0)
	require.NoError(t, err)
	require.Equal(t, "still fine", f.Censor("still fine"))

	var nilFilter *Filter
	require.Equal(t, "nil ok", nilFilter.Censor("nil ok"))
}
