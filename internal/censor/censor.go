// Package censor masks configured words in chat text.
package censor

import (
	"fmt"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultMask replaces every rune of a matched word.
const DefaultMask = '*'

// Filter finds forbidden words with an Aho-Corasick automaton. Matching is
// case-insensitive, ignores punctuation and spacing, and folds common leet
// substitutions. A Filter is safe for concurrent use once built.
type Filter struct {
	machine *goahocorasick.Machine
	mask    rune
}

// New builds a filter for words. Words that normalize to nothing are
// skipped; an empty list yields a pass-through filter.
func New(words []string, mask rune) (*Filter, error) {
	if mask == 0 {
		mask = DefaultMask
	}
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if p := fold([]rune(w)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	f := &Filter{mask: mask}
	if len(patterns) == 0 {
		return f, nil
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build censor automaton: %w", err)
	}
	f.machine = m
	return f, nil
}

// Censor returns text with every matched span masked. Characters between
// matched letters (spaces, dots) are masked too; layout is preserved.
func (f *Filter) Censor(text string) string {
	if f == nil || f.machine == nil {
		return text
	}
	orig := []rune(text)
	norm, pos := project(orig)
	if len(norm) == 0 {
		return text
	}
	hits := f.machine.MultiPatternSearch(norm, false)
	if len(hits) == 0 {
		return text
	}
	for _, hit := range hits {
		end := hit.Pos + len(hit.Word)
		if hit.Pos < 0 || end > len(pos) {
			continue
		}
		for i := pos[hit.Pos]; i <= pos[end-1]; i++ {
			orig[i] = f.mask
		}
	}
	return string(orig)
}

// project folds text and remembers which original rune each folded rune
// came from.
func project(runes []rune) (norm []rune, pos []int) {
	norm = make([]rune, 0, len(runes))
	pos = make([]int, 0, len(runes))
	for i, r := range runes {
		c := unleet(r)
		if noise(c) {
			continue
		}
		norm = append(norm, unicode.ToLower(c))
		pos = append(pos, i)
	}
	return norm, pos
}

func fold(runes []rune) []rune {
	norm, _ := project(runes)
	return norm
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func noise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
