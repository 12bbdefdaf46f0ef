// Package metricscalculator computes ASR accuracy metrics from normalized
// reference/hypothesis pairs.
//
// Alignment convention: Levenshtein minimum edit distance with unit costs
// (InsCost = DelCost = SubCost = 1). Because one substitution costs less
// than an insertion plus a deletion, the alignment prefers substitution
// whenever both are possible, following the standard Levenshtein convention.
package metricscalculator

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// unitCosts is shared by WER and CER so both metrics use the same
// alignment convention.
var unitCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: func(source, target rune) bool { return source == target },
}

// Metrics bundles the per-record accuracy numbers persisted with each
// evaluation result.
type Metrics struct {
	WER             float64 `json:"wer"`
	CER             float64 `json:"cer"`
	ReferenceWords  int     `json:"reference_words"`
	HypothesisWords int     `json:"hypothesis_words"`
}

// Calculate computes WER and CER for an already-normalized pair.
// The empty-reference convention (documented on CalculateWER) applies.
func Calculate(reference, hypothesis string) (Metrics, error) {
	m := Metrics{
		ReferenceWords:  len(strings.Fields(reference)),
		HypothesisWords: len(strings.Fields(hypothesis)),
	}

	wer, err := CalculateWER(reference, hypothesis)
	if err != nil {
		return m, fmt.Errorf("WER calculation failed: %w", err)
	}
	m.WER = wer

	cer, err := CalculateCER(reference, hypothesis)
	if err != nil {
		return m, fmt.Errorf("CER calculation failed: %w", err)
	}
	m.CER = cer

	return m, nil
}

// CalculateWER calculates the Word Error Rate:
// WER = (Substitutions + Insertions + Deletions) / Number of words in reference.
//
// Empty-reference convention: if both sides are empty the rate is 0; if
// only the reference is empty the rate cannot be normalized, so 1.0 is
// returned together with an error describing the degenerate case.
func CalculateWER(reference string, hypothesis string) (float64, error) {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0.0, nil
		}
		return 1.0, fmt.Errorf("reference is empty, cannot normalize WER (hypothesis has %d words, treated as 100%% error)", len(hypWords))
	}

	// The levenshtein library aligns rune sequences, so word sequences are
	// interned first: every distinct token is mapped to a distinct rune.
	refSymbols, hypSymbols := internTokens(refWords, hypWords)
	distance := levenshtein.DistanceForStrings(refSymbols, hypSymbols, unitCosts)

	return float64(distance) / float64(len(refWords)), nil
}

// CalculateCER calculates the Character Error Rate over Unicode code
// points, with the same empty-reference convention as CalculateWER.
func CalculateCER(reference string, hypothesis string) (float64, error) {
	refRunes := []rune(reference)
	hypRunes := []rune(hypothesis)

	if len(refRunes) == 0 {
		if len(hypRunes) == 0 {
			return 0.0, nil
		}
		return 1.0, fmt.Errorf("reference is empty, cannot normalize CER (hypothesis has %d characters, treated as 100%% error)", len(hypRunes))
	}

	distance := levenshtein.DistanceForStrings(refRunes, hypRunes, unitCosts)
	return float64(distance) / float64(len(refRunes)), nil
}

// WordsPerMinute derives the speaking rate from the reference word count
// and the recording duration. Returns 0 for non-positive durations.
func WordsPerMinute(wordCount int, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return float64(wordCount) / durationSeconds * 60
}

// internTokens maps every distinct token across both sequences to a
// distinct rune, skipping the surrogate range, so that token-level edit
// distance can be computed with the rune-based library API.
func internTokens(ref, hyp []string) ([]rune, []rune) {
	symbols := make(map[string]rune, len(ref)+len(hyp))
	next := rune(1)

	assign := func(tokens []string) []rune {
		out := make([]rune, len(tokens))
		for i, tok := range tokens {
			r, ok := symbols[tok]
			if !ok {
				if next == 0xD800 {
					next = 0xE000 // surrogates are not valid runes
				}
				r = next
				next++
				symbols[tok] = r
			}
			out[i] = r
		}
		return out
	}

	return assign(ref), assign(hyp)
}
