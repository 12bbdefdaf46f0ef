package aggregation

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"whisper-wpm-eval/internal/resultstore"
	"whisper-wpm-eval/internal/textnorm"
)

// Recordings made over background conversations can leak background
// speech into the transcript. The contamination analysis inspects those
// recordings: words the recognizer added that are not in the reference are
// either near misses of reference vocabulary (ordinary mis-recognition)
// or genuine contamination candidates from the background audio.

// nearMissThreshold is the Jaro-Winkler similarity above which an added
// word is considered a mangled reference word rather than contamination.
const nearMissThreshold = 0.85

// ContaminationFinding is the analysis of one conversation-background
// recording.
type ContaminationFinding struct {
	ID              string   `json:"id"`
	BackgroundNoise string   `json:"background_noise"`
	Notes           string   `json:"notes,omitempty"`
	WER             float64  `json:"wer"`
	MissingWords    []string `json:"missing_words"`
	NearMisses      []string `json:"near_misses"`
	Contaminants    []string `json:"contaminants"`
}

// AnalyzeContamination examines every result recorded with a conversation
// background and splits its added words into near misses and contaminant
// candidates. Results with other background types are ignored.
func AnalyzeContamination(results []resultstore.EvaluationResult) []ContaminationFinding {
	var findings []ContaminationFinding
	for _, r := range results {
		if !strings.Contains(r.Annotations.BackgroundNoise, "convo") {
			continue
		}

		refWords := wordSet(textnorm.Normalize(r.Reference))
		hypWords := wordSet(textnorm.Normalize(r.Transcription))

		finding := ContaminationFinding{
			ID:              r.ID,
			BackgroundNoise: r.Annotations.BackgroundNoise,
			WER:             r.Metrics.WER,
			MissingWords:    sortedDifference(refWords, hypWords),
		}
		if r.Annotations.Notes != nil {
			finding.Notes = *r.Annotations.Notes
		}

		refVocab := keys(refWords)
		for _, extra := range sortedDifference(hypWords, refWords) {
			if isNearMiss(extra, refVocab) {
				finding.NearMisses = append(finding.NearMisses, extra)
			} else {
				finding.Contaminants = append(finding.Contaminants, extra)
			}
		}

		findings = append(findings, finding)
	}
	return findings
}

// isNearMiss reports whether an added word is plausibly a mis-recognition
// of some reference word: either it sounds the same (Double Metaphone
// code overlap) or it is close in spelling (Jaro-Winkler similarity).
func isNearMiss(word string, refVocab []string) bool {
	primary, secondary := matchr.DoubleMetaphone(word)
	for _, ref := range refVocab {
		refPrimary, refSecondary := matchr.DoubleMetaphone(ref)
		if primary != "" && (primary == refPrimary || primary == refSecondary) {
			return true
		}
		if secondary != "" && (secondary == refPrimary || secondary == refSecondary) {
			return true
		}
		if matchr.JaroWinkler(word, ref, false) >= nearMissThreshold {
			return true
		}
	}
	return false
}

func wordSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		set[w] = struct{}{}
	}
	return set
}

func sortedDifference(a, b map[string]struct{}) []string {
	var out []string
	for w := range a {
		if _, ok := b[w]; !ok {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
