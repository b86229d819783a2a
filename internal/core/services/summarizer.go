package services

import (
	"regexp"
	"sort"
	"strings"
)

// Extractive summarisation parameters.
const (
	// minSentenceChars discards sentence fragments at or below this length.
	minSentenceChars = 20

	// earlyPositionFraction is the leading share of sentences that get the
	// position boost.
	earlyPositionFraction = 0.3

	// earlyPositionBoost multiplies the score of early sentences.
	earlyPositionBoost = 1.2
)

var wordPattern = regexp.MustCompile(`\w+`)

// Summarize produces an extractive summary: sentences are scored by global
// word frequency (normalised by sentence length, with an early-position
// boost), the top n are selected and re-ordered by original position. No
// generative dependency.
func Summarize(text string, n int) string {
	if n <= 0 {
		n = 3
	}

	sentences := splitSentences(text)
	if len(sentences) <= n {
		return strings.TrimSpace(text)
	}

	freq := wordFrequencies(text)

	type scored struct {
		sentence string
		score    float64
		index    int
	}

	earlyCutoff := float64(len(sentences)) * earlyPositionFraction
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		words := wordPattern.FindAllString(strings.ToLower(sentence), -1)
		if len(words) == 0 {
			continue
		}

		var sum float64
		for _, word := range words {
			sum += float64(freq[word])
		}
		score := sum / float64(len(words))
		if float64(i) < earlyCutoff {
			score *= earlyPositionBoost
		}

		ranked = append(ranked, scored{sentence: sentence, score: score, index: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	// Restore original order for readability.
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].index < ranked[j].index
	})

	parts := make([]string, len(ranked))
	for i, s := range ranked {
		parts[i] = s.sentence
	}
	return strings.Join(parts, ". ") + "."
}

// splitSentences splits text on sentence terminators, discarding fragments
// of 20 characters or fewer.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) > minSentenceChars {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}

// wordFrequencies counts lowercase word occurrences across the text.
func wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		freq[word]++
	}
	return freq
}
