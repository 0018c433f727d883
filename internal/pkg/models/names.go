package models

import (
	"strings"
)

// TeamVocabulary names one source's NFL team-code dialect.
type TeamVocabulary string

const (
	VocabESPN    TeamVocabulary = "espn"
	VocabSleeper TeamVocabulary = "sleeper"
	VocabFP      TeamVocabulary = "fp"
	VocabNFL     TeamVocabulary = "nfl"
)

// Team codes the sources disagree on. Codes absent here are identical in
// every vocabulary and pass through unchanged.
var teamCodeTable = []map[TeamVocabulary]string{
	{VocabESPN: "WSH", VocabSleeper: "WAS", VocabFP: "WAS", VocabNFL: "WSH"},
	{VocabESPN: "JAX", VocabSleeper: "JAX", VocabFP: "JAC", VocabNFL: "JAX"},
	{VocabESPN: "OAK", VocabSleeper: "LV", VocabFP: "LV", VocabNFL: "LV"},
}

// TranslateTeamCode converts an NFL team code between source vocabularies.
// Unknown codes come back as-is.
func TranslateTeamCode(from, to TeamVocabulary, code string) string {
	if code == "" {
		return ""
	}
	for _, row := range teamCodeTable {
		if row[from] == code {
			return row[to]
		}
	}
	return code
}

var nameSuffixes = []string{" Jr.", " Sr.", " III", " II"}

// NormalizePlayerName strips generational suffixes so the same player keys
// identically across providers and the projections feed.
func NormalizePlayerName(name string) string {
	for _, suffix := range nameSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.TrimSpace(name)
}

// CleanupDisplayName title-cases a free-form team or owner name and
// collapses doubled spaces.
func CleanupDisplayName(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var positionOrder = map[string]int{
	"QB": 1, "RB": 2, "WR": 3, "TE": 4, "FLEX": 5, "DST": 6, "K": 7,
	"BE": 10, "IR": 11,
}

// PositionRank orders roster rows for display: starters by lineup position,
// bench and IR last. Unknown positions sort with the flex group.
func PositionRank(position string) int {
	if rank, ok := positionOrder[position]; ok {
		return rank
	}
	return 5
}
