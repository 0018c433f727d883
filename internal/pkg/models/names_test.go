package models

import (
	"testing"
)

func TestTranslateTeamCode(t *testing.T) {
	tests := []struct {
		from     TeamVocabulary
		to       TeamVocabulary
		code     string
		expected string
	}{
		{VocabSleeper, VocabESPN, "WAS", "WSH"},
		{VocabESPN, VocabSleeper, "WSH", "WAS"},
		{VocabFP, VocabESPN, "JAC", "JAX"},
		{VocabNFL, VocabESPN, "LV", "OAK"},
		{VocabSleeper, VocabESPN, "KC", "KC"},
		{VocabFP, VocabESPN, "", ""},
	}

	for _, tt := range tests {
		result := TranslateTeamCode(tt.from, tt.to, tt.code)
		if result != tt.expected {
			t.Errorf("TranslateTeamCode(%s, %s, %q) = %q, want %q", tt.from, tt.to, tt.code, result, tt.expected)
		}
	}
}

func TestNormalizePlayerName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Odell Beckham Jr.", "Odell Beckham"},
		{"Jeff Wilson Jr.", "Jeff Wilson"},
		{"Will Fuller III", "Will Fuller"},
		{"Justin Jefferson", "Justin Jefferson"},
		{"49ers D/ST", "49ers D/ST"},
	}

	for _, tt := range tests {
		if got := NormalizePlayerName(tt.input); got != tt.expected {
			t.Errorf("NormalizePlayerName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCleanupDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"the  replacements", "The Replacements"},
		{"UGF pandas", "UGF Pandas"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanupDisplayName(tt.input); got != tt.expected {
			t.Errorf("CleanupDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPositionRankOrdersStartersBeforeBench(t *testing.T) {
	if PositionRank("QB") >= PositionRank("RB") {
		t.Error("QB should sort before RB")
	}
	if PositionRank("K") >= PositionRank("BE") {
		t.Error("starters should sort before bench")
	}
	if PositionRank("BE") >= PositionRank("IR") {
		t.Error("bench should sort before IR")
	}
	if PositionRank("??") != 5 {
		t.Errorf("unknown position should rank with flex, got %d", PositionRank("??"))
	}
}

func TestProjectionForFormat(t *testing.T) {
	p := Projection{Standard: 10, HalfPPR: 12.5, PPR: 15}

	if got := p.ForFormat(ScoringStandard); got != 10 {
		t.Errorf("standard = %v, want 10", got)
	}
	if got := p.ForFormat(ScoringHalfPPR); got != 12.5 {
		t.Errorf("half-ppr = %v, want 12.5", got)
	}
	if got := p.ForFormat(ScoringPPR); got != 15 {
		t.Errorf("ppr = %v, want 15", got)
	}
}

func TestPlayerStatusFlags(t *testing.T) {
	if !StatusOut.Sidelined() || !StatusIR.Sidelined() {
		t.Error("OUT and IR are sidelined")
	}
	if StatusQuestionable.Sidelined() {
		t.Error("QUESTIONABLE is not sidelined")
	}
	if !StatusQuestionable.Highlighted() {
		t.Error("QUESTIONABLE should be highlighted")
	}
	if StatusActive.Highlighted() || StatusUnknown.Highlighted() {
		t.Error("ACTIVE and UNKNOWN are not highlighted")
	}
}
