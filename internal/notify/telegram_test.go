package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

func TestNilNotifierIsSafe(t *testing.T) {
	var n *TelegramNotifier
	n.NotifyChanges([]models.Change{{Player: "Justin Jefferson", Old: 10, New: 16}})
	n.Stop()
}

func TestFormatChangeAlert(t *testing.T) {
	changes := []models.Change{
		{Player: "Justin Jefferson", NFLTeam: "MIN", Old: 10.0, New: 16.5, Updated: time.Now()},
		{Player: "Bijan Robinson", NFLTeam: "ATL", Old: 14.0, New: 8.0, Updated: time.Now()},
	}

	text := formatChangeAlert(changes)
	if !strings.Contains(text, "Projection changes (2)") {
		t.Errorf("expected header with count, got %q", text)
	}
	if !strings.Contains(text, "🔺") || !strings.Contains(text, "🔻") {
		t.Errorf("expected direction markers for both moves, got %q", text)
	}
	if !strings.Contains(text, "10.0 → 16.5 (+6.5)") {
		t.Errorf("expected signed delta rendering, got %q", text)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := escapeMarkdown("D_K Metcalf*"); got != "D\\_K Metcalf\\*" {
		t.Errorf("escapeMarkdown() = %q", got)
	}
}
