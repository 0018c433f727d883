package scoreboard

import (
	"sort"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// lineupSlots is the standard lineup shape both platforms use by default.
var lineupSlots = map[string]int{
	"QB": 1, "RB": 2, "WR": 2, "TE": 1, "DST": 1, "K": 1,
}

func flexCount(kind models.ProviderKind) int {
	// Sleeper leagues in this house run two flex spots.
	if kind == models.ProviderSleeper {
		return 2
	}
	return 1
}

// maxLineup picks the highest-projected legal lineup from the full roster,
// ignoring where players are actually slotted. Flex takes the best remaining
// RB, WR or TE after the fixed slots are filled.
func maxLineup(roster []PlayerLine, kind models.ProviderKind) []PlayerLine {
	sorted := make([]PlayerLine, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Projected > sorted[j].Projected
	})

	remaining := make(map[string]int, len(lineupSlots))
	for pos, n := range lineupSlots {
		remaining[pos] = n
	}
	flex := flexCount(kind)

	var lineup []PlayerLine
	var flexPool []PlayerLine
	for _, line := range sorted {
		if remaining[line.Position] > 0 {
			remaining[line.Position]--
			line.Slot = line.Position
			lineup = append(lineup, line)
			continue
		}
		switch line.Position {
		case "RB", "WR", "TE":
			flexPool = append(flexPool, line)
		}
	}

	for i := 0; i < flex && i < len(flexPool); i++ {
		line := flexPool[i]
		line.Slot = "FLEX"
		lineup = append(lineup, line)
	}
	return lineup
}
