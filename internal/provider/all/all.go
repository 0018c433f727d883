// Package all registers every provider adapter. Import it for side effects
// from binaries that need the full registry.
package all

import (
	_ "github.com/johnny-papercut/fantasy/internal/provider/espn"
	_ "github.com/johnny-papercut/fantasy/internal/provider/sleeper"
)
