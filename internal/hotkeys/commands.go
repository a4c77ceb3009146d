package hotkeys

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Command is a window-management action bound to a key.
type Command int

const (
	CmdNone Command = iota
	CmdTogglePassthrough
	CmdQuit
	CmdFocusPrev
	CmdFocusNext
	CmdFocusLast
	CmdSwapPrev
	CmdSwapNext
	CmdMoveToFront
	CmdToggleFullscreen
	CmdSpawnTerminal
	CmdSpawnLauncher
	CmdCloseAndAdvance
)

var commandNames = []string{
	CmdNone:              "none",
	CmdTogglePassthrough: "toggle-passthrough",
	CmdQuit:              "quit",
	CmdFocusPrev:         "focus-prev",
	CmdFocusNext:         "focus-next",
	CmdFocusLast:         "focus-last",
	CmdSwapPrev:          "swap-prev",
	CmdSwapNext:          "swap-next",
	CmdMoveToFront:       "move-to-front",
	CmdToggleFullscreen:  "toggle-fullscreen",
	CmdSpawnTerminal:     "spawn-terminal",
	CmdSpawnLauncher:     "spawn-launcher",
	CmdCloseAndAdvance:   "close-and-advance",
}

// String returns the command's config name.
func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Commands returns every bindable command in declaration order.
func Commands() []Command {
	out := make([]Command, 0, len(commandNames)-1)
	for c := CmdTogglePassthrough; int(c) < len(commandNames); c++ {
		out = append(out, c)
	}
	return out
}

// maxSuggestDistance bounds how far a typo may be from a command name
// before no suggestion is offered.
const maxSuggestDistance = 3

// ParseCommand resolves a command name. Underscores are accepted in place of
// dashes. Unknown names produce an error that suggests the closest command.
func ParseCommand(name string) (Command, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, c := range Commands() {
		if c.String() == norm {
			return c, nil
		}
	}
	if s := Suggest(norm); s != "" {
		return CmdNone, fmt.Errorf("unknown command %q (did you mean %q?)", name, s)
	}
	return CmdNone, fmt.Errorf("unknown command %q", name)
}

// Suggest returns the command name closest to name, or "" if none is close.
func Suggest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range Commands() {
		if d := levenshtein.ComputeDistance(name, c.String()); d < bestDist {
			best, bestDist = c.String(), d
		}
	}
	return best
}
