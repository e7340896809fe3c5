package hooks

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a bitmask of diagnostic categories.
type Level uint8

const (
	LevelNone        Level = 0
	LevelEvents      Level = 1
	LevelCalls       Level = 2
	LevelBinds       Level = 4
	LevelInteraction Level = 8
	LevelAll         Level = LevelEvents | LevelCalls | LevelBinds | LevelInteraction
)

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelEvents, "events"},
	{LevelCalls, "calls"},
	{LevelBinds, "binds"},
	{LevelInteraction, "interaction"},
}

// Allows reports whether an event of category c passes this level.
func (l Level) Allows(c Level) bool {
	return l&c != 0
}

// String renders the level as "|"-joined category names.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelAll:
		return "all"
	}
	var parts []string
	for _, n := range levelNames {
		if l&n.level != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := l &^ LevelAll; rest != 0 {
		parts = append(parts, strconv.Itoa(int(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseLevel parses a level from category names joined by "|" or ","
// (e.g. "events|calls", "ALL") or from a decimal mask between 0 and 15.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelNone, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(LevelAll) {
			return LevelNone, fmt.Errorf("level %d out of range 0..%d", n, LevelAll)
		}
		return Level(n), nil
	}

	var l Level
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "none":
		case "all":
			l |= LevelAll
		default:
			found := false
			for _, n := range levelNames {
				if n.name == part {
					l |= n.level
					found = true
					break
				}
			}
			if !found {
				return LevelNone, fmt.Errorf("unknown level %q", part)
			}
		}
	}
	return l, nil
}
