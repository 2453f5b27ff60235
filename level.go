package rollbar

import (
	"fmt"

	"github.com/cresjie/rollbar/internal/check"
)

// Level is the severity of a reported item. The set is closed; anything
// outside it is rejected before any serialization work happens.
type Level string

const (
	LevelDebug    Level = "debug"
	LevelInfo     Level = "info"
	LevelNotice   Level = "notice"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

var levelOrder = map[Level]int{
	LevelDebug:    0,
	LevelInfo:     1,
	LevelNotice:   2,
	LevelWarning:  3,
	LevelError:    4,
	LevelCritical: 5,
}

// ParseLevel returns the Level for s, or an invalid-argument error when s is
// not a member of the closed severity set.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelOrder[l]; !ok {
		return "", fmt.Errorf("%w: level must be one of debug, info, notice, warning, error, critical; %q given",
			check.ErrInvalidArgument, s)
	}
	return l, nil
}

func (l Level) String() string { return string(l) }

// AtLeast reports whether l is at least as severe as other. Useful in
// ignore predicates that filter by severity.
func (l Level) AtLeast(other Level) bool {
	return levelOrder[l] >= levelOrder[other]
}
