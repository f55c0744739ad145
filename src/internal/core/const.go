// FILE: pidcat/src/internal/core/const.go
package core

// Layout defaults
const (
	DefaultTagWidth = 23
	BadgeWidth      = 3
	DefaultMinLevel = LevelVerbose
)

// HeaderWidth is the column at which message text begins for a given tag width:
// tag, space, badge, space.
func HeaderWidth(tagWidth int) int {
	return tagWidth + 1 + BadgeWidth + 1
}

// ActivityManagerTag is the only tag whose messages are inspected for
// process lifecycle events.
const ActivityManagerTag = "ActivityManager"

// BacktraceTag marks native crash dump lines.
const BacktraceTag = "DEBUG"
