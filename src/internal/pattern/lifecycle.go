// FILE: pidcat/src/internal/pattern/lifecycle.go
package pattern

import (
	"regexp"

	"pidcat/src/internal/core"
)

// dialect pairs a recognizer with the extractor that turns its submatches
// into an event. Dialects are tried in slice order; first match wins.
type dialect struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) core.Event
}

var startDialects = []dialect{
	{
		// Android 5.1+: "Start proc 1234:com.foo/u0a12 for activity ..."
		name: "start_5_1",
		re:   regexp.MustCompile(`^.*: Start proc (\d+):([a-zA-Z0-9._:]+)/[a-z0-9]+ for (.*)$`),
		extract: func(m []string) core.Event {
			return core.StartEvent{Package: m[2], Target: m[3], PID: m[1]}
		},
	},
	{
		name: "start",
		re:   regexp.MustCompile(`^.*: Start proc ([a-zA-Z0-9._:]+) for ([a-z]+ [^:]+): pid=(\d+) uid=(\d+) gids=(.*)$`),
		extract: func(m []string) core.Event {
			return core.StartEvent{Package: m[1], Target: m[2], PID: m[3], UID: m[4], GIDs: m[5]}
		},
	},
	{
		name: "start_dalvik",
		re:   regexp.MustCompile(`^E/dalvikvm\(\s*(\d+)\): >>>>> ([a-zA-Z0-9._:]+) \[ userId:0 \| appId:(\d+) \]$`),
		extract: func(m []string) core.Event {
			return core.StartEvent{Package: m[2], PID: m[1], UID: m[3]}
		},
	},
}

var deathDialects = []dialect{
	{
		name: "kill",
		re:   regexp.MustCompile(`^Killing (\d+):([a-zA-Z0-9._:]+)/[^:]+: (.*)$`),
		extract: func(m []string) core.Event {
			return core.DeathEvent{PID: m[1], Process: m[2]}
		},
	},
	{
		name: "leave",
		re:   regexp.MustCompile(`^No longer want ([a-zA-Z0-9._:]+) \(pid (\d+)\): .*$`),
		extract: func(m []string) core.Event {
			return core.DeathEvent{PID: m[2], Process: m[1]}
		},
	},
	{
		name: "death",
		re:   regexp.MustCompile(`^Process ([a-zA-Z0-9._:]+) \(pid (\d+)\) has died.?$`),
		extract: func(m []string) core.Event {
			return core.DeathEvent{PID: m[2], Process: m[1]}
		},
	},
}

func firstMatch(dialects []dialect, text string) core.Event {
	for _, d := range dialects {
		if m := d.re.FindStringSubmatch(text); m != nil {
			return d.extract(m)
		}
	}
	return nil
}

func allMatches(dialects []dialect, text string) []core.Event {
	var events []core.Event
	for _, d := range dialects {
		if m := d.re.FindStringSubmatch(text); m != nil {
			events = append(events, d.extract(m))
		}
	}
	return events
}

// MatchStart runs the process-start dialects against a full raw line.
// It returns nil or a core.StartEvent.
func MatchStart(line string) core.Event {
	return firstMatch(startDialects, line)
}

// DeathCandidates returns every death dialect that matches the message, in
// priority order. Callers pick the first one that refers to a tracked process.
func DeathCandidates(message string) []core.DeathEvent {
	events := allMatches(deathDialects, message)
	out := make([]core.DeathEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.(core.DeathEvent))
	}
	return out
}
