// FILE: pidcat/src/internal/core/event.go
package core

// Event is the result of a lifecycle recognizer. A nil Event means no match.
type Event interface {
	isEvent()
}

// StartEvent reports a process being spawned for a package.
// UID and GIDs are empty when the dialect does not carry them.
type StartEvent struct {
	Package string
	Target  string
	PID     string
	UID     string
	GIDs    string
}

// DeathEvent reports a process that was killed, released or died.
// Fields are normalized regardless of the order the dialect prints them in.
type DeathEvent struct {
	PID     string
	Process string
}

func (StartEvent) isEvent() {}
func (DeathEvent) isEvent() {}

// BannerKind distinguishes the two synthesized lifecycle announcements.
type BannerKind int

const (
	BannerStarted BannerKind = iota
	BannerEnded
)

func (k BannerKind) String() string {
	switch k {
	case BannerStarted:
		return "started"
	case BannerEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Banner is a synthesized lifecycle announcement. It never passes through
// the filter chain.
type Banner struct {
	Kind    BannerKind `json:"-"`
	Package string     `json:"package"`
	Target  string     `json:"target,omitempty"`
	PID     string     `json:"pid"`
	UID     string     `json:"uid,omitempty"`
	GIDs    string     `json:"gids,omitempty"`
}

// StartedBanner builds the announcement for a newly tracked process.
func StartedBanner(ev StartEvent) Banner {
	return Banner{
		Kind:    BannerStarted,
		Package: ev.Package,
		Target:  ev.Target,
		PID:     ev.PID,
		UID:     ev.UID,
		GIDs:    ev.GIDs,
	}
}

// EndedBanner builds the announcement for a process leaving scope.
func EndedBanner(ev DeathEvent) Banner {
	return Banner{
		Kind:    BannerEnded,
		Package: ev.Process,
		PID:     ev.PID,
	}
}
