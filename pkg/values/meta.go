package values

// Counters holds the fixed set of update statistics that accompany a
// response summary. Every numeric field is coerced through the resolved
// integer policy (pkg/intpolicy) so they all present the same Go type —
// one of int64, *big.Int, or float64 — regardless of which field it is
// (spec.md §3, §8 "integer policy uniformity").
type Counters struct {
	NodesCreated          any
	NodesDeleted          any
	RelationshipsCreated  any
	RelationshipsDeleted  any
	PropertiesSet         any
	LabelsAdded           any
	LabelsRemoved         any
	IndexesAdded          any
	IndexesRemoved        any
	ConstraintsAdded      any
	ConstraintsRemoved    any
	SystemUpdates         any
	ContainsUpdates       bool
	ContainsSystemUpdates bool
}

// Plan is a node of the (possibly profiled) query plan tree (spec.md §3).
// The wire keys `records` and `arguments` are surfaced here as Rows and
// Args respectively; Args values have already passed through the value
// decoder.
type Plan struct {
	OperatorType      string
	Identifiers       []string
	Args              map[string]any
	Children          []Plan
	DBHits            any
	Rows              any
	HasPageCacheStats bool
	PageCacheHits     any
	PageCacheMisses   any
	PageCacheHitRatio float64
	Time              any
}

// NotificationPosition locates a notification within the submitted
// statement text.
type NotificationPosition struct {
	Offset int
	Line   int
	Column int
}

// Notification is one entry of the summary's notifications list — plain
// JSON from the server, not a tagged wire value.
type Notification struct {
	Code        string
	Title       string
	Description string
	Severity    string
	Category    string
	Position    *NotificationPosition
}

// Meta is the terminal metadata bundle exposed by both response readers
// (spec.md §4.6, §4.7): bookmarks, update stats, the (profiled) plan when
// requested, and any notifications.
type Meta struct {
	Bookmarks     []string
	Stats         Counters
	Profile       *Plan
	Plan          *Plan
	Notifications []Notification
}
