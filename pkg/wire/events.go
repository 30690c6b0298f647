package wire

import (
	"encoding/json"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
)

// EventKind is one of the four streaming event discriminators (spec.md §3).
type EventKind string

const (
	EventHeader  EventKind = "Header"
	EventRecord  EventKind = "Record"
	EventSummary EventKind = "Summary"
	EventError   EventKind = "Error"
)

// Event is one parsed streaming line: `{"$event":"...","_body":...}`. Body
// is left as raw JSON; the reader decodes it per Kind (spec.md §4.5 —
// this layer validates shape only, not field presence within _body).
type Event struct {
	Kind EventKind
	Body json.RawMessage
}

// UnmarshalJSON accepts a line iff it is a JSON object with a string
// `$event` and a non-null object (or, as for Record, array) `_body`;
// anything else is a protocol error (spec.md §4.5).
func (e *Event) UnmarshalJSON(data []byte) error {
	var aux struct {
		Event string          `json:"$event"`
		Body  json.RawMessage `json:"_body"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return apierr.ProtocolWrap(err, "malformed event line")
	}
	if aux.Event == "" {
		return apierr.Protocol("event line missing $event")
	}
	if len(aux.Body) == 0 || string(aux.Body) == "null" {
		return apierr.Protocol("event line missing _body")
	}
	if c := aux.Body[0]; c != '{' && c != '[' {
		return apierr.Protocol("event line _body is not an object")
	}
	e.Kind = EventKind(aux.Event)
	e.Body = aux.Body
	return nil
}

// HeaderBody is the `_body` of a Header event.
type HeaderBody struct {
	Fields []string `json:"fields"`
}

// RecordBody is the `_body` of a Record event: a bare JSON array of tagged
// values, not an object.
type RecordBody []Value

// SummaryBody is the `_body` of a Summary event.
type SummaryBody struct {
	Bookmarks         []string              `json:"bookmarks,omitempty"`
	Counters          *CountersPayload      `json:"counters,omitempty"`
	ProfiledQueryPlan *PlanPayload          `json:"profiledQueryPlan,omitempty"`
	QueryPlan         *PlanPayload          `json:"queryPlan,omitempty"`
	Notifications     []NotificationPayload `json:"notifications,omitempty"`
}

// ErrorBody is the `_body` of an Error event.
type ErrorBody struct {
	Failures []Failure `json:"failures"`
}

// Failure is one entry of an Error event's failures list.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CountersPayload is the wire shape of the response's update-statistics
// record. Numeric fields are kept as json.Number so arbitrarily large
// counters survive unmarshaling without precision loss before they reach
// the integer policy (spec.md §4.1).
type CountersPayload struct {
	NodesCreated          json.Number `json:"nodesCreated"`
	NodesDeleted          json.Number `json:"nodesDeleted"`
	RelationshipsCreated  json.Number `json:"relationshipsCreated"`
	RelationshipsDeleted  json.Number `json:"relationshipsDeleted"`
	PropertiesSet         json.Number `json:"propertiesSet"`
	LabelsAdded           json.Number `json:"labelsAdded"`
	LabelsRemoved         json.Number `json:"labelsRemoved"`
	IndexesAdded          json.Number `json:"indexesAdded"`
	IndexesRemoved        json.Number `json:"indexesRemoved"`
	ConstraintsAdded      json.Number `json:"constraintsAdded"`
	ConstraintsRemoved    json.Number `json:"constraintsRemoved"`
	SystemUpdates         json.Number `json:"systemUpdates"`
	ContainsUpdates       bool        `json:"containsUpdates"`
	ContainsSystemUpdates bool        `json:"containsSystemUpdates"`
}

// PlanPayload is the wire shape of a (profiled) query plan node (spec.md
// §3). `records` and `arguments` are renamed to Rows/Args once decoded by
// pkg/codec; here they keep their wire names.
type PlanPayload struct {
	OperatorType      string           `json:"operatorType"`
	Identifiers       []string         `json:"identifiers"`
	Arguments         map[string]Value `json:"arguments,omitempty"`
	Children          []PlanPayload    `json:"children,omitempty"`
	DBHits            json.Number      `json:"dbHits"`
	Records           json.Number      `json:"records"`
	HasPageCacheStats bool             `json:"hasPageCacheStats"`
	PageCacheHits     json.Number      `json:"pageCacheHits"`
	PageCacheMisses   json.Number      `json:"pageCacheMisses"`
	PageCacheHitRatio float64          `json:"pageCacheHitRatio"`
	Time              json.Number      `json:"time"`
}

// NotificationPayload is the wire shape of one summary notification —
// plain JSON, not a tagged wire value.
type NotificationPayload struct {
	Code        string                       `json:"code"`
	Title       string                       `json:"title"`
	Description string                       `json:"description"`
	Severity    string                       `json:"severity"`
	Category    string                       `json:"category"`
	Position    *NotificationPositionPayload `json:"position,omitempty"`
}

// NotificationPositionPayload is the wire shape of a notification's
// position within the submitted statement text.
type NotificationPositionPayload struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}
