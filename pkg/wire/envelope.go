package wire

// ResponseDocument is the buffered response body (spec.md §6): either a
// success shape (Data/Counters/Bookmarks/...) or an error shape (Errors).
// Both are modeled on one struct because a caller must inspect Errors
// before trusting Data is populated — json.Unmarshal simply leaves
// whichever half of the envelope absent from the body at its zero value.
type ResponseDocument struct {
	Data              *DataPayload          `json:"data,omitempty"`
	Counters          *CountersPayload      `json:"counters,omitempty"`
	Bookmarks         []string              `json:"bookmarks,omitempty"`
	ProfiledQueryPlan *PlanPayload          `json:"profiledQueryPlan,omitempty"`
	QueryPlan         *PlanPayload          `json:"queryPlan,omitempty"`
	Notifications     []NotificationPayload `json:"notifications,omitempty"`
	Errors            []WireError           `json:"errors,omitempty"`
}

// DataPayload is the `data` field of a success document.
type DataPayload struct {
	Fields []string  `json:"fields"`
	Values [][]Value `json:"values"`
}

// WireError is one entry of an error document's `errors` array. Error is a
// fallback for Code, compensating for a server bug where `code` is
// sometimes absent (spec.md §9 — "REMOVE WHEN SERVER IS FIXED").
type WireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
