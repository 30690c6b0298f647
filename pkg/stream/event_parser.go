package stream

import (
	"encoding/json"
	"errors"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// EventParser turns one line into a wire.Event. It carries no state, so a
// parse failure on one line never affects the next call (spec.md §4.5).
type EventParser struct{}

// Parse accepts a line iff it is a JSON object with a string `$event` and
// a non-null object or array `_body` (wire.Event.UnmarshalJSON enforces the shape);
// anything else is a protocol error.
func (EventParser) Parse(line string) (wire.Event, error) {
	var e wire.Event
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		var perr *apierr.Error
		if errors.As(err, &perr) {
			return wire.Event{}, err
		}
		return wire.Event{}, apierr.ProtocolWrap(err, "malformed event line")
	}
	return e, nil
}
