package query

import (
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// decodeNotifications copies plain-JSON notification entries (not tagged
// wire values, so no codec involvement) into their rich form.
func decodeNotifications(ns []wire.NotificationPayload) []values.Notification {
	if len(ns) == 0 {
		return nil
	}
	out := make([]values.Notification, len(ns))
	for i, n := range ns {
		out[i] = values.Notification{
			Code:        n.Code,
			Title:       n.Title,
			Description: n.Description,
			Severity:    n.Severity,
			Category:    n.Category,
		}
		if n.Position != nil {
			out[i].Position = &values.NotificationPosition{
				Offset: n.Position.Offset,
				Line:   n.Position.Line,
				Column: n.Position.Column,
			}
		}
	}
	return out
}
