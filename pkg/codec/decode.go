// Package codec implements the value decoder and encoder that sit between
// the wire's tagged-value JSON and the module's rich Go value model
// (spec.md §4.3): DecodeValue dispatches on the wire tag, EncodeValue
// dispatches on the dynamic shape of the caller's value via an ordered
// predicate chain (spec.md §9 "polymorphic encoding input").
package codec

import (
	"encoding/base64"
	"encoding/json"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/intpolicy"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/scalars"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// Codec decodes and encodes wire values under one resolved integer policy,
// captured by value at construction (spec.md §5 — "integer policy is
// captured by value; no locking").
type Codec struct {
	Policy intpolicy.Policy
}

// New returns a Codec fixed to policy.
func New(policy intpolicy.Policy) *Codec {
	return &Codec{Policy: policy}
}

// DecodeValue turns one tagged wire value into its rich Go form (spec.md
// §4.3). A malformed Point does not fail here — it returns a *BrokenValue
// with a nil error (spec.md §9).
func (c *Codec) DecodeValue(v wire.Value) (any, error) {
	switch v.Type {
	case wire.TagNull:
		return nil, nil
	case wire.TagBoolean:
		return v.Bool()
	case wire.TagInteger:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return c.Policy.ParseDecimal(s)
	case wire.TagFloat:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseFloat(s)
	case wire.TagString:
		return v.String()
	case wire.TagDate:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseDate(s)
	case wire.TagLocalTime:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseLocalTime(s)
	case wire.TagTime:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseTime(s)
	case wire.TagLocalDateTime:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseLocalDateTime(s)
	case wire.TagOffsetDateTime:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseOffsetDateTime(s)
	case wire.TagZonedDateTime:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseZonedDateTime(s)
	case wire.TagDuration:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return scalars.ParseDuration(s)
	case wire.TagPoint:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		p, err := scalars.ParsePoint(s)
		if err != nil {
			return &BrokenValue{Err: err}, nil
		}
		return p, nil
	case wire.TagBase64:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, apierr.ProtocolWrap(err, "malformed Base64 payload")
		}
		return b, nil
	case wire.TagMap:
		return c.decodeMapValue(v)
	case wire.TagList:
		return c.decodeListValue(v)
	case wire.TagNode:
		return c.decodeNode(v)
	case wire.TagRelationship:
		return c.decodeRelationship(v)
	case wire.TagPath:
		return c.decodePath(v)
	default:
		return nil, apierr.Protocol("unknown wire tag %q", v.Type)
	}
}

func (c *Codec) decodeProperties(props map[string]wire.Value) (map[string]any, error) {
	out := make(map[string]any, len(props))
	for k, val := range props {
		dv, err := c.DecodeValue(val)
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

func (c *Codec) decodeMapValue(v wire.Value) (map[string]any, error) {
	m, err := v.Map()
	if err != nil {
		return nil, err
	}
	return c.decodeProperties(m)
}

func (c *Codec) decodeListValue(v wire.Value) ([]any, error) {
	l, err := v.List()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(l))
	for i, elem := range l {
		dv, err := c.DecodeValue(elem)
		if err != nil {
			return nil, err
		}
		out[i] = dv
	}
	return out, nil
}

func (c *Codec) decodeNode(v wire.Value) (values.Node, error) {
	p, err := v.NodePayload()
	if err != nil {
		return values.Node{}, err
	}
	props, err := c.decodeProperties(p.Properties)
	if err != nil {
		return values.Node{}, err
	}
	return values.Node{ElementID: p.ElementID, Labels: p.Labels, Properties: props}, nil
}

func (c *Codec) decodeRelationship(v wire.Value) (values.Relationship, error) {
	p, err := v.RelationshipPayload()
	if err != nil {
		return values.Relationship{}, err
	}
	props, err := c.decodeProperties(p.Properties)
	if err != nil {
		return values.Relationship{}, err
	}
	return values.Relationship{
		ElementID:      p.ElementID,
		StartElementID: p.StartElementID,
		EndElementID:   p.EndElementID,
		Type:           p.Type,
		Properties:     props,
	}, nil
}

func (c *Codec) decodePath(v wire.Value) (values.Path, error) {
	seq, err := v.PathPayload()
	if err != nil {
		return values.Path{}, err
	}
	n := len(seq)
	if n == 0 || n%2 == 0 {
		return values.Path{}, apierr.Protocol("malformed path: length %d must be odd and >= 1", n)
	}
	decoded := make([]any, n)
	for i, elem := range seq {
		dv, err := c.DecodeValue(elem)
		if err != nil {
			return values.Path{}, err
		}
		decoded[i] = dv
	}
	start, ok := decoded[0].(values.Node)
	if !ok {
		return values.Path{}, apierr.Protocol("malformed path: element 0 is not a node")
	}
	end, ok := decoded[n-1].(values.Node)
	if !ok {
		return values.Path{}, apierr.Protocol("malformed path: last element is not a node")
	}
	k := (n - 1) / 2
	segments := make([]values.Segment, k)
	for i := 0; i < k; i++ {
		sNode, ok := decoded[2*i].(values.Node)
		if !ok {
			return values.Path{}, apierr.Protocol("malformed path: element %d is not a node", 2*i)
		}
		rel, ok := decoded[2*i+1].(values.Relationship)
		if !ok {
			return values.Path{}, apierr.Protocol("malformed path: element %d is not a relationship", 2*i+1)
		}
		eNode, ok := decoded[2*i+2].(values.Node)
		if !ok {
			return values.Path{}, apierr.Protocol("malformed path: element %d is not a node", 2*i+2)
		}
		segments[i] = values.Segment{Start: sNode, Relationship: rel, End: eNode}
	}
	return values.Path{Start: start, End: end, Segments: segments}, nil
}

// DecodeStats coerces a wire Counters payload into values.Counters, running
// every numeric field through the integer policy so they share one Go type
// (spec.md §4.1, §8 "integer policy uniformity").
func (c *Codec) DecodeStats(p *wire.CountersPayload) (values.Counters, error) {
	if p == nil {
		return values.Counters{}, nil
	}
	var out values.Counters
	fields := []struct {
		dst *any
		n   json.Number
	}{
		{&out.NodesCreated, p.NodesCreated},
		{&out.NodesDeleted, p.NodesDeleted},
		{&out.RelationshipsCreated, p.RelationshipsCreated},
		{&out.RelationshipsDeleted, p.RelationshipsDeleted},
		{&out.PropertiesSet, p.PropertiesSet},
		{&out.LabelsAdded, p.LabelsAdded},
		{&out.LabelsRemoved, p.LabelsRemoved},
		{&out.IndexesAdded, p.IndexesAdded},
		{&out.IndexesRemoved, p.IndexesRemoved},
		{&out.ConstraintsAdded, p.ConstraintsAdded},
		{&out.ConstraintsRemoved, p.ConstraintsRemoved},
		{&out.SystemUpdates, p.SystemUpdates},
	}
	for _, f := range fields {
		v, err := c.parseCount(f.n)
		if err != nil {
			return values.Counters{}, err
		}
		*f.dst = v
	}
	out.ContainsUpdates = p.ContainsUpdates
	out.ContainsSystemUpdates = p.ContainsSystemUpdates
	return out, nil
}

// DecodeProfile coerces a wire plan payload into values.Plan, recursing into
// children and running dbHits/records/pageCacheHits/pageCacheMisses/time
// through the integer policy.
func (c *Codec) DecodeProfile(p *wire.PlanPayload) (*values.Plan, error) {
	if p == nil {
		return nil, nil
	}
	args, err := c.decodeProperties(p.Arguments)
	if err != nil {
		return nil, err
	}
	children := make([]values.Plan, len(p.Children))
	for i := range p.Children {
		child, err := c.DecodeProfile(&p.Children[i])
		if err != nil {
			return nil, err
		}
		children[i] = *child
	}
	dbHits, err := c.parseCount(p.DBHits)
	if err != nil {
		return nil, err
	}
	rows, err := c.parseCount(p.Records)
	if err != nil {
		return nil, err
	}
	pcHits, err := c.parseCount(p.PageCacheHits)
	if err != nil {
		return nil, err
	}
	pcMisses, err := c.parseCount(p.PageCacheMisses)
	if err != nil {
		return nil, err
	}
	timeVal, err := c.parseCount(p.Time)
	if err != nil {
		return nil, err
	}
	return &values.Plan{
		OperatorType:      p.OperatorType,
		Identifiers:       p.Identifiers,
		Args:              args,
		Children:          children,
		DBHits:            dbHits,
		Rows:              rows,
		HasPageCacheStats: p.HasPageCacheStats,
		PageCacheHits:     pcHits,
		PageCacheMisses:   pcMisses,
		PageCacheHitRatio: p.PageCacheHitRatio,
		Time:              timeVal,
	}, nil
}

func (c *Codec) parseCount(n json.Number) (any, error) {
	if n == "" {
		return c.Policy.FromInt64(0), nil
	}
	return c.Policy.ParseDecimal(string(n))
}
