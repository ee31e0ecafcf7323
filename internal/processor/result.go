package processor

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vyrodovalexey/qproc/internal/schema"
)

// Sort directions and projection polarities.
const (
	Ascending  = 1
	Descending = -1

	Include = 1
	Exclude = 0
)

// Result is a compiled query descriptor.
type Result struct {
	// Filter maps input keys to clauses or default values. In search mode
	// it holds a single "$or" entry.
	Filter bson.M
	// Sort lists sort keys, primary key first.
	Sort bson.D
	Limit int64
	Skip  int64
	// Projection is nil unless a uniform projection was requested.
	Projection bson.M
	Meta       map[string]interface{}

	keys   schema.Keys
	search bool
}

func newResult(keys schema.Keys) *Result {
	return &Result{
		Filter: bson.M{},
		Sort:   bson.D{},
		Meta:   make(map[string]interface{}),
		keys:   keys,
	}
}

// Search reports whether the result was produced by the search
// short-circuit.
func (r *Result) Search() bool {
	return r.search
}

// Document returns the result as an ordered document using the configured
// reserved key names. The projection entry is omitted when not applied.
func (r *Result) Document() bson.D {
	keys := r.keys.WithDefaults()

	sort := r.Sort
	if sort == nil {
		sort = bson.D{}
	}

	doc := bson.D{
		{Key: "filter", Value: nonNilM(r.Filter)},
		{Key: keys.Sort, Value: sort},
		{Key: keys.Limit, Value: r.Limit},
		{Key: keys.Skip, Value: r.Skip},
	}
	if r.Projection != nil {
		doc = append(doc, bson.E{Key: keys.Projection, Value: r.Projection})
	}

	meta := r.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return append(doc, bson.E{Key: "meta", Value: meta})
}

// MarshalJSON encodes the result as relaxed MongoDB Extended JSON, so
// dates and regular expressions keep their store representation.
func (r *Result) MarshalJSON() ([]byte, error) {
	return bson.MarshalExtJSON(r.Document(), false, false)
}

// FindOptions converts sort, limit, skip and projection into driver find
// options.
func (r *Result) FindOptions() *options.FindOptions {
	opts := options.Find().
		SetSort(r.Sort).
		SetLimit(r.Limit).
		SetSkip(r.Skip)
	if r.Projection != nil {
		opts.SetProjection(r.Projection)
	}
	return opts
}

func nonNilM(m bson.M) bson.M {
	if m == nil {
		return bson.M{}
	}
	return m
}
