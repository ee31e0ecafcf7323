package processor

import (
	"fmt"
	"net/url"
	"time"

	"github.com/vyrodovalexey/qproc/internal/grammar"
	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

// Processor compiles query mappings against a schema.
type Processor struct {
	schema  *schema.Schema
	keys    schema.Keys
	logger  observability.Logger
	metrics *Metrics
	now     func() time.Time

	fieldAliases  []schema.AliasEntry
	metaAliases   []schema.AliasEntry
	fieldDefaults []schema.DefaultEntry
	metaDefaults  []schema.DefaultEntry
	searchable    []string
}

// Option is a functional option for configuring the processor.
type Option func(*Processor)

// WithLogger sets the logger for the processor.
func WithLogger(logger observability.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics enables metrics recording.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithClock sets the time source used to measure exec duration.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a processor for the compiled schema.
func New(s *schema.Schema, opts ...Option) *Processor {
	p := &Processor{
		schema:        s,
		keys:          s.Keys(),
		logger:        observability.NopLogger(),
		now:           time.Now,
		fieldAliases:  s.FieldAliases(),
		metaAliases:   s.MetaAliases(),
		fieldDefaults: s.FieldDefaults(),
		metaDefaults:  s.MetaDefaults(),
		searchable:    s.Searchable(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Processor returns p. It lets a bare processor stand in wherever a source
// of the current processor is expected.
func (p *Processor) Processor() *Processor {
	return p
}

// Schema returns the compiled schema.
func (p *Processor) Schema() *schema.Schema {
	return p.schema
}

// Exec compiles a query mapping. A nil mapping yields an empty result. The
// mapping is not modified.
func (p *Processor) Exec(query map[string]string) *Result {
	if query == nil {
		return p.invalid()
	}

	work := make(map[string]string, len(query))
	for k, v := range query {
		work[k] = v
	}
	return p.exec(work)
}

// ExecValues compiles parsed URL query values. The first value of a repeated
// key is used.
func (p *Processor) ExecValues(values url.Values) *Result {
	if values == nil {
		return p.invalid()
	}
	return p.exec(firstValues(values))
}

// ExecAny compiles an arbitrary decoded query. Supported inputs are
// map[string]string, url.Values, map[string][]string and
// map[string]interface{}; anything else yields an empty result.
func (p *Processor) ExecAny(v interface{}) *Result {
	switch q := v.(type) {
	case map[string]string:
		return p.Exec(q)
	case url.Values:
		return p.ExecValues(q)
	case map[string][]string:
		return p.ExecValues(q)
	case map[string]interface{}:
		if q == nil {
			return p.invalid()
		}
		return p.exec(stringValues(q))
	default:
		return p.invalid()
	}
}

func (p *Processor) invalid() *Result {
	start := p.now()
	r := newResult(p.keys)
	p.record(ModeInvalid, start)
	return r
}

func (p *Processor) exec(work map[string]string) *Result {
	start := p.now()
	r := newResult(p.keys)

	if v, ok := take(work, p.keys.Limit); ok {
		r.Limit = extractCount(v)
	}
	if v, ok := take(work, p.keys.Skip); ok {
		r.Skip = extractCount(v)
	}
	if v, ok := take(work, p.keys.Sort); ok {
		r.Sort = extractSort(v)
	}
	if v, ok := take(work, p.keys.Projection); ok {
		proj, uniform := extractProjection(v, p.schema.IsProjectable)
		if !uniform {
			p.logger.Debug("mixed projection discarded", observability.String("projection", v))
			p.dropped(ReasonProjection)
		}
		r.Projection = proj
	}
	if v, ok := take(work, p.keys.Search); ok && v != "" {
		r.Filter = searchFilter(v, p.searchable)
		r.search = true
		p.record(ModeSearch, start)
		return r
	}

	resolveAliases(work, p.fieldAliases)
	resolveAliases(work, p.metaAliases)

	for k, v := range work {
		if p.keys.IsReserved(k) {
			continue
		}
		if spec, ok := p.schema.MetaField(k); ok {
			p.compileMeta(r, k, v, spec.Type)
			continue
		}
		if canonical, ok := p.schema.Resolve(k); ok {
			spec, _ := p.schema.Field(canonical)
			p.compileField(r, k, v, spec.Type)
		}
	}

	injectDefaults(r.Filter, p.fieldDefaults)
	injectDefaults(r.Meta, p.metaDefaults)

	p.record(ModeFilter, start)
	return r
}

func (p *Processor) compileMeta(r *Result, key, raw string, t schema.FieldType) {
	v, err := grammar.Convert(t, raw)
	if err != nil {
		p.logger.Debug("meta value dropped",
			observability.String("key", key),
			observability.String("value", raw),
			observability.Error(err))
		p.dropped(ReasonMeta)
		return
	}
	r.Meta[key] = v
}

func (p *Processor) compileField(r *Result, key, raw string, t schema.FieldType) {
	clause, err := grammar.Parse(t, raw)
	if err != nil {
		p.logger.Debug("filter value dropped",
			observability.String("key", key),
			observability.String("type", t.String()),
			observability.String("value", raw),
			observability.Error(err))
		p.dropped(ReasonClause)
		return
	}
	r.Filter[key] = clause
}

func (p *Processor) record(mode string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordExec(mode, p.now().Sub(start).Seconds())
}

func (p *Processor) dropped(reason string) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordDropped(reason)
}

// take removes key from query and reports its value.
func take(query map[string]string, key string) (string, bool) {
	v, ok := query[key]
	if ok {
		delete(query, key)
	}
	return v, ok
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

func stringValues(values map[string]interface{}) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		case []string:
			if len(val) > 0 {
				out[k] = val[0]
			}
		case []interface{}:
			if len(val) > 0 {
				out[k] = fmt.Sprint(val[0])
			}
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
