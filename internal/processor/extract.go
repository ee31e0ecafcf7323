package processor

import (
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vyrodovalexey/qproc/internal/grammar"
)

const (
	listSeparator = ","
	ascPrefix     = "asc:"
	descPrefix    = "desc:"
	includePrefix = '+'
	excludePrefix = '-'

	orKey               = string(grammar.OpOr)
	regexKey            = string(grammar.OpRegex)
	caseInsensitiveFlag = "i"
)

// extractCount parses a limit or skip value. Non-numeric input is 0 and
// negative input is taken by absolute value.
func extractCount(raw string) int64 {
	n, ok := grammar.ParseLeadingInt(raw)
	if !ok {
		return 0
	}
	if n == math.MinInt64 {
		return math.MaxInt64
	}
	if n < 0 {
		return -n
	}
	return n
}

// extractSort parses "asc:a,desc:b,c" into an ordered sort document. A
// repeated name keeps its first position and takes the latest direction.
func extractSort(raw string) bson.D {
	sort := bson.D{}
	index := make(map[string]int)

	for _, token := range strings.Split(raw, listSeparator) {
		name, dir := token, Ascending
		if rest, ok := strings.CutPrefix(token, descPrefix); ok {
			name, dir = rest, Descending
		} else if rest, ok := strings.CutPrefix(token, ascPrefix); ok {
			name = rest
		}
		if name == "" {
			continue
		}

		if i, ok := index[name]; ok {
			sort[i].Value = dir
			continue
		}
		index[name] = len(sort)
		sort = append(sort, bson.E{Key: name, Value: dir})
	}

	return sort
}

// extractProjection parses "+a,-b,c" against the projectable set. It returns
// nil unless at least one name is kept and every kept token has the same
// polarity.
func extractProjection(raw string, projectable func(string) bool) (bson.M, bool) {
	proj := bson.M{}
	polarity := -1
	uniform := true

	for _, token := range strings.Split(raw, listSeparator) {
		name, include := token, Include
		if token != "" && (token[0] == includePrefix || token[0] == excludePrefix) {
			name = token[1:]
			if token[0] == excludePrefix {
				include = Exclude
			}
		}
		if !projectable(name) {
			continue
		}

		proj[name] = include
		if polarity == -1 {
			polarity = include
		} else if polarity != include {
			uniform = false
		}
	}

	if len(proj) == 0 {
		return nil, true
	}
	if !uniform {
		return nil, false
	}
	return proj, true
}

// searchFilter builds a case-insensitive OR over the searchable fields. With
// no searchable fields the filter is empty.
func searchFilter(term string, fields []string) bson.M {
	if len(fields) == 0 {
		return bson.M{}
	}

	clauses := make(bson.A, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, bson.M{
			f: bson.M{regexKey: primitive.Regex{Pattern: term, Options: caseInsensitiveFlag}},
		})
	}
	return bson.M{orKey: clauses}
}
