package docstore

import (
	"encoding/json"
	"sort"
	"strings"
)

// Op is a comparison operator usable in Where.
type Op string

const (
	OpEqual         Op = "=="
	OpNotEqual      Op = "!="
	OpLess          Op = "<"
	OpLessEqual     Op = "<="
	OpGreater       Op = ">"
	OpGreaterEqual  Op = ">="
	OpIn            Op = "in"
	OpArrayContains Op = "array-contains"
)

// Filter is one field/op/value condition. Filters in a Query are ANDed.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query is a builder for filtered, ordered, limited reads.
type Query struct {
	Filters    []Filter
	OrderField string
	Descending bool
	Max        int
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Where(field string, op Op, value any) *Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: normalize(value)})
	return q
}

func (q *Query) OrderBy(field string, descending bool) *Query {
	q.OrderField = field
	q.Descending = descending
	return q
}

func (q *Query) Limit(n int) *Query {
	q.Max = n
	return q
}

// Matches reports whether doc satisfies every filter.
func (q *Query) Matches(doc Document) bool {
	if q == nil {
		return true
	}
	for _, f := range q.Filters {
		if !f.matches(doc) {
			return false
		}
	}
	return true
}

func (f Filter) matches(doc Document) bool {
	got, ok := lookup(doc, f.Field)
	switch f.Op {
	case OpEqual:
		return ok && equal(got, f.Value)
	case OpNotEqual:
		return !ok || !equal(got, f.Value)
	case OpIn:
		list, isList := f.Value.([]any)
		if !ok || !isList {
			return false
		}
		for _, candidate := range list {
			if equal(got, candidate) {
				return true
			}
		}
		return false
	case OpArrayContains:
		list, isList := got.([]any)
		if !ok || !isList {
			return false
		}
		for _, item := range list {
			if equal(item, f.Value) {
				return true
			}
		}
		return false
	}

	if !ok {
		return false
	}
	cmp, comparable := compare(got, f.Value)
	if !comparable {
		return false
	}
	switch f.Op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

// Apply filters, orders and limits snapshots in memory. Input order is kept
// for equal sort keys.
func (q *Query) Apply(in []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(in))
	for _, snap := range in {
		if q.Matches(snap.Data) {
			out = append(out, snap)
		}
	}
	if q != nil && q.OrderField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := lookup(out[i].Data, q.OrderField)
			b, bok := lookup(out[j].Data, q.OrderField)
			if !aok || !bok {
				// missing values sort first ascending
				if q.Descending {
					return aok && !bok
				}
				return !aok && bok
			}
			cmp, _ := compare(a, b)
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q != nil && q.Max > 0 && len(out) > q.Max {
		out = out[:q.Max]
	}
	return out
}

// lookup resolves a dotted path inside nested maps.
func lookup(doc Document, path string) (any, bool) {
	var current any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path, creating intermediate maps.
func setPath(doc Document, path string, value any) {
	parts := strings.Split(path, ".")
	current := map[string]any(doc)
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// normalize maps Go values onto the JSON value space (float64, string,
// bool, nil, []any, map[string]any).
func normalize(v any) any {
	switch v.(type) {
	case nil, string, bool, float64:
		return v
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func equal(a, b any) bool {
	cmp, ok := compare(a, b)
	if ok {
		return cmp == 0
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	return err1 == nil && err2 == nil && string(ab) == string(bb)
}

// compare orders numbers, strings and bools of the same kind.
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// clone deep-copies a document through its JSON form.
func clone(doc Document) Document {
	if doc == nil {
		return Document{}
	}
	out, ok := normalize(map[string]any(doc)).(map[string]any)
	if !ok {
		return Document{}
	}
	return Document(out)
}
