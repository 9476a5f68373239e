package query

import (
	"strings"
	"time"
)

type Operator int

const (
	// OpEquals matches a field exactly.
	OpEquals Operator = iota
	// OpContainsFold matches a case-insensitive substring in any of Fields.
	OpContainsFold
	// OpBetween matches a time field inside [From, To], both inclusive.
	OpBetween
)

// Criterion is one independently toggled constraint.
type Criterion struct {
	Op     Operator
	Fields []string
	Value  string
	From   time.Time
	To     time.Time
}

// Spec is the AND of its criteria plus the page to return.
type Spec struct {
	Criteria []Criterion
	Page     PageRequest
}

// Record exposes field values by logical name for in-memory matching.
type Record interface {
	Field(name string) any
}

// Builder composes criteria; each With* call is a no-op when its input is
// absent, so callers never branch on optional filters.
type Builder struct {
	criteria []Criterion
}

func NewBuilder() *Builder {
	return &Builder{}
}

// WithEquals adds an exact-match constraint unless value is blank.
func (b *Builder) WithEquals(field, value string) *Builder {
	v := strings.TrimSpace(value)
	if v == "" {
		return b
	}
	b.criteria = append(b.criteria, Criterion{Op: OpEquals, Fields: []string{field}, Value: v})
	return b
}

// WithID is WithEquals on the identity field.
func (b *Builder) WithID(field, id string) *Builder {
	return b.WithEquals(field, id)
}

// WithNameLike adds a case-insensitive containment constraint matching any
// of fields, unless value is blank.
func (b *Builder) WithNameLike(value string, fields ...string) *Builder {
	v := strings.TrimSpace(value)
	if v == "" || len(fields) == 0 {
		return b
	}
	b.criteria = append(b.criteria, Criterion{Op: OpContainsFold, Fields: fields, Value: v})
	return b
}

// WithDateBetween adds an inclusive range constraint only when both bounds
// are present. A single bound is ignored.
func (b *Builder) WithDateBetween(field string, from, to *time.Time) *Builder {
	if from == nil || to == nil || from.IsZero() || to.IsZero() {
		return b
	}
	b.criteria = append(b.criteria, Criterion{Op: OpBetween, Fields: []string{field}, From: *from, To: *to})
	return b
}

func (b *Builder) Build(page PageRequest) Spec {
	criteria := make([]Criterion, len(b.criteria))
	copy(criteria, b.criteria)
	return Spec{Criteria: criteria, Page: page}
}

// Matches reports whether r satisfies every criterion of the spec.
func (s Spec) Matches(r Record) bool {
	for _, c := range s.Criteria {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

func (c Criterion) Matches(r Record) bool {
	switch c.Op {
	case OpEquals:
		v, ok := r.Field(c.Fields[0]).(string)
		return ok && v == c.Value
	case OpContainsFold:
		needle := strings.ToLower(c.Value)
		for _, f := range c.Fields {
			if v, ok := r.Field(f).(string); ok && strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	case OpBetween:
		t, ok := r.Field(c.Fields[0]).(time.Time)
		if !ok {
			return false
		}
		return !t.Before(c.From) && !t.After(c.To)
	}
	return false
}

// Filter returns the records of items that satisfy spec, in order.
func Filter[T Record](items []T, spec Spec) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if spec.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
