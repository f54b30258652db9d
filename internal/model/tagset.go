package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
)

// TagSet is a deduplicated, order-stable set of semantic tags. It
// implements sql.Scanner/driver.Valuer so GORM can persist it as a
// single comma-joined text column without a join table — mirroring the
// teacher's preference for flat, cache-friendly storage over normalized
// many-to-many tables for append-only label sets.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from a slice, deduplicating as it goes.
func NewTagSet(tags ...string) TagSet {
	ts := make(TagSet, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		ts[t] = struct{}{}
	}
	return ts
}

// Add appends a tag, silently deduplicating.
func (ts *TagSet) Add(tag string) {
	if tag == "" {
		return
	}
	if *ts == nil {
		*ts = make(TagSet, 1)
	}
	(*ts)[tag] = struct{}{}
}

// Has reports whether the tag is present.
func (ts TagSet) Has(tag string) bool {
	_, ok := ts[tag]
	return ok
}

// Slice returns the tags in sorted order (stable for tests/serialization).
func (ts TagSet) Slice() []string {
	out := make([]string, 0, len(ts))
	for t := range ts {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Value implements driver.Valuer.
func (ts TagSet) Value() (driver.Value, error) {
	return strings.Join(ts.Slice(), ","), nil
}

// Scan implements sql.Scanner.
func (ts *TagSet) Scan(src any) error {
	*ts = make(TagSet)
	if src == nil {
		return nil
	}
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("model: TagSet.Scan: unsupported type %T", src)
	}
	if s == "" {
		return nil
	}
	for _, t := range strings.Split(s, ",") {
		ts.Add(t)
	}
	return nil
}
