package store

import (
	"strconv"
	"strings"
)

// Predicate is the AND-combination of up to three optional match clauses.
// Clause values arrive as strings because they come straight from search
// forms; Age is parsed at evaluation time.
//
// Matching rules, applied identically on every node:
//   - Name, City: case-insensitive substring containment
//   - Age: exact integer equality; a value that does not parse as an
//     integer drops the clause from the conjunction instead of failing
//     the search. This mirrors the behavior clients already depend on.
type Predicate struct {
	Name string `json:"name,omitempty"`
	Age  string `json:"age,omitempty"`
	City string `json:"city,omitempty"`
}

// Empty reports whether no clause carries a value. An empty predicate is
// invalid for a cluster search; it does not mean "match everything".
func (p Predicate) Empty() bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Age) == "" &&
		strings.TrimSpace(p.City) == ""
}

type clause func(Record) bool

// clauses compiles the active conditions. A non-integer age is dropped
// here, not reported.
func (p Predicate) clauses() []clause {
	var cs []clause
	if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" {
		cs = append(cs, func(r Record) bool {
			return strings.Contains(strings.ToLower(r.Name), name)
		})
	}
	if raw := strings.TrimSpace(p.Age); raw != "" {
		if age, err := strconv.Atoi(raw); err == nil {
			cs = append(cs, func(r Record) bool { return r.Age == age })
		}
	}
	if city := strings.ToLower(strings.TrimSpace(p.City)); city != "" {
		cs = append(cs, func(r Record) bool {
			return strings.Contains(strings.ToLower(r.City), city)
		})
	}
	return cs
}

// Matches evaluates the predicate against a single record. A predicate
// with no active clauses matches nothing.
func (p Predicate) Matches(r Record) bool {
	return matchAll(p.clauses(), r)
}

func matchAll(cs []clause, r Record) bool {
	if len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if !c(r) {
			return false
		}
	}
	return true
}
