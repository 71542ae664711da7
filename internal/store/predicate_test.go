package store

import "testing"

var predicateCorpus = []Record{
	{ID: "1", Name: "Alice", Age: 30, City: "New York"},
	{ID: "2", Name: "Bob", Age: 25, City: "London"},
	{ID: "3", Name: "alina", Age: 30, City: "Tokyo"},
}

func searchCorpus(t *testing.T, p Predicate) []Record {
	t.Helper()
	var out []Record
	cs := p.clauses()
	for _, r := range predicateCorpus {
		if matchAll(cs, r) {
			out = append(out, r)
		}
	}
	return out
}

// TestPredicateMatching covers the clause semantics shared by every node.
func TestPredicateMatching(t *testing.T) {
	t.Run("name is case-insensitive substring", func(t *testing.T) {
		got := searchCorpus(t, Predicate{Name: "ALI"})
		if len(got) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(got))
		}
		if got[0].ID != "1" || got[1].ID != "3" {
			t.Errorf("Expected Alice and alina, got %v", got)
		}
	})

	t.Run("city is case-insensitive substring", func(t *testing.T) {
		got := searchCorpus(t, Predicate{City: "o"})
		if len(got) != 3 {
			t.Errorf("Expected all 3 records, got %d", len(got))
		}
	})

	t.Run("age is exact equality", func(t *testing.T) {
		got := searchCorpus(t, Predicate{Age: "30"})
		if len(got) != 2 {
			t.Errorf("Expected 2 matches for age 30, got %d", len(got))
		}
	})

	t.Run("clauses combine with AND", func(t *testing.T) {
		got := searchCorpus(t, Predicate{Name: "ali", Age: "30", City: "york"})
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("Expected only Alice, got %v", got)
		}
	})

	t.Run("non-integer age clause is dropped", func(t *testing.T) {
		// {name:"bob", age:"abc"} must behave as {name:"bob"}.
		got := searchCorpus(t, Predicate{Name: "bob", Age: "abc"})
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("Expected Bob despite bogus age clause, got %v", got)
		}
	})

	t.Run("only a dropped clause matches nothing", func(t *testing.T) {
		got := searchCorpus(t, Predicate{Age: "abc"})
		if len(got) != 0 {
			t.Errorf("Expected no matches, got %v", got)
		}
	})

	t.Run("whitespace-only clauses are inactive", func(t *testing.T) {
		got := searchCorpus(t, Predicate{Name: "  ", City: "\t"})
		if len(got) != 0 {
			t.Errorf("Expected no matches for blank clauses, got %v", got)
		}
	})
}

// TestPredicateEmpty verifies the validity check used before any fan-out.
func TestPredicateEmpty(t *testing.T) {
	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"all blank", Predicate{}, true},
		{"whitespace only", Predicate{Name: " ", Age: "", City: "  "}, true},
		{"name set", Predicate{Name: "a"}, false},
		{"unparseable age still counts as a clause", Predicate{Age: "abc"}, false},
		{"city set", Predicate{City: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicateMatchesSingleRecord(t *testing.T) {
	r := Record{ID: "9", Name: "Eve", Age: 40, City: "Tokyo"}
	if !(Predicate{Name: "eve"}).Matches(r) {
		t.Error("Expected name clause to match")
	}
	if (Predicate{Name: "eve", Age: "41"}).Matches(r) {
		t.Error("Expected AND with failing age clause not to match")
	}
	if (Predicate{}).Matches(r) {
		t.Error("Expected empty predicate to match nothing")
	}
}
