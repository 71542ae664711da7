package store

// Record is a single document in the cluster. The ID is minted by the leader
// at insert time and is identical on every replica; followers never assign
// their own.
type Record struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
	City string `json:"city"`
}

// TaggedRecord is a Record annotated with the node it was read from.
// The tag exists only in query results and is never written to a store.
type TaggedRecord struct {
	Record
	SourceNode string `json:"source_node"`
}

// Tag copies recs and stamps each copy with the given node name.
func Tag(recs []Record, node string) []TaggedRecord {
	out := make([]TaggedRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, TaggedRecord{Record: r, SourceNode: node})
	}
	return out
}

// Fields is a partial update: only non-nil fields replace the stored value.
type Fields struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
	City *string `json:"city,omitempty"`
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	return f.Name == nil && f.Age == nil && f.City == nil
}

func (f Fields) apply(r *Record) {
	if f.Name != nil {
		r.Name = *f.Name
	}
	if f.Age != nil {
		r.Age = *f.Age
	}
	if f.City != nil {
		r.City = *f.City
	}
}
