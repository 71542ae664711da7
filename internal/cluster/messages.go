package cluster

import "github.com/dreamware/scatterstore/internal/store"

// Wire types for the node-to-node API. The leader encodes these when
// broadcasting; followers decode them in their replication handlers, so
// both sides share one definition.

// InsertPayload carries a fully-formed record, id included, to
// POST /replicate_insert.
type InsertPayload struct {
	Document store.Record `json:"document"`
}

// UpdatePayload carries a targeted partial update to POST /replicate_update.
type UpdatePayload struct {
	ID   string       `json:"_id"`
	Data store.Fields `json:"data"`
}

// DeletePayload carries a targeted delete to POST /replicate_delete.
type DeletePayload struct {
	ID string `json:"_id"`
}

// StatusReply is the generic acknowledgement body for replication calls.
type StatusReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthReply is the GET /health response body.
type HealthReply struct {
	Status string `json:"status"`
}
