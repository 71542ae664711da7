package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/coordinator"
	"github.com/dreamware/scatterstore/internal/store"
	"github.com/dreamware/scatterstore/internal/telemetry"
)

// server holds the leader's request handlers and their single dependency:
// the coordinator, which carries registry, store, and health monitor.
type server struct {
	coord *coordinator.Coordinator
	log   *zap.Logger
}

func newServer(coord *coordinator.Coordinator, log *zap.Logger) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{coord: coord, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/insert", telemetry.Instrument("insert", post(s.handleInsert)))
	mux.Handle("/update", telemetry.Instrument("update", post(s.handleUpdate)))
	mux.Handle("/delete", telemetry.Instrument("delete", post(s.handleDelete)))
	mux.Handle("/search", telemetry.Instrument("search", post(s.handleSearch)))
	mux.Handle("/local_search", telemetry.Instrument("local_search", post(s.handleLocalSearch)))
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", telemetry.Handler())
	return mux
}

// post rejects any method but POST before the handler runs.
func post(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

type insertRequest struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
	City string `json:"city"`
}

// writeReply is the client-facing response for every write: the local
// commit result plus the per-follower replication outcomes, which are
// informational only.
type writeReply struct {
	Status      string                `json:"status"`
	ID          string                `json:"_id,omitempty"`
	Replication []coordinator.Outcome `json:"replication"`
}

// handleInsert commits a new record locally under a freshly minted id,
// then broadcasts it. The write succeeds once the local commit does; the
// outcomes only describe how far replication got.
func (s *server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" || req.Age == nil {
		writeError(w, http.StatusBadRequest, "name, age and city are required")
		return
	}

	rec := store.Record{
		ID:   uuid.NewString(),
		Name: req.Name,
		Age:  *req.Age,
		City: req.City,
	}
	if err := s.coord.Store().Insert(rec); err != nil {
		s.log.Error("local insert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "leader store error")
		return
	}

	snap := s.coord.Snapshot(r.Context())
	outcomes := s.coord.Broadcast(r.Context(), coordinator.OpInsert,
		cluster.InsertPayload{Document: rec}, snap)

	writeJSON(w, http.StatusOK, writeReply{Status: "success", ID: rec.ID, Replication: outcomes})
}

type updateRequest struct {
	ID   string       `json:"_id"`
	Data store.Fields `json:"data"`
}

// handleUpdate applies a partial update locally, then broadcasts the same
// targeted update. A miss on the leader fails the whole request and no
// broadcast is attempted.
func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing _id")
		return
	}
	if req.Data.Empty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := s.coord.Store().Update(req.ID, req.Data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.log.Error("local update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "leader store error")
		return
	}

	snap := s.coord.Snapshot(r.Context())
	outcomes := s.coord.Broadcast(r.Context(), coordinator.OpUpdate,
		cluster.UpdatePayload{ID: req.ID, Data: req.Data}, snap)

	writeJSON(w, http.StatusOK, writeReply{Status: "success", ID: req.ID, Replication: outcomes})
}

type deleteRequest struct {
	ID string `json:"_id"`
}

// handleDelete removes a record locally, then broadcasts the delete.
func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing _id")
		return
	}

	if err := s.coord.Store().Delete(req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.log.Error("local delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "leader store error")
		return
	}

	snap := s.coord.Snapshot(r.Context())
	outcomes := s.coord.Broadcast(r.Context(), coordinator.OpDelete,
		cluster.DeletePayload{ID: req.ID}, snap)

	writeJSON(w, http.StatusOK, writeReply{Status: "success", ID: req.ID, Replication: outcomes})
}

type searchReply struct {
	Results []store.TaggedRecord `json:"results"`
}

// handleSearch runs the scatter-gather query over every reachable node.
func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var p store.Predicate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Validate before the snapshot so an empty predicate costs zero
	// network calls, probes included.
	if p.Empty() {
		writeError(w, http.StatusBadRequest, coordinator.ErrEmptyPredicate.Error())
		return
	}

	snap := s.coord.Snapshot(r.Context())
	results, err := s.coord.Search(r.Context(), p, snap)
	if err != nil {
		if errors.Is(err, coordinator.ErrEmptyPredicate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []store.TaggedRecord{}
	}
	writeJSON(w, http.StatusOK, searchReply{Results: results})
}

// handleLocalSearch evaluates a predicate against the leader's own store
// only, mirroring the follower endpoint of the same name.
func (s *server) handleLocalSearch(w http.ResponseWriter, r *http.Request) {
	var p store.Predicate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	recs, err := s.coord.Store().Search(p)
	if err != nil {
		s.log.Error("local search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "local search failed")
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

type nodeStatus struct {
	cluster.Node
	Status cluster.NodeStatus `json:"status"`
}

// handleStatus reports the node map with a fresh health snapshot.
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.coord.Snapshot(r.Context())

	var nodes []nodeStatus
	for _, n := range s.coord.Registry().Nodes() {
		nodes = append(nodes, nodeStatus{Node: n, Status: snap[n.Addr]})
	}
	writeJSON(w, http.StatusOK, struct {
		Nodes []nodeStatus `json:"nodes"`
	}{Nodes: nodes})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cluster.HealthReply{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, cluster.StatusReply{Status: "error", Message: msg})
}
