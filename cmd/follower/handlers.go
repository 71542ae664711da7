package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/store"
	"github.com/dreamware/scatterstore/internal/telemetry"
)

type server struct {
	store store.DocumentStore
	log   *zap.Logger
}

func newServer(st store.DocumentStore, log *zap.Logger) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{store: st, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/replicate_insert", telemetry.Instrument("replicate_insert", post(s.handleReplicateInsert)))
	mux.Handle("/replicate_update", telemetry.Instrument("replicate_update", post(s.handleReplicateUpdate)))
	mux.Handle("/replicate_delete", telemetry.Instrument("replicate_delete", post(s.handleReplicateDelete)))
	mux.Handle("/local_search", telemetry.Instrument("local_search", post(s.handleLocalSearch)))
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", telemetry.Handler())
	return mux
}

func post(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

// handleReplicateInsert applies an insert replicated by the leader. The
// document must carry the leader-minted id; a replica assigning its own
// id would break cross-node id equality, so an id-less payload is
// rejected, never repaired.
func (s *server) handleReplicateInsert(w http.ResponseWriter, r *http.Request) {
	var p cluster.InsertPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Document.ID == "" {
		writeError(w, http.StatusBadRequest, "missing identifier")
		return
	}

	if err := s.store.Insert(p.Document); err != nil {
		if errors.Is(err, store.ErrMissingID) {
			writeError(w, http.StatusBadRequest, "missing identifier")
			return
		}
		s.log.Error("replicated insert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	s.log.Info("applied replicated insert", zap.String("id", p.Document.ID))
	writeJSON(w, http.StatusOK, cluster.StatusReply{Status: "success"})
}

// handleReplicateUpdate applies a targeted update. A miss is expected
// under partial replication and is reported as not_found, not treated as
// a failure of this node.
func (s *server) handleReplicateUpdate(w http.ResponseWriter, r *http.Request) {
	var p cluster.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.ID == "" || p.Data.Empty() {
		writeError(w, http.StatusBadRequest, "missing _id or data")
		return
	}

	if err := s.store.Update(p.ID, p.Data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Info("replicated update target missing", zap.String("id", p.ID))
			writeJSON(w, http.StatusNotFound, cluster.StatusReply{Status: "not_found"})
			return
		}
		s.log.Error("replicated update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	s.log.Info("applied replicated update", zap.String("id", p.ID))
	writeJSON(w, http.StatusOK, cluster.StatusReply{Status: "success"})
}

// handleReplicateDelete applies a targeted delete, with the same
// not_found semantics as update.
func (s *server) handleReplicateDelete(w http.ResponseWriter, r *http.Request) {
	var p cluster.DeletePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.ID == "" {
		writeError(w, http.StatusBadRequest, "missing _id")
		return
	}

	if err := s.store.Delete(p.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Info("replicated delete target missing", zap.String("id", p.ID))
			writeJSON(w, http.StatusNotFound, cluster.StatusReply{Status: "not_found"})
			return
		}
		s.log.Error("replicated delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	s.log.Info("applied replicated delete", zap.String("id", p.ID))
	writeJSON(w, http.StatusOK, cluster.StatusReply{Status: "success"})
}

// handleLocalSearch evaluates the leader's predicate against this node's
// store. Results are unfiltered and untagged; origin tagging is the
// leader's job at merge time.
func (s *server) handleLocalSearch(w http.ResponseWriter, r *http.Request) {
	var p store.Predicate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recs, err := s.store.Search(p)
	if err != nil {
		s.log.Error("local search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	s.log.Debug("local search served", zap.Int("results", len(recs)))
	writeJSON(w, http.StatusOK, recs)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
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
