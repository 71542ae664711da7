package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Role distinguishes the single write-coordinating node from its replicas.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
)

// Node is one member of the cluster. The set of nodes is fixed for the
// process lifetime; there is no dynamic join or leave.
type Node struct {
	Name string `json:"name"` // e.g. "Leader (5000)" or "Follower 2 (5002)"
	Addr string `json:"addr"` // base URL, e.g. "http://127.0.0.1:5002"
	Role Role   `json:"role"`
}

// NodeStatus is the liveness classification of a node in one snapshot.
type NodeStatus string

const (
	StatusOnline  NodeStatus = "online"
	StatusOffline NodeStatus = "offline"
)

// HealthSnapshot maps node address to liveness. It is valid for a single
// request only and must be recomputed for every write or query.
type HealthSnapshot map[string]NodeStatus

// Online reports whether the node at addr was reachable when the snapshot
// was taken.
func (s HealthSnapshot) Online(addr string) bool {
	return s[addr] == StatusOnline
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// PostJSON posts body as JSON to url and, when out is non-nil, decodes the
// response into it. A non-2xx status is an error. The context carries the
// per-call timeout; the client timeout is only a last-ditch bound.
func PostJSON(ctx context.Context, url string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetJSON fetches url and decodes the JSON response into out.
func GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
