package cluster

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/exp/slices"
)

// Registry is the static node membership of the cluster, built once at
// startup from configuration and read-only thereafter. Follower order is
// configuration order, which fixes the "Follower i" naming.
type Registry struct {
	leader    Node
	followers []Node
}

// NewRegistry validates the configured addresses and builds the registry.
// It fails fast on an empty follower list or a malformed URL so a broken
// deployment never starts serving.
func NewRegistry(leaderAddr string, followerAddrs []string) (*Registry, error) {
	if len(followerAddrs) == 0 {
		return nil, errors.New("registry: no followers configured")
	}

	leaderURL, err := parseNodeAddr(leaderAddr)
	if err != nil {
		return nil, fmt.Errorf("registry: leader address %q: %w", leaderAddr, err)
	}
	r := &Registry{
		leader: Node{
			Name: fmt.Sprintf("Leader (%s)", hostLabel(leaderURL)),
			Addr: leaderURL.String(),
			Role: RoleLeader,
		},
	}

	for i, addr := range followerAddrs {
		u, err := parseNodeAddr(addr)
		if err != nil {
			return nil, fmt.Errorf("registry: follower address %q: %w", addr, err)
		}
		r.followers = append(r.followers, Node{
			Name: fmt.Sprintf("Follower %d (%s)", i+1, hostLabel(u)),
			Addr: u.String(),
			Role: RoleFollower,
		})
	}
	return r, nil
}

// Leader returns the write-coordinating node.
func (r *Registry) Leader() Node { return r.leader }

// Followers returns the replicas in configuration order.
// The returned slice is a copy; callers may not mutate membership.
func (r *Registry) Followers() []Node {
	return slices.Clone(r.followers)
}

// Resolve maps a node address back to its Node entry.
func (r *Registry) Resolve(addr string) (Node, bool) {
	if addr == r.leader.Addr {
		return r.leader, true
	}
	idx := slices.IndexFunc(r.followers, func(n Node) bool { return n.Addr == addr })
	if idx < 0 {
		return Node{}, false
	}
	return r.followers[idx], true
}

// Nodes returns the leader followed by the followers.
func (r *Registry) Nodes() []Node {
	out := make([]Node, 0, len(r.followers)+1)
	out = append(out, r.leader)
	out = append(out, r.followers...)
	return out
}

func parseNodeAddr(addr string) (*url.URL, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// hostLabel picks the human-readable part of a node name: the port when
// there is one, the host otherwise.
func hostLabel(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	return u.Hostname()
}
