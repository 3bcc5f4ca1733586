package domain

import "context"

// ClusteringResult summarizes one clustering run.
type ClusteringResult struct {
	ClustersCreated  int `json:"clusters_created"`
	InterestsMatched int `json:"interests_matched"`
}

// ClusteringService turns open interests into candidate groups. Runs are
// idempotent with respect to already-matched interests: only open interests
// enter the pool and claims are atomic.
type ClusteringService interface {
	// Run clusters the open interests of every active destination. Force relaxes
	// nothing today; it is accepted for operator tooling compatibility.
	Run(ctx context.Context, force bool) (*ClusteringResult, error)
}
