package database

// HNSW index parameters for 128-dim dlib descriptors
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	HNSWMaxNeighbors = 16

	// HNSWSearchCandidates is how many neighbors are fetched from the graph
	// before the exact distance re-check picks the nearest one.
	HNSWSearchCandidates = 8
)

// Backend names
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMariaDB  = "mariadb"
)
