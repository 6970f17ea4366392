package roadrunner

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrConfig marks a malformed or missing option value, fatal at startup.
	ErrConfig = errors.New("invalid configuration")
	// ErrConnection marks a failure to establish or maintain the store
	// connection. Fatal; the dispatcher still releases the cluster handle.
	ErrConnection = errors.New("store connection failed")
	// ErrOperation marks a failed get/upsert call. A single operation
	// failure aborts the run rather than skewing the statistics.
	ErrOperation = errors.New("store operation failed")
	// ErrDegeneratePartition marks a keyspace that cannot be divided over
	// the requested number of slots.
	ErrDegeneratePartition = errors.New("degenerate keyspace partition")
)

// Binary represents an arbitrary binary document value.
type Binary []byte

// DB is one logical store connection. Each ClientHandler owns exactly one
// DB instance, shared by all of its workers; the client library underneath
// is assumed to multiplex concurrent calls over it.
type DB interface {
	// Init establishes any per-connection state. Called once, by the
	// owning ClientHandler, before the workload starts.
	Init() error

	// Get reads the document stored under key.
	Get(key string) (Binary, error)

	// Upsert stores value under key, overwriting any previous document.
	Upsert(key string, value Binary) error
}

// Cluster is the process-wide handle to the target store. It is connected
// exactly once by the dispatcher, hands out one DB per ClientHandler, and
// is disconnected exactly once at the end of the run, on every exit path.
// Disconnect releases every DB the cluster has opened.
type Cluster interface {
	SetProperties(p Properties)
	GetProperties() Properties

	Connect(nodes []string) error
	OpenDB() (DB, error)
	Disconnect() error
}

type ClusterBase struct {
	p Properties
}

func NewClusterBase() *ClusterBase {
	return &ClusterBase{}
}

func (self *ClusterBase) SetProperties(p Properties) {
	self.p = p
}

func (self *ClusterBase) GetProperties() Properties {
	return self.p
}

type MakeClusterFunc func() Cluster

// Clusters maps a store name to its binding constructor. Bindings living
// outside the root package register themselves through AddCluster.
var Clusters = map[string]MakeClusterFunc{
	"basic": func() Cluster {
		return NewBasicCluster()
	},
}

func AddCluster(name string, f MakeClusterFunc) {
	Clusters[name] = f
}

// RegisteredClusters lists the registered store names, sorted.
func RegisteredClusters() []string {
	names := make([]string, 0, len(Clusters))
	for name := range Clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewCluster(name string, props Properties) (Cluster, error) {
	f, ok := Clusters[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported store: %s", ErrConfig, name)
	}
	c := f()
	c.SetProperties(props)
	return c, nil
}
