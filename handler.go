package roadrunner

import (
	"fmt"
	"sync"
	"time"
)

// ClientHandler owns one store connection and the fixed pool of workers
// sharing it. The handler's keyspace range is sub-partitioned over its
// workers with the same floor-division scheme the dispatcher uses for
// handlers.
type ClientHandler struct {
	name    string
	config  *GlobalConfig
	db      DB
	workers []*Worker

	waitGroup sync.WaitGroup
	errLock   sync.Mutex
	firstErr  error
	started   bool
}

func NewClientHandler(name string, config *GlobalConfig, cluster Cluster,
	docGen DocumentGenerator, keyRange Range) (*ClientHandler, error) {

	db, err := cluster.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, name, err)
	}
	if err := db.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, name, err)
	}
	workerRanges, err := Partition(keyRange.Count, config.NumThreads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	workers := make([]*Worker, 0, config.NumThreads)
	for i, r := range workerRanges {
		workers = append(workers, NewWorker(
			fmt.Sprintf("%s/Worker-%d", name, i+1),
			config, db, docGen,
			Range{Offset: keyRange.Offset + r.Offset, Count: r.Count}))
	}
	return &ClientHandler{
		name:    name,
		config:  config,
		db:      db,
		workers: workers,
	}, nil
}

// ExecuteWorkload starts all owned workers and returns immediately. The
// dispatcher performs the blocking wait.
func (self *ClientHandler) ExecuteWorkload() {
	if self.started {
		return
	}
	self.started = true
	Debugf("%s: starting %d workers", self.name, len(self.workers))
	for _, worker := range self.workers {
		self.waitGroup.Add(1)
		go func(w *Worker) {
			defer self.waitGroup.Done()
			if err := w.Run(); err != nil {
				self.recordError(err)
			}
		}(worker)
	}
}

func (self *ClientHandler) recordError(err error) {
	Errorf("%s: %s", self.name, err)
	self.errLock.Lock()
	if self.firstErr == nil {
		self.firstErr = err
	}
	self.errLock.Unlock()
}

// Wait blocks until every owned worker has finished and returns the first
// worker error, if any.
func (self *ClientHandler) Wait() error {
	self.waitGroup.Wait()
	self.errLock.Lock()
	defer self.errLock.Unlock()
	return self.firstErr
}

// Cleanup joins any still-running workers. It does not release the store
// connection: that is shared cluster-wide and disconnected once, by the
// dispatcher.
func (self *ClientHandler) Cleanup() {
	if self.started {
		self.waitGroup.Wait()
	}
	Debugf("%s: cleaned up", self.name)
}

// GetMeasures returns the union of the workers' sample sequences, grouped
// by operation label. Valid only after Wait has returned.
func (self *ClientHandler) GetMeasures() map[string][]time.Duration {
	measures := make(map[string][]time.Duration)
	for _, worker := range self.workers {
		for label, samples := range worker.GetMeasures() {
			measures[label] = append(measures[label], samples...)
		}
	}
	return measures
}

func (self *ClientHandler) GetTotalOps() int64 {
	var total int64
	for _, worker := range self.workers {
		total += worker.GetTotalOps()
	}
	return total
}

func (self *ClientHandler) GetMeasuredOps() int64 {
	var measured int64
	for _, worker := range self.workers {
		measured += worker.GetMeasuredOps()
	}
	return measured
}

// GetThreadElapsed returns each worker's total wall-clock duration. Valid
// only after Wait has returned.
func (self *ClientHandler) GetThreadElapsed() []time.Duration {
	elapsed := make([]time.Duration, 0, len(self.workers))
	for _, worker := range self.workers {
		elapsed = append(elapsed, worker.GetElapsed())
	}
	return elapsed
}
