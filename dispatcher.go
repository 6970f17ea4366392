package roadrunner

import (
	"fmt"
	"time"
)

// WorkloadDispatcher owns the shared cluster handle and the full set of
// ClientHandlers. Lifecycle: NewWorkloadDispatcher, Init (handlers built,
// all-or-nothing), DispatchWorkload (workers run to completion, cluster
// released), PrepareMeasures (measures merged), then the read accessors.
type WorkloadDispatcher struct {
	config   *GlobalConfig
	cluster  Cluster
	docGen   DocumentGenerator
	handlers []*ClientHandler

	mergedMeasures map[string][]time.Duration
}

func NewWorkloadDispatcher(config *GlobalConfig, props Properties) (*WorkloadDispatcher, error) {
	cluster, err := NewCluster(config.Store, props)
	if err != nil {
		return nil, err
	}
	docGen, err := NewDocumentGenerator(config.ClassName, props)
	if err != nil {
		return nil, err
	}
	return &WorkloadDispatcher{
		config:         config,
		cluster:        cluster,
		docGen:         docGen,
		mergedMeasures: make(map[string][]time.Duration),
	}, nil
}

// Init connects the shared cluster handle, partitions the keyspace and
// builds one ClientHandler per client slot. If anything fails the cluster
// is disconnected and the error propagated; no partial state survives.
func (self *WorkloadDispatcher) Init() error {
	if err := self.cluster.Connect(self.config.Nodes); err != nil {
		return fmt.Errorf("%w: connect %v: %v", ErrConnection, self.config.Nodes, err)
	}
	ranges, err := Partition(self.config.NumDocs, self.config.NumClients)
	if err != nil {
		self.cluster.Disconnect()
		return err
	}
	handlers := make([]*ClientHandler, 0, self.config.NumClients)
	for i, r := range ranges {
		handler, err := NewClientHandler(
			fmt.Sprintf("ClientHandler-%d", i+1),
			self.config, self.cluster, self.docGen, r)
		if err != nil {
			self.cluster.Disconnect()
			return err
		}
		Debugf("%s: range offset=%d count=%d", handler.name, r.Offset, r.Count)
		handlers = append(handlers, handler)
	}
	self.handlers = handlers
	return nil
}

// DispatchWorkload starts every handler's workload, waits for all workers
// to finish, cleans the handlers up and releases the cluster handle. The
// release runs on every exit path. The first worker error, if any,
// aborts the run and is propagated after cleanup.
//
// Completion is a join on the worker pool, not a counter comparison, so a
// totalOps overshoot within a poll interval cannot hang the run; the
// one-second pulse only reports progress.
func (self *WorkloadDispatcher) DispatchWorkload() (err error) {
	defer func() {
		if derr := self.cluster.Disconnect(); derr != nil && err == nil {
			err = fmt.Errorf("%w: disconnect: %v", ErrConnection, derr)
		}
	}()

	for _, handler := range self.handlers {
		handler.ExecuteWorkload()
	}

	progressDone := make(chan struct{})
	go self.reportProgress(progressDone)

	for _, handler := range self.handlers {
		if werr := handler.Wait(); werr != nil && err == nil {
			err = werr
		}
	}
	close(progressDone)

	for _, handler := range self.handlers {
		handler.Cleanup()
	}
	return err
}

func (self *WorkloadDispatcher) reportProgress(done chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			Infof("progress: %d/%d ops", self.GetTotalOps(), self.config.NumDocs)
		}
	}
}

// PrepareMeasures merges every handler's measurement map into one global
// map. The merge is a multiset union per label: no sample is dropped or
// duplicated. Called once, after DispatchWorkload has returned.
func (self *WorkloadDispatcher) PrepareMeasures() {
	for _, handler := range self.handlers {
		for label, samples := range handler.GetMeasures() {
			self.mergedMeasures[label] = append(self.mergedMeasures[label], samples...)
		}
	}
}

func (self *WorkloadDispatcher) GetMeasures() map[string][]time.Duration {
	return self.mergedMeasures
}

func (self *WorkloadDispatcher) GetTotalOps() int64 {
	var total int64
	for _, handler := range self.handlers {
		total += handler.GetTotalOps()
	}
	return total
}

func (self *WorkloadDispatcher) GetMeasuredOps() int64 {
	var measured int64
	for _, handler := range self.handlers {
		measured += handler.GetMeasuredOps()
	}
	return measured
}

func (self *WorkloadDispatcher) GetThreadElapsed() []time.Duration {
	elapsed := make([]time.Duration, 0, self.config.NumClients*self.config.NumThreads)
	for _, handler := range self.handlers {
		elapsed = append(elapsed, handler.GetThreadElapsed()...)
	}
	return elapsed
}
