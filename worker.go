package roadrunner

import (
	"fmt"
	"sync/atomic"
	"time"

	g "github.com/hhkbp2/roadrunner/generator"
)

// Worker executes one thread's share of the workload: its assigned
// keyspace range, one attempted operation per key slot. Counters are
// atomics because the dispatcher's progress ticker reads them while the
// worker is running; the sample map is worker-exclusive until the worker
// has finished and is only then read by the owning handler.
type Worker struct {
	name     string
	config   *GlobalConfig
	db       DB
	docGen   DocumentGenerator
	chooser  *OperationChooser
	keyRange Range

	keyChooser    g.IntegerGenerator
	thinkChooser  g.IntegerGenerator
	sampleChooser g.IntegerGenerator

	totalOps    int64
	measuredOps int64
	measures    map[string][]time.Duration
	elapsed     time.Duration
}

// NewWorker wires a worker to its handler's connection and range. In the
// load phase keys are drawn sequentially so that every key in the range
// is written exactly once; in the run phase they are drawn uniformly.
func NewWorker(name string, config *GlobalConfig, db DB,
	docGen DocumentGenerator, keyRange Range) *Worker {

	var keyChooser g.IntegerGenerator
	if config.Phase == PhaseLoad {
		keyChooser = g.NewCounterGenerator(keyRange.Offset)
	} else {
		keyChooser = g.NewUniformIntegerGenerator(
			keyRange.Offset, keyRange.Offset+keyRange.Count-1)
	}
	var thinkChooser g.IntegerGenerator
	if config.MaxThinkTime > 0 {
		if config.MinThinkTime == config.MaxThinkTime {
			thinkChooser = g.NewConstantIntegerGenerator(config.MaxThinkTime)
		} else {
			thinkChooser = g.NewUniformIntegerGenerator(
				config.MinThinkTime, config.MaxThinkTime)
		}
	}
	return &Worker{
		name:          name,
		config:        config,
		db:            db,
		docGen:        docGen,
		chooser:       NewOperationChooser(config.Phase, config.ReadRatio, config.WriteRatio),
		keyRange:      keyRange,
		keyChooser:    keyChooser,
		thinkChooser:  thinkChooser,
		sampleChooser: g.NewUniformIntegerGenerator(1, 100),
		measures:      make(map[string][]time.Duration),
	}
}

func buildKeyName(keyNumber int64) string {
	return fmt.Sprintf("doc::%d", keyNumber)
}

// Run performs the worker's assigned count of operation attempts and
// returns the first store-call failure, if any. It is called exactly once.
func (self *Worker) Run() error {
	start := time.Now()
	rampEnd := start.Add(time.Duration(SecondToNanosecond(self.config.Ramp)))
	defer func() {
		self.elapsed = time.Since(start)
	}()

	for i := int64(0); i < self.keyRange.Count; i++ {
		key := buildKeyName(self.keyChooser.NextInt())
		op := self.chooser.Next()

		opStart := time.Now()
		var err error
		switch op {
		case OpUpsert:
			err = self.db.Upsert(key, self.docGen.ValueFor(key))
		default:
			_, err = self.db.Get(key)
		}
		latency := time.Since(opStart)

		atomic.AddInt64(&self.totalOps, 1)
		if err != nil {
			return fmt.Errorf("%w: %s: %s %s: %v",
				ErrOperation, self.name, op, key, err)
		}
		// Operations started inside the ramp window count toward totals
		// but never contribute a latency sample.
		if !opStart.Before(rampEnd) && self.sampled() {
			label := self.docGen.LabelFor(op)
			self.measures[label] = append(self.measures[label], latency)
			atomic.AddInt64(&self.measuredOps, 1)
		}
		self.think()
	}
	return nil
}

func (self *Worker) sampled() bool {
	if self.config.Sampling <= 0 {
		return false
	}
	if self.config.Sampling >= 100 {
		return true
	}
	return self.sampleChooser.NextInt() <= self.config.Sampling
}

func (self *Worker) think() {
	if self.thinkChooser != nil {
		time.Sleep(time.Duration(MillisecondToNanosecond(self.thinkChooser.NextInt())))
	}
}

func (self *Worker) GetTotalOps() int64 {
	return atomic.LoadInt64(&self.totalOps)
}

func (self *Worker) GetMeasuredOps() int64 {
	return atomic.LoadInt64(&self.measuredOps)
}

// GetMeasures returns the worker's sample sequences by label. Valid only
// after Run has returned.
func (self *Worker) GetMeasures() map[string][]time.Duration {
	return self.measures
}

// GetElapsed returns the worker's total wall-clock run time. Valid only
// after Run has returned.
func (self *Worker) GetElapsed() time.Duration {
	return self.elapsed
}
