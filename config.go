package roadrunner

import (
	"fmt"
)

// Recognized option names. These mirror the command line surface: every
// option can be given as "-p name=value" or through a property file.
const (
	OptNodes        = "nodes"
	OptBucket       = "bucket"
	OptPassword     = "password"
	OptNumThreads   = "num-threads"
	OptNumClients   = "num-clients"
	OptNumDocs      = "num-docs"
	OptReadRatio    = "read-ratio"
	OptWriteRatio   = "write-ratio"
	OptPhase        = "phase"
	OptRamp         = "ramp"
	OptBatchSize    = "batch-size"
	OptSampling     = "sampling"
	OptClassName    = "class"
	OptMinThinkTime = "min-thinktime"
	OptMaxThinkTime = "max-thinktime"
	OptStore        = "store"
	OptLogLevel     = "log-level"
)

const (
	DefaultNodes        = "127.0.0.1"
	DefaultBucket       = "default"
	DefaultPassword     = ""
	DefaultNumThreads   = "1"
	DefaultNumClients   = "1"
	DefaultNumDocs      = "1000"
	DefaultReadRatio    = "50"
	DefaultWriteRatio   = "50"
	DefaultSampling     = "100"
	DefaultPhase        = "run"
	DefaultRamp         = "0"
	DefaultClass        = "Simple"
	DefaultMinThinkTime = "1"
	DefaultMaxThinkTime = "1000"
	DefaultBatchSize    = "2"
	DefaultStore        = "basic"
	DefaultLogLevel     = "info"
)

type Phase string

const (
	// PhaseLoad pre-populates the keyspace with write-only traffic.
	PhaseLoad Phase = "load"
	// PhaseRun drives ratio-mixed read/write traffic.
	PhaseRun Phase = "run"
)

// GlobalConfig is the immutable run configuration shared by all handlers
// and workers. It is fully validated at construction; no component reads
// raw properties after this point.
type GlobalConfig struct {
	Nodes        []string
	Bucket       string
	Password     string
	NumThreads   int64
	NumClients   int64
	NumDocs      int64
	ReadRatio    int64
	WriteRatio   int64
	Phase        Phase
	Ramp         int64
	BatchSize    int64
	Sampling     int64
	ClassName    string
	MinThinkTime int64
	MaxThinkTime int64
	Store        string
}

func parseIntOption(p Properties, name, defaultValue string) (int64, error) {
	return ParseIntProperty(p, name, defaultValue)
}

// NewGlobalConfig parses and validates the run configuration.
func NewGlobalConfig(p Properties) (*GlobalConfig, error) {
	config := &GlobalConfig{
		Nodes:     SplitNodes(p.GetDefault(OptNodes, DefaultNodes)),
		Bucket:    p.GetDefault(OptBucket, DefaultBucket),
		Password:  p.GetDefault(OptPassword, DefaultPassword),
		ClassName: p.GetDefault(OptClassName, DefaultClass),
		Store:     p.GetDefault(OptStore, DefaultStore),
	}
	var err error
	if config.NumThreads, err = parseIntOption(p, OptNumThreads, DefaultNumThreads); err != nil {
		return nil, err
	}
	if config.NumClients, err = parseIntOption(p, OptNumClients, DefaultNumClients); err != nil {
		return nil, err
	}
	if config.NumDocs, err = parseIntOption(p, OptNumDocs, DefaultNumDocs); err != nil {
		return nil, err
	}
	if config.ReadRatio, err = parseIntOption(p, OptReadRatio, DefaultReadRatio); err != nil {
		return nil, err
	}
	if config.WriteRatio, err = parseIntOption(p, OptWriteRatio, DefaultWriteRatio); err != nil {
		return nil, err
	}
	if config.Ramp, err = parseIntOption(p, OptRamp, DefaultRamp); err != nil {
		return nil, err
	}
	if config.BatchSize, err = parseIntOption(p, OptBatchSize, DefaultBatchSize); err != nil {
		return nil, err
	}
	if config.Sampling, err = parseIntOption(p, OptSampling, DefaultSampling); err != nil {
		return nil, err
	}
	if config.MinThinkTime, err = parseIntOption(p, OptMinThinkTime, DefaultMinThinkTime); err != nil {
		return nil, err
	}
	if config.MaxThinkTime, err = parseIntOption(p, OptMaxThinkTime, DefaultMaxThinkTime); err != nil {
		return nil, err
	}

	phase := p.GetDefault(OptPhase, DefaultPhase)
	switch Phase(phase) {
	case PhaseLoad, PhaseRun:
		config.Phase = Phase(phase)
	default:
		return nil, fmt.Errorf("%w: option %s: must be %q or %q, got %q",
			ErrConfig, OptPhase, PhaseLoad, PhaseRun, phase)
	}

	if len(config.Nodes) == 0 {
		return nil, fmt.Errorf("%w: option %s: empty node list", ErrConfig, OptNodes)
	}
	if config.NumThreads < 1 {
		return nil, fmt.Errorf("%w: option %s: must be >= 1", ErrConfig, OptNumThreads)
	}
	if config.NumClients < 1 {
		return nil, fmt.Errorf("%w: option %s: must be >= 1", ErrConfig, OptNumClients)
	}
	if config.NumDocs < 1 {
		return nil, fmt.Errorf("%w: option %s: must be >= 1", ErrConfig, OptNumDocs)
	}
	if config.ReadRatio < 0 || config.WriteRatio < 0 {
		return nil, fmt.Errorf("%w: ratios must not be negative", ErrConfig)
	}
	if config.Phase == PhaseRun && config.ReadRatio+config.WriteRatio == 0 {
		return nil, fmt.Errorf("%w: %s and %s must not both be 0",
			ErrConfig, OptReadRatio, OptWriteRatio)
	}
	if config.Sampling < 0 || config.Sampling > 100 {
		return nil, fmt.Errorf("%w: option %s: must be within [0, 100]",
			ErrConfig, OptSampling)
	}
	if config.Ramp < 0 {
		return nil, fmt.Errorf("%w: option %s: must not be negative", ErrConfig, OptRamp)
	}
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("%w: option %s: must be >= 1", ErrConfig, OptBatchSize)
	}
	if config.MinThinkTime < 0 || config.MaxThinkTime < 0 {
		return nil, fmt.Errorf("%w: think time must not be negative", ErrConfig)
	}
	if config.MaxThinkTime > 0 && config.MinThinkTime > config.MaxThinkTime {
		return nil, fmt.Errorf("%w: %s exceeds %s",
			ErrConfig, OptMinThinkTime, OptMaxThinkTime)
	}
	// The partitioner needs at least one document per worker slot.
	if config.NumDocs < config.NumClients*config.NumThreads {
		return nil, fmt.Errorf("%w: %s=%d is less than %d client x thread slots",
			ErrDegeneratePartition, OptNumDocs, config.NumDocs,
			config.NumClients*config.NumThreads)
	}
	return config, nil
}

func (self *GlobalConfig) String() string {
	return fmt.Sprintf("GlobalConfig{nodes=%v, bucket=%s, numClients=%d, "+
		"numThreads=%d, numDocs=%d, readRatio=%d, writeRatio=%d, phase=%s, "+
		"ramp=%ds, batchSize=%d, sampling=%d%%, class=%s, thinktime=[%d,%d]ms, store=%s}",
		self.Nodes, self.Bucket, self.NumClients, self.NumThreads, self.NumDocs,
		self.ReadRatio, self.WriteRatio, self.Phase, self.Ramp, self.BatchSize,
		self.Sampling, self.ClassName, self.MinThinkTime, self.MaxThinkTime,
		self.Store)
}
