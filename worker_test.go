package roadrunner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/hhkbp2/testify/require"
)

// recordingDB counts operations per key and can be told to fail after a
// fixed number of calls.
type recordingDB struct {
	lock      sync.Mutex
	gets      map[string]int
	upserts   map[string]int
	calls     int
	failAfter int
}

func newRecordingDB() *recordingDB {
	return &recordingDB{
		gets:      make(map[string]int),
		upserts:   make(map[string]int),
		failAfter: -1,
	}
}

func (self *recordingDB) Init() error {
	return nil
}

func (self *recordingDB) call() error {
	self.calls++
	if self.failAfter >= 0 && self.calls > self.failAfter {
		return fmt.Errorf("simulated failure on call %d", self.calls)
	}
	return nil
}

func (self *recordingDB) Get(key string) (Binary, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if err := self.call(); err != nil {
		return nil, err
	}
	self.gets[key]++
	return nil, nil
}

func (self *recordingDB) Upsert(key string, value Binary) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	if err := self.call(); err != nil {
		return err
	}
	self.upserts[key]++
	return nil
}

func testWorkerConfig(phase Phase) *GlobalConfig {
	return &GlobalConfig{
		Nodes:      []string{"127.0.0.1"},
		NumClients: 1,
		NumThreads: 1,
		NumDocs:    10,
		ReadRatio:  50,
		WriteRatio: 50,
		Phase:      phase,
		Sampling:   100,
		ClassName:  "Simple",
	}
}

func testDocGen(t *testing.T) DocumentGenerator {
	docGen, err := NewSimpleDocumentGenerator(Properties{PropertyDocumentSize: "16"})
	require.Nil(t, err)
	return docGen
}

func TestWorkerLoadPhaseCoversRangeOnce(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseLoad)
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 5, Count: 10})
	require.Nil(t, worker.Run())

	require.Equal(t, 0, len(db.gets))
	require.Equal(t, 10, len(db.upserts))
	for n := int64(5); n < 15; n++ {
		require.Equal(t, 1, db.upserts[fmt.Sprintf("doc::%d", n)])
	}
	require.Equal(t, int64(10), worker.GetTotalOps())
	require.Equal(t, int64(10), worker.GetMeasuredOps())
	measures := worker.GetMeasures()
	require.Equal(t, 1, len(measures))
	require.Equal(t, 10, len(measures["Upsert"]))
}

func TestWorkerRunPhaseKeysWithinRange(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseRun)
	config.NumDocs = 50
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 100, Count: 50})
	require.Nil(t, worker.Run())
	require.Equal(t, int64(50), worker.GetTotalOps())

	seen := make(map[string]int)
	for key, n := range db.gets {
		seen[key] += n
	}
	for key, n := range db.upserts {
		seen[key] += n
	}
	var attempts int
	for key, n := range seen {
		number, err := strconv.ParseInt(strings.TrimPrefix(key, "doc::"), 10, 64)
		require.Nil(t, err)
		require.True(t, number >= 100 && number < 150, "key %s out of range", key)
		attempts += n
	}
	require.Equal(t, 50, attempts)
}

func TestWorkerSamplingDisabled(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseLoad)
	config.Sampling = 0
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 0, Count: 10})
	require.Nil(t, worker.Run())
	require.Equal(t, int64(10), worker.GetTotalOps())
	require.Equal(t, int64(0), worker.GetMeasuredOps())
	require.Equal(t, 0, len(worker.GetMeasures()))
}

func TestWorkerRampExcludesSamples(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseLoad)
	config.Ramp = 3600
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 0, Count: 10})
	require.Nil(t, worker.Run())
	require.Equal(t, int64(10), worker.GetTotalOps())
	require.Equal(t, int64(0), worker.GetMeasuredOps())
}

func TestWorkerMeasuredNeverExceedsTotal(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseRun)
	config.Sampling = 37
	config.NumDocs = 200
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 0, Count: 200})
	require.Nil(t, worker.Run())
	require.Equal(t, int64(200), worker.GetTotalOps())
	require.True(t, worker.GetMeasuredOps() <= worker.GetTotalOps())
	var samples int64
	for _, s := range worker.GetMeasures() {
		samples += int64(len(s))
	}
	require.Equal(t, worker.GetMeasuredOps(), samples)
}

func TestWorkerAbortsOnFirstFailure(t *testing.T) {
	db := newRecordingDB()
	db.failAfter = 3
	config := testWorkerConfig(PhaseLoad)
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 0, Count: 10})
	err := worker.Run()
	require.NotNil(t, err)
	require.True(t, errors.Is(err, ErrOperation))
	// The failed attempt still counts toward the total.
	require.Equal(t, int64(4), worker.GetTotalOps())
	require.True(t, worker.GetElapsed() > 0)
}

func TestWorkerElapsedRecorded(t *testing.T) {
	db := newRecordingDB()
	config := testWorkerConfig(PhaseLoad)
	worker := NewWorker("w", config, db, testDocGen(t), Range{Offset: 0, Count: 5})
	require.Nil(t, worker.Run())
	require.True(t, worker.GetElapsed() > 0)
}
