package roadrunner

import (
	"errors"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func testHandlerConfig() *GlobalConfig {
	return &GlobalConfig{
		Nodes:      []string{"127.0.0.1"},
		NumClients: 1,
		NumThreads: 4,
		NumDocs:    40,
		ReadRatio:  50,
		WriteRatio: 50,
		Phase:      PhaseLoad,
		Sampling:   100,
		ClassName:  "Simple",
		Store:      "basic",
	}
}

func connectedBasicCluster(t *testing.T) *BasicCluster {
	cluster := NewBasicCluster()
	cluster.SetProperties(NewProperties())
	require.Nil(t, cluster.Connect([]string{"127.0.0.1"}))
	return cluster
}

func TestClientHandlerLoadsFullRange(t *testing.T) {
	config := testHandlerConfig()
	cluster := connectedBasicCluster(t)
	handler, err := NewClientHandler(
		"ClientHandler-1", config, cluster, testDocGen(t), Range{Offset: 0, Count: 40})
	require.Nil(t, err)
	require.Equal(t, 4, len(handler.workers))

	handler.ExecuteWorkload()
	require.Nil(t, handler.Wait())
	handler.Cleanup()

	// 40 documents over 4 workers, all written exactly once.
	require.Equal(t, 40, cluster.Len())
	require.Equal(t, int64(40), handler.GetTotalOps())
	require.Equal(t, int64(40), handler.GetMeasuredOps())
	measures := handler.GetMeasures()
	require.Equal(t, 40, len(measures["Upsert"]))
	elapsed := handler.GetThreadElapsed()
	require.Equal(t, 4, len(elapsed))
	for _, e := range elapsed {
		require.True(t, e > 0)
	}
}

func TestClientHandlerWorkerPartition(t *testing.T) {
	config := testHandlerConfig()
	config.NumThreads = 3
	cluster := connectedBasicCluster(t)
	handler, err := NewClientHandler(
		"ClientHandler-1", config, cluster, testDocGen(t), Range{Offset: 10, Count: 10})
	require.Nil(t, err)
	// 10 over 3 workers: one document left uncovered.
	require.Equal(t, 3, len(handler.workers))
	require.Equal(t, Range{Offset: 10, Count: 3}, handler.workers[0].keyRange)
	require.Equal(t, Range{Offset: 13, Count: 3}, handler.workers[1].keyRange)
	require.Equal(t, Range{Offset: 16, Count: 3}, handler.workers[2].keyRange)
}

func TestClientHandlerPropagatesWorkerError(t *testing.T) {
	config := testHandlerConfig()
	config.NumThreads = 2
	config.NumDocs = 20
	cluster := connectedBasicCluster(t)
	handler, err := NewClientHandler(
		"ClientHandler-1", config, cluster, testDocGen(t), Range{Offset: 0, Count: 20})
	require.Nil(t, err)

	// Swap in a failing connection after construction.
	db := newRecordingDB()
	db.failAfter = 5
	for _, worker := range handler.workers {
		worker.db = db
	}
	handler.ExecuteWorkload()
	err = handler.Wait()
	require.NotNil(t, err)
	require.True(t, errors.Is(err, ErrOperation))
	handler.Cleanup()
}

func TestClientHandlerOpenFailure(t *testing.T) {
	config := testHandlerConfig()
	cluster := NewBasicCluster()
	cluster.SetProperties(NewProperties())
	// Not connected: OpenDB must fail and construction with it.
	_, err := NewClientHandler(
		"ClientHandler-1", config, cluster, testDocGen(t), Range{Offset: 0, Count: 40})
	require.NotNil(t, err)
	require.True(t, errors.Is(err, ErrConnection))
}

func TestClientHandlerDegenerateWorkerSplit(t *testing.T) {
	config := testHandlerConfig()
	config.NumThreads = 8
	cluster := connectedBasicCluster(t)
	_, err := NewClientHandler(
		"ClientHandler-1", config, cluster, testDocGen(t), Range{Offset: 0, Count: 5})
	require.NotNil(t, err)
	require.True(t, errors.Is(err, ErrDegeneratePartition))
}
