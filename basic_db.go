package roadrunner

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	g "github.com/hhkbp2/roadrunner/generator"
)

const (
	ConfigBasicVerbose               = "basic.verbose"
	ConfigBasicVerboseDefault        = "false"
	ConfigBasicSimulateDelay         = "basic.simulatedelay"
	ConfigBasicSimulateDelayDefault  = "0"
	ConfigBasicRandomizeDelay        = "basic.randomizedelay"
	ConfigBasicRandomizeDelayDefault = "true"
)

// BasicCluster is an in-process store used for dry runs and tests. All
// connections opened from it share one map guarded by a RWMutex, so a
// load phase through one handler is visible to every other handler.
type BasicCluster struct {
	*ClusterBase
	lock      sync.RWMutex
	documents map[string]Binary
	opened    []*BasicDB
	connected bool
}

func NewBasicCluster() *BasicCluster {
	return &BasicCluster{
		ClusterBase: NewClusterBase(),
		documents:   make(map[string]Binary),
	}
}

func (self *BasicCluster) Connect(nodes []string) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: empty node list", ErrConnection)
	}
	self.connected = true
	return nil
}

func (self *BasicCluster) OpenDB() (DB, error) {
	if !self.connected {
		return nil, fmt.Errorf("%w: basic cluster is not connected", ErrConnection)
	}
	props := self.GetProperties()
	verbose, err := strconv.ParseBool(
		props.GetDefault(ConfigBasicVerbose, ConfigBasicVerboseDefault))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, ConfigBasicVerbose)
	}
	toDelay, err := strconv.ParseInt(
		props.GetDefault(ConfigBasicSimulateDelay, ConfigBasicSimulateDelayDefault), 0, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, ConfigBasicSimulateDelay)
	}
	randomizeDelay, err := strconv.ParseBool(
		props.GetDefault(ConfigBasicRandomizeDelay, ConfigBasicRandomizeDelayDefault))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, ConfigBasicRandomizeDelay)
	}
	db := &BasicDB{
		cluster:        self,
		verbose:        verbose,
		toDelay:        toDelay,
		randomizeDelay: randomizeDelay,
	}
	self.lock.Lock()
	self.opened = append(self.opened, db)
	self.lock.Unlock()
	return db, nil
}

func (self *BasicCluster) Disconnect() error {
	self.lock.Lock()
	defer self.lock.Unlock()
	if !self.connected {
		return fmt.Errorf("%w: disconnect on unconnected basic cluster", ErrConnection)
	}
	self.connected = false
	self.opened = nil
	return nil
}

// Len reports the number of stored documents.
func (self *BasicCluster) Len() int {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return len(self.documents)
}

// BasicDB is one connection to a BasicCluster. It can simulate a slow
// store with a fixed or randomized per-operation delay.
type BasicDB struct {
	cluster        *BasicCluster
	verbose        bool
	toDelay        int64
	randomizeDelay bool
}

func (self *BasicDB) delay() {
	if self.toDelay > 0 {
		millis := self.toDelay
		if self.randomizeDelay {
			millis = g.NextInt64(self.toDelay)
			if millis == 0 {
				return
			}
		}
		time.Sleep(time.Duration(MillisecondToNanosecond(millis)))
	}
}

func (self *BasicDB) Init() error {
	if self.verbose {
		OutputProperties(self.cluster.GetProperties())
	}
	return nil
}

func (self *BasicDB) Get(key string) (Binary, error) {
	self.delay()
	if self.verbose {
		Verbosef("GET %s", key)
	}
	self.cluster.lock.RLock()
	value := self.cluster.documents[key]
	self.cluster.lock.RUnlock()
	// A miss is a valid read result, not an operation failure.
	return value, nil
}

func (self *BasicDB) Upsert(key string, value Binary) error {
	self.delay()
	if self.verbose {
		Verbosef("UPSERT %s (%d bytes)", key, len(value))
	}
	self.cluster.lock.Lock()
	self.cluster.documents[key] = value
	self.cluster.lock.Unlock()
	return nil
}
