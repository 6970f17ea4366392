package binding

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hhkbp2/roadrunner"
)

const (
	PropertyBadgerDir        = "badger.dir"
	PropertyBadgerDirDefault = "/tmp/roadrunner-badger"
	PropertyBadgerInMemory   = "badger.inmemory"
)

// BadgerCluster drives an embedded badger store. There is no remote node;
// the node list is ignored and a single DB handle is shared by every
// opened connection.
type BadgerCluster struct {
	*roadrunner.ClusterBase
	db *badger.DB
}

func NewBadgerCluster() *BadgerCluster {
	return &BadgerCluster{
		ClusterBase: roadrunner.NewClusterBase(),
	}
}

func (self *BadgerCluster) Connect(nodes []string) error {
	props := self.GetProperties()
	var options badger.Options
	if props.Get(PropertyBadgerInMemory) == "true" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := props.GetDefault(PropertyBadgerDir, PropertyBadgerDirDefault)
		options = badger.DefaultOptions(dir)
	}
	options = options.WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return fmt.Errorf("%w: open badger: %v", roadrunner.ErrConnection, err)
	}
	self.db = db
	return nil
}

func (self *BadgerCluster) OpenDB() (roadrunner.DB, error) {
	if self.db == nil {
		return nil, fmt.Errorf("%w: badger cluster not connected", roadrunner.ErrConnection)
	}
	return &BadgerDB{db: self.db}, nil
}

func (self *BadgerCluster) Disconnect() error {
	if self.db == nil {
		return fmt.Errorf("%w: badger cluster not connected", roadrunner.ErrConnection)
	}
	err := self.db.Close()
	self.db = nil
	return err
}

type BadgerDB struct {
	db *badger.DB
}

func (self *BadgerDB) Init() error {
	return nil
}

func (self *BadgerDB) Get(key string) (roadrunner.Binary, error) {
	var value []byte
	err := self.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		// A miss is a valid read result.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return roadrunner.Binary(value), nil
}

func (self *BadgerDB) Upsert(key string, value roadrunner.Binary) error {
	return self.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}
