package binding

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hhkbp2/roadrunner"
)

const (
	PropertyMysqlUser           = "mysql.user"
	PropertyMysqlUserDefault    = "user"
	PropertyMysqlOptions        = "mysql.options"
	PropertyMysqlOptionsDefault = "charset=utf8"
)

// MysqlCluster drives a mysql server. Documents live in one two-column
// table named after the bucket; database/sql pools connections underneath,
// so one handle is shared by every opened DB.
type MysqlCluster struct {
	*roadrunner.ClusterBase
	db    *sql.DB
	table string
}

func NewMysqlCluster() *MysqlCluster {
	return &MysqlCluster{
		ClusterBase: roadrunner.NewClusterBase(),
	}
}

func (self *MysqlCluster) Connect(nodes []string) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: no mysql node given", roadrunner.ErrConnection)
	}
	props := self.GetProperties()
	user := props.GetDefault(PropertyMysqlUser, PropertyMysqlUserDefault)
	password := props.GetDefault(roadrunner.OptPassword, roadrunner.DefaultPassword)
	database := props.GetDefault(roadrunner.OptBucket, roadrunner.DefaultBucket)
	options := props.GetDefault(PropertyMysqlOptions, PropertyMysqlOptionsDefault)
	sourceName := fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		user, password, nodes[0], database, options)
	db, err := sql.Open("mysql", sourceName)
	if err != nil {
		return fmt.Errorf("%w: open mysql: %v", roadrunner.ErrConnection, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("%w: ping %s: %v", roadrunner.ErrConnection, nodes[0], err)
	}
	self.db = db
	self.table = "documents"
	createStat := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (doc_key VARCHAR(255) PRIMARY KEY, doc_value BLOB)",
		self.table)
	if _, err := db.Exec(createStat); err != nil {
		db.Close()
		return fmt.Errorf("%w: create table %s: %v",
			roadrunner.ErrConnection, self.table, err)
	}
	return nil
}

func (self *MysqlCluster) OpenDB() (roadrunner.DB, error) {
	if self.db == nil {
		return nil, fmt.Errorf("%w: mysql cluster not connected", roadrunner.ErrConnection)
	}
	return &MysqlDB{db: self.db, table: self.table}, nil
}

func (self *MysqlCluster) Disconnect() error {
	if self.db == nil {
		return fmt.Errorf("%w: mysql cluster not connected", roadrunner.ErrConnection)
	}
	err := self.db.Close()
	self.db = nil
	return err
}

type MysqlDB struct {
	db    *sql.DB
	table string
}

func (self *MysqlDB) Init() error {
	return nil
}

func (self *MysqlDB) Get(key string) (roadrunner.Binary, error) {
	statement := fmt.Sprintf(
		"SELECT doc_value FROM %s WHERE doc_key = ?", self.table)
	var value []byte
	err := self.db.QueryRow(statement, key).Scan(&value)
	if err == sql.ErrNoRows {
		// A miss is a valid read result.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return roadrunner.Binary(value), nil
}

func (self *MysqlDB) Upsert(key string, value roadrunner.Binary) error {
	statement := fmt.Sprintf(
		"INSERT INTO %s (doc_key, doc_value) VALUES (?, ?) "+
			"ON DUPLICATE KEY UPDATE doc_value = VALUES(doc_value)", self.table)
	_, err := self.db.Exec(statement, key, []byte(value))
	return err
}
