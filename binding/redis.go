package binding

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/hhkbp2/roadrunner"
)

const (
	PropertyRedisDatabase        = "redis.db"
	PropertyRedisDatabaseDefault = "0"
)

// RedisCluster drives a single redis node. The underlying client pools
// connections and is safe for concurrent use, so one shared client backs
// every DB handle.
type RedisCluster struct {
	*roadrunner.ClusterBase
	client *redis.Client
}

func NewRedisCluster() *RedisCluster {
	return &RedisCluster{
		ClusterBase: roadrunner.NewClusterBase(),
	}
}

func (self *RedisCluster) Connect(nodes []string) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: no redis node given", roadrunner.ErrConnection)
	}
	props := self.GetProperties()
	database, err := roadrunner.ParseIntProperty(
		props, PropertyRedisDatabase, PropertyRedisDatabaseDefault)
	if err != nil {
		return err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     nodes[0],
		Password: props.GetDefault(roadrunner.OptPassword, roadrunner.DefaultPassword),
		DB:       int(database),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return fmt.Errorf("%w: ping %s: %v", roadrunner.ErrConnection, nodes[0], err)
	}
	self.client = client
	return nil
}

func (self *RedisCluster) OpenDB() (roadrunner.DB, error) {
	if self.client == nil {
		return nil, fmt.Errorf("%w: redis cluster not connected", roadrunner.ErrConnection)
	}
	return &RedisDB{client: self.client}, nil
}

func (self *RedisCluster) Disconnect() error {
	if self.client == nil {
		return fmt.Errorf("%w: redis cluster not connected", roadrunner.ErrConnection)
	}
	err := self.client.Close()
	self.client = nil
	return err
}

type RedisDB struct {
	client *redis.Client
}

func (self *RedisDB) Init() error {
	return nil
}

func (self *RedisDB) Get(key string) (roadrunner.Binary, error) {
	value, err := self.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		// A miss is a valid read result.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return roadrunner.Binary(value), nil
}

func (self *RedisDB) Upsert(key string, value roadrunner.Binary) error {
	return self.client.Set(context.Background(), key, []byte(value), 0).Err()
}
