package binding

import (
	"github.com/hhkbp2/roadrunner"
)

// AddBindings registers every store binding in this package. Called once
// from the command entry point before argument parsing.
func AddBindings() {
	roadrunner.AddCluster("redis", func() roadrunner.Cluster {
		return NewRedisCluster()
	})
	roadrunner.AddCluster("badger", func() roadrunner.Cluster {
		return NewBadgerCluster()
	})
	roadrunner.AddCluster("mysql", func() roadrunner.Cluster {
		return NewMysqlCluster()
	})
}
