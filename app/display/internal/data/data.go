package data

import (
	"database/sql"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/storage"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/conf"
)

// Data 持有进程内唯一的连接池，仓库与批处理引擎共用
type Data struct {
	store *storage.Storage
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	driver := c.Database.Driver
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}

	maxOpen, maxIdle := c.Database.MaxOpenConns, c.Database.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	if maxIdle <= 0 {
		maxIdle = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return &Data{store: storage.NewWithDB(db)}, cleanup, nil
}

// Store 共享的存储层
func (d *Data) Store() *storage.Storage {
	return d.store
}
