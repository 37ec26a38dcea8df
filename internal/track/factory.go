package track

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/feedworks/stockpipe/internal/objectstore"
)

type FactoryConfig struct {
	Backend  string
	Bucket   string
	MySQLDSN string

	// Objects backs the s3 backend. Injected so the pipeline and the tracker
	// share one client.
	Objects objectstore.Store
}

type FactoryResult struct {
	Store BlobStore
	DB    *sql.DB // only set for mysql
}

func NewBlobStore(ctx context.Context, cfg FactoryConfig) (FactoryResult, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "memory"
	}

	switch backend {
	case "memory":
		return FactoryResult{Store: NewMemoryBlobStore()}, nil

	case "s3":
		if strings.TrimSpace(cfg.Bucket) == "" {
			return FactoryResult{}, errors.New("TRACKING_BUCKET is required when TRACKING_BACKEND=s3")
		}
		if cfg.Objects == nil {
			return FactoryResult{}, errors.New("object store is required when TRACKING_BACKEND=s3")
		}
		return FactoryResult{Store: ObjectBlobStore{Objects: cfg.Objects, Bucket: cfg.Bucket}}, nil

	case "mysql":
		if strings.TrimSpace(cfg.MySQLDSN) == "" {
			return FactoryResult{}, errors.New("DB_DSN is required when TRACKING_BACKEND=mysql")
		}

		sqlDB, err := OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return FactoryResult{}, err
		}

		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(c); err != nil {
			_ = sqlDB.Close()
			return FactoryResult{}, err
		}

		return FactoryResult{
			Store: NewMySQLBlobStore(sqlDB),
			DB:    sqlDB,
		}, nil

	default:
		return FactoryResult{}, errors.New("unknown TRACKING_BACKEND (use memory, s3 or mysql)")
	}
}
