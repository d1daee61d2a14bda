package storage

import (
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"datagov/internal/platform/config"
)

// clientPool caches one object-storage client per physical region so repeated
// uploads to the same region reuse a client instead of re-initializing per
// call. Lookups and inserts race freely across requests; LoadOrStore keeps
// initialization idempotent (first writer wins) without a global lock.
type clientPool struct {
	cfg     config.Storage
	clients sync.Map // physical region -> *minio.Client
}

func newClientPool(cfg config.Storage) *clientPool {
	return &clientPool{cfg: cfg}
}

func (p *clientPool) Get(physicalRegion string) (*minio.Client, error) {
	if c, ok := p.clients.Load(physicalRegion); ok {
		return c.(*minio.Client), nil
	}
	client, err := minio.New(p.cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(p.cfg.S3AccessKey, p.cfg.S3SecretKey, ""),
		Secure: p.cfg.S3UseSSL,
		Region: physicalRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client for region %s: %w", physicalRegion, err)
	}
	actual, _ := p.clients.LoadOrStore(physicalRegion, client)
	return actual.(*minio.Client), nil
}
