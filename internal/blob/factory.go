package blob

import (
	"context"
	"fmt"

	"memberbook/internal/config"
	infrafs "memberbook/internal/infra/blob/fs"
	inframemory "memberbook/internal/infra/blob/memory"
	infras3 "memberbook/internal/infra/blob/s3"
)

// Open selects a Store implementation from configuration.
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		return infrafs.New(cfg.FSRoot)
	case DriverS3:
		return infras3.New(ctx, infras3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	case DriverMemory:
		return inframemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
