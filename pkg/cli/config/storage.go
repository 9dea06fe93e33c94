package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/service/storage"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

// Storage holds CLI flags for the photo and audio blob store
type Storage struct {
	backend   string
	uploadDir string
	bucket    string
	prefix    string
	baseURL   string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Blob storage backend for photos and audio (local, gcs or none)",
			Category:    "Storage",
			Value:       "local",
			Destination: &x.backend,
			Sources:     cli.EnvVars("MEMORA_STORAGE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "upload-dir",
			Usage:       "Directory for uploaded files (local backend)",
			Category:    "Storage",
			Value:       "uploads",
			Destination: &x.uploadDir,
			Sources:     cli.EnvVars("MEMORA_UPLOAD_DIR"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (gcs backend)",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("MEMORA_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-object-prefix",
			Usage:       "Object name prefix, e.g. memories/",
			Category:    "Storage",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("MEMORA_GCS_OBJECT_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "gcs-base-url",
			Usage:       "Public base URL of the bucket, e.g. a CDN in front of it",
			Category:    "Storage",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("MEMORA_GCS_BASE_URL"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("upload_dir", x.uploadDir),
		slog.String("bucket", x.bucket),
	)
}

// UploadDir returns the directory the HTTP server exposes under /uploads/.
// It is empty unless the local backend is selected.
func (x *Storage) UploadDir() string {
	if x.backend != "local" {
		return ""
	}
	return x.uploadDir
}

// Configure returns the blob store and a function releasing it. A nil store
// means uploads are disabled.
func (x *Storage) Configure(ctx context.Context) (interfaces.BlobStorage, func(), error) {
	nop := func() {}

	switch x.backend {
	case "local":
		local, err := storage.NewLocal(x.uploadDir)
		if err != nil {
			return nil, nop, err
		}
		logging.Default().Info("Using local blob storage", "dir", local.Dir())
		return local, nop, nil

	case "gcs":
		if x.bucket == "" {
			return nil, nop, goerr.Wrap(ErrMissingFlag, "gcs-bucket is required when using gcs backend",
				goerr.V(FlagKey, "gcs-bucket"))
		}
		var opts []storage.GCSOption
		if x.prefix != "" {
			opts = append(opts, storage.WithObjectPrefix(x.prefix))
		}
		if x.baseURL != "" {
			opts = append(opts, storage.WithBaseURL(x.baseURL))
		}
		gcs, err := storage.NewGCS(ctx, x.bucket, opts...)
		if err != nil {
			return nil, nop, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logging.Default().Info("Using Cloud Storage", "bucket", x.bucket, "prefix", x.prefix)
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Warn("failed to close storage client", "error", err)
			}
		}, nil

	case "none", "":
		logging.Default().Warn("Blob storage disabled, photo and audio uploads are rejected")
		return nil, nop, nil

	default:
		return nil, nop, goerr.Wrap(ErrInvalidConfig, "invalid storage backend", goerr.V("backend", x.backend))
	}
}
