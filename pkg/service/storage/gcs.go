package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sony/gobreaker"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

// GCS stores blobs in a Google Cloud Storage bucket. Every call goes
// through a circuit breaker so that an unavailable bucket fails uploads
// fast instead of holding request goroutines.
type GCS struct {
	client  *storage.Client
	bucket  string
	prefix  string
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

var _ interfaces.BlobStorage = &GCS{}

type GCSOption func(*GCS)

// WithObjectPrefix stores objects under prefix, e.g. "memories/"
func WithObjectPrefix(prefix string) GCSOption {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

// WithBaseURL overrides the public URL of the bucket
func WithBaseURL(baseURL string) GCSOption {
	return func(g *GCS) {
		g.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewGCS connects to bucket with application default credentials
func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client:  client,
		bucket:  bucket,
		baseURL: "https://storage.googleapis.com/" + bucket,
		breaker: NewBreaker("gcs:" + bucket),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewBreaker returns the circuit breaker settings used for blob backends:
// it opens after 5 requests with a failure ratio of 80% or more and probes
// again after a minute.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Default().Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

func (g *GCS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	objectName := g.prefix + name

	_, err := g.breaker.Execute(func() (any, error) {
		w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
		w.ContentType = contentType

		if _, err := io.Copy(w, r); err != nil {
			_ = w.Close()
			return nil, err
		}
		return nil, w.Close()
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", objectName))
	}

	return g.baseURL + "/" + objectName, nil
}

func (g *GCS) Delete(ctx context.Context, url string) error {
	objectName, ok := strings.CutPrefix(url, g.baseURL+"/")
	if !ok || objectName == "" {
		return nil
	}

	_, err := g.breaker.Execute(func() (any, error) {
		err := g.client.Bucket(g.bucket).Object(objectName).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", objectName))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
