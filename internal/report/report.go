// Package report defines the benchmark report format and its optional S3
// upload.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Report is one benchmark run's results.
type Report struct {
	StartedAt   time.Time     `json:"started_at"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Rows        int           `json:"rows"`
	Steps       int           `json:"steps"`
	Seed        int64         `json:"seed"`
	Commits     int           `json:"commits"`
	Patches     int           `json:"patches"`
	Dropped     int           `json:"dropped"`
	CacheHits   uint64        `json:"cache_hits"`
	CacheMisses uint64        `json:"cache_misses"`
	WireBytes   int           `json:"wire_bytes"`
	FibersRun   int           `json:"fibers_run"`
	Yields      int           `json:"yields"`
}

// CommitsPerSecond returns the commit throughput.
func (r *Report) CommitsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Commits) / r.Elapsed.Seconds()
}

// JSON returns the indented JSON encoding.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ErrNoCredentials is returned when the environment carries no AWS
// credentials.
var ErrNoCredentials = errors.New("report: AWS credentials not set in environment")

// envCredentials reads static credentials from the standard AWS environment
// variables. The SDK's config module would do this and much more; a bench
// uploader only needs the environment path.
type envCredentials struct{}

func (envCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, ErrNoCredentials
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// Uploader puts reports into an S3 bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewUploader creates an uploader for the given bucket and region.
// Credentials come from the environment.
func NewUploader(bucket, region, prefix string) *Uploader {
	client := s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	})
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Upload puts the report's JSON under a timestamped key and returns the key.
func (u *Uploader) Upload(ctx context.Context, r *Report) (string, error) {
	data, err := r.JSON()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%sbench-%s.json", u.prefix, r.StartedAt.UTC().Format("20060102-150405"))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("report upload failed: %w", err)
	}
	return key, nil
}
