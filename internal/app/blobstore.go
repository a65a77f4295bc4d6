package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
)

// S3API is the slice of the S3 client used by the store. Narrowing the
// dependency to an interface keeps the adapter testable with a fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// SaveOutcome tells callers what actually happened to a write. The
// external API reports success for all three: the admin UI stays
// available even when persistence is degraded, and the distinction is
// kept visible here for logs, metrics and tests.
type SaveOutcome int

const (
	// SavePersisted means the document was written to blob storage.
	SavePersisted SaveOutcome = iota
	// SaveSkipped means no blob storage is configured; the change lives
	// only in the response and will not survive a restart.
	SaveSkipped
	// SaveFailed means blob storage is configured but the write failed.
	SaveFailed
)

func (o SaveOutcome) String() string {
	switch o {
	case SavePersisted:
		return "persisted"
	case SaveSkipped:
		return "skipped"
	case SaveFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BlobStore persists one JSON document per category in an S3-compatible
// blob service. With no bucket configured it degrades to the bundled
// seed data: reads are served from it and writes are accepted but not
// retained. Writes are full-document replacements; two concurrent
// mutations of the same category race and the last writer wins. That is
// a known property of the design, not something this layer papers over.
type BlobStore struct {
	client    S3API
	bucket    string
	prefix    string
	region    string
	publicURL string
}

// NewBlobStore builds a store from the runtime configuration. When no
// bucket is configured the returned store runs in fallback mode and
// never touches the network.
func NewBlobStore(ctx context.Context, cfg *Config) (*BlobStore, error) {
	store := &BlobStore{
		bucket:    cfg.BlobBucket,
		prefix:    cfg.BlobPrefix,
		region:    cfg.BlobRegion,
		publicURL: strings.TrimSuffix(cfg.BlobPublicURL, "/"),
	}

	if !cfg.StorageConfigured() {
		log.Printf("⚠️  No BLOB_BUCKET configured: events are served from bundled data and changes will NOT persist across restarts")
		return store, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BlobRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BlobEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BlobEndpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("✅ Blob storage enabled (bucket: %s, prefix: %s)", cfg.BlobBucket, cfg.BlobPrefix)
	return store, nil
}

// NewBlobStoreWithClient builds a store around an existing S3 client.
// Used by tests to inject a fake.
func NewBlobStoreWithClient(client S3API, bucket, prefix string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket, prefix: prefix}
}

// Configured reports whether the store writes to durable blob storage.
func (b *BlobStore) Configured() bool {
	return b.client != nil && b.bucket != ""
}

// eventsKey derives the storage key for a canonical category.
func (b *BlobStore) eventsKey(canonical string) string {
	return b.prefix + "/" + canonical + ".json"
}

// Load returns the event list for a category. Reads never surface a
// storage fault: a missing document is seeded from the bundled data, and
// any fetch or parse failure degrades to the bundled data as well. The
// only possible error is an unrecognized category.
func (b *BlobStore) Load(ctx context.Context, canonical string) ([]Event, error) {
	seed, err := SeedEvents(canonical)
	if err != nil {
		return nil, err
	}

	if !b.Configured() {
		storeLoads.WithLabelValues(canonical, loadSourceFallback).Inc()
		return seed, nil
	}

	key := b.eventsKey(canonical)

	listing, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(key),
	})
	if err != nil {
		log.Printf("Error listing blob %s: %v (serving bundled data)", key, err)
		storeLoads.WithLabelValues(canonical, loadSourceFallback).Inc()
		return seed, nil
	}

	if len(listing.Contents) == 0 {
		// First load of this category: seed the document so subsequent
		// loads and mutations all work against the same blob.
		if outcome := b.putEvents(ctx, canonical, seed); outcome != SavePersisted {
			log.Printf("Error seeding blob %s (serving bundled data)", key)
		}
		storeLoads.WithLabelValues(canonical, loadSourceSeed).Inc()
		return seed, nil
	}

	obj, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("Error fetching blob %s: %v (serving bundled data)", key, err)
		storeLoads.WithLabelValues(canonical, loadSourceFallback).Inc()
		return seed, nil
	}
	defer func() {
		if err := obj.Body.Close(); err != nil {
			log.Printf("Error closing blob body: %v", err)
		}
	}()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		log.Printf("Error reading blob %s: %v (serving bundled data)", key, err)
		storeLoads.WithLabelValues(canonical, loadSourceFallback).Inc()
		return seed, nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		log.Printf("Error parsing blob %s: %v (serving bundled data)", key, err)
		storeLoads.WithLabelValues(canonical, loadSourceFallback).Inc()
		return seed, nil
	}

	storeLoads.WithLabelValues(canonical, loadSourceBlob).Inc()
	return events, nil
}

// Save replaces the category's document with the given list. The previous
// blob is deleted best-effort first; a failed delete is not a reason to
// abort the replacement. The outcome says whether the write actually
// persisted; callers decide how much of that to surface.
func (b *BlobStore) Save(ctx context.Context, canonical string, events []Event) SaveOutcome {
	if !b.Configured() {
		storeSaves.WithLabelValues(canonical, SaveSkipped.String()).Inc()
		return SaveSkipped
	}

	key := b.eventsKey(canonical)
	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil {
		log.Printf("Warning: failed to delete old blob %s: %v", key, err)
	}

	outcome := b.putEvents(ctx, canonical, events)
	storeSaves.WithLabelValues(canonical, outcome.String()).Inc()
	return outcome
}

// putEvents uploads the list as the category's pretty-printed, publicly
// readable JSON document.
func (b *BlobStore) putEvents(ctx context.Context, canonical string, events []Event) SaveOutcome {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		log.Printf("Error encoding events for %s: %v", canonical, err)
		return SaveFailed
	}

	key := b.eventsKey(canonical)
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		log.Printf("Error uploading blob %s: %v (change not persisted)", key, err)
		return SaveFailed
	}
	return SavePersisted
}

// UploadImage stores an image for event use under the uploads prefix and
// returns its public URL. Unlike event saves this surfaces errors: the
// admin is actively waiting for a URL and there is no fallback to offer.
func (b *BlobStore) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	if !b.Configured() {
		return "", fmt.Errorf("blob storage not configured")
	}

	contentType := mimetype.Detect(data).String()
	key := fmt.Sprintf("%s/uploads/%d-%s", b.prefix, time.Now().UnixMilli(), path.Base(filename))

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", key, err)
	}
	return b.objectURL(key), nil
}

// objectURL builds the public URL for a stored object.
func (b *BlobStore) objectURL(key string) string {
	if b.publicURL != "" {
		return b.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
}
