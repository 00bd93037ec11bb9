package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/ingestion"
)

// errPrecondition is returned by a blob write that lost a race.
var errPrecondition = errors.New("object changed since read")

// blob is the minimal object API the GCS store needs.
type blob interface {
	// read returns the object body and its generation. A missing object
	// yields a nil body and generation 0.
	read(ctx context.Context) ([]byte, int64, error)
	// write replaces the object if its generation still matches.
	write(ctx context.Context, data []byte, generation int64) error
	ping(ctx context.Context) error
}

// GCSStore keeps the log as a CSV object in a Cloud Storage bucket.
type GCSStore struct {
	obj     blob
	retries int
}

// NewGCSStore returns a store for gs://bucket/object.
func NewGCSStore(client *gcs.Client, bucket, object string) *GCSStore {
	return &GCSStore{obj: &gcsObject{bucket: client.Bucket(bucket), name: object}, retries: 3}
}

// Load downloads and validates the CSV log. A missing object is an empty log.
func (s *GCSStore) Load(ctx context.Context) ([]models.TradeLogEntry, error) {
	b, _, err := s.obj.read(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return ingestion.DecodeTradeLog(ctx, bytes.NewReader(b))
}

// Append is a read-modify-write guarded by the object generation, retried
// when another writer got there first.
func (s *GCSStore) Append(ctx context.Context, e models.TradeLogEntry) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		var (
			body []byte
			gen  int64
		)
		body, gen, err = s.obj.read(ctx)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if len(bytes.TrimSpace(body)) == 0 {
			err = ingestion.EncodeTradeLog(&buf, []models.TradeLogEntry{e})
		} else {
			buf.Write(body)
			if body[len(body)-1] != '\n' {
				buf.WriteByte('\n')
			}
			err = writeRecord(&buf, e)
		}
		if err != nil {
			return fmt.Errorf("encode trade log: %w", err)
		}

		err = s.obj.write(ctx, buf.Bytes(), gen)
		if !errors.Is(err, errPrecondition) {
			return err
		}
	}
	return fmt.Errorf("append trade log: %w", err)
}

// Ping checks the bucket is reachable.
func (s *GCSStore) Ping(ctx context.Context) error {
	return s.obj.ping(ctx)
}

type gcsObject struct {
	bucket *gcs.BucketHandle
	name   string
}

func (o *gcsObject) read(ctx context.Context) ([]byte, int64, error) {
	r, err := o.bucket.Object(o.name).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open gs object %s: %w", o.name, err)
	}
	defer func() { _ = r.Close() }()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read gs object %s: %w", o.name, err)
	}
	return b, r.Attrs.Generation, nil
}

func (o *gcsObject) write(ctx context.Context, data []byte, generation int64) error {
	cond := gcs.Conditions{DoesNotExist: true}
	if generation != 0 {
		cond = gcs.Conditions{GenerationMatch: generation}
	}
	w := o.bucket.Object(o.name).If(cond).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs object %s: %w", o.name, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return errPrecondition
		}
		return fmt.Errorf("write gs object %s: %w", o.name, err)
	}
	return nil
}

func (o *gcsObject) ping(ctx context.Context) error {
	_, err := o.bucket.Attrs(ctx)
	return err
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

func writeRecord(buf *bytes.Buffer, e models.TradeLogEntry) error {
	w := csv.NewWriter(buf)
	_ = w.Write(ingestion.Record(e))
	w.Flush()
	return w.Error()
}
