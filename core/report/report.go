package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"catalog-sync/core/errs"
	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectKey returns the archive key for a run report.
func ObjectKey(kind, runID string) string {
	return fmt.Sprintf("reports/%s/%s.json", kind, runID)
}

// Archive stores and fetches report documents in object storage.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an Archive over bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Put uploads a report body.
func (a *Archive) Put(ctx context.Context, kind, runID string, body []byte) (string, error) {
	key := ObjectKey(kind, runID)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive report %s: %w", key, err)
	}
	return key, nil
}

// Get downloads a report body.
func (a *Archive) Get(ctx context.Context, kind, runID string) ([]byte, error) {
	key := ObjectKey(kind, runID)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errs.NewNotFoundError("report", key)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", key, err)
	}
	return body, nil
}

// Emitter writes reports to an output stream and, optionally, the archive.
type Emitter struct {
	Out     io.Writer
	Archive *Archive
	Logger  *zap.Logger
}

// Emit encodes v as indented JSON, writes it to Out and archives it.
// Archive failures are logged, never returned: the run already happened.
func (e *Emitter) Emit(ctx context.Context, kind, runID string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if _, err := e.Out.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if e.Archive == nil {
		return nil
	}
	key, err := e.Archive.Put(ctx, kind, runID, body)
	if err != nil {
		e.logger().Warn("Report archive failed", zap.String("run_id", runID), zap.Error(err))
		return nil
	}
	e.logger().Info("Report archived", zap.String("run_id", runID), zap.String("key", key))
	return nil
}

func (e *Emitter) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
