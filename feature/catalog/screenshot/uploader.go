package screenshot

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"

	"go.uber.org/zap"
)

// Action values reported in Result.
const (
	ActionUploaded = "uploaded"
	ActionSkipped  = "skipped"
	ActionMissing  = "missing"
	ActionFailed   = "failed"
)

// Remote is the slice of the catalog API the uploader needs.
type Remote interface {
	GetReviewScreenshot(ctx context.Context, subID string) (*ascapi.Resource, error)
	ReserveReviewScreenshot(ctx context.Context, subID, fileName string, fileSize int64) ascapi.Outcome
	CommitReviewScreenshot(ctx context.Context, screenshotID, checksum string) error
}

// Result describes the outcome for one subscription.
type Result struct {
	Action  string `json:"action"`
	AssetID string `json:"asset_id,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Uploader uploads review screenshots.
type Uploader struct {
	remote Remote
	http   *http.Client
	dir    string
	logger *zap.Logger
}

// NewUploader creates an Uploader. hc is used only for chunk transfers; dir is
// searched when a subscription names no screenshot.
func NewUploader(remote Remote, hc *http.Client, dir string, logger *zap.Logger) *Uploader {
	return &Uploader{remote: remote, http: hc, dir: dir, logger: logger}
}

// Upload ensures subID has a review screenshot.
func (u *Uploader) Upload(ctx context.Context, subID, path string) (Result, error) {
	existing, err := u.remote.GetReviewScreenshot(ctx, subID)
	if err != nil {
		return Result{Action: ActionFailed}, fmt.Errorf("get review screenshot: %w", err)
	}
	if existing != nil {
		return Result{Action: ActionSkipped, AssetID: existing.ID}, nil
	}

	path, err = u.resolve(path)
	if err != nil {
		return Result{Action: ActionMissing}, err
	}
	res := Result{Action: ActionFailed, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read screenshot: %w", err)
	}

	out := u.remote.ReserveReviewScreenshot(ctx, subID, filepath.Base(path), int64(len(data)))
	switch out.Kind {
	case ascapi.AlreadyExists:
		res.Action = ActionSkipped
		return res, nil
	case ascapi.Failed:
		return res, fmt.Errorf("reserve screenshot: %w", out.Err)
	}
	res.AssetID = out.ID()

	ops, err := ascapi.UploadOperations(out.Resource)
	if err != nil {
		return res, err
	}
	if err := u.transfer(ctx, ops, data); err != nil {
		return res, err
	}

	sum := md5.Sum(data)
	if err := u.remote.CommitReviewScreenshot(ctx, res.AssetID, hex.EncodeToString(sum[:])); err != nil {
		return res, fmt.Errorf("commit screenshot: %w", err)
	}

	u.logger.Info("Review screenshot uploaded",
		zap.String("subscription_id", subID),
		zap.String("path", path),
		zap.Int("chunks", len(ops)),
	)
	res.Action = ActionUploaded
	return res, nil
}

func (u *Uploader) resolve(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		u.logger.Warn("Review screenshot not found, using fallback", zap.String("path", path))
	}
	fallback, ok := Fallback(u.dir)
	if !ok {
		return "", fmt.Errorf("no review screenshot for %q in %s: %w", path, u.dir, errs.ErrMissingAsset)
	}
	return fallback, nil
}

// transfer PUTs each byte range in order. The first non-2xx stops the upload.
func (u *Uploader) transfer(ctx context.Context, ops []ascapi.UploadOperation, data []byte) error {
	for _, op := range ops {
		end := op.Offset + op.Length
		if op.Offset < 0 || end > int64(len(data)) {
			return &errs.UploadError{Offset: op.Offset, Body: "range outside file"}
		}
		req, err := http.NewRequestWithContext(ctx, op.Method, op.URL, bytes.NewReader(data[op.Offset:end]))
		if err != nil {
			return err
		}
		for _, h := range op.RequestHeaders {
			req.Header.Set(h.Name, h.Value)
		}
		resp, err := u.http.Do(req)
		if err != nil {
			return fmt.Errorf("upload chunk at offset %d: %w", op.Offset, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &errs.UploadError{Offset: op.Offset, StatusCode: resp.StatusCode, Body: errs.Truncate(string(body), 200)}
		}
	}
	return nil
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Fallback picks a screenshot from dir: the first image by name whose name
// contains "iphone" (any case), else the first image.
func Fallback(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		images = append(images, e.Name())
	}
	if len(images) == 0 {
		return "", false
	}
	sort.Strings(images)
	for _, name := range images {
		if strings.Contains(strings.ToLower(name), "iphone") {
			return filepath.Join(dir, name), true
		}
	}
	return filepath.Join(dir, images[0]), true
}
