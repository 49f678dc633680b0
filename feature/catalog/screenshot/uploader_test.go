package screenshot

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) GetReviewScreenshot(ctx context.Context, subID string) (*ascapi.Resource, error) {
	args := m.Called(ctx, subID)
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) ReserveReviewScreenshot(ctx context.Context, subID, fileName string, fileSize int64) ascapi.Outcome {
	args := m.Called(ctx, subID, fileName, fileSize)
	return args.Get(0).(ascapi.Outcome)
}

func (m *mockRemote) CommitReviewScreenshot(ctx context.Context, screenshotID, checksum string) error {
	return m.Called(ctx, screenshotID, checksum).Error(0)
}

// chunkServer records every PUT it receives.
type chunkServer struct {
	mu      sync.Mutex
	bodies  []string
	auth    []string
	failAll bool
}

func (s *chunkServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	s.mu.Unlock()
	if s.failAll {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "expired")
	}
}

func reservation(url string) ascapi.Outcome {
	return ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{
		Type: "subscriptionAppStoreReviewScreenshots",
		ID:   "shot1",
		Attributes: map[string]any{
			"uploadOperations": []any{
				map[string]any{"method": "PUT", "url": url + "/a", "offset": float64(0), "length": float64(4)},
				map[string]any{"method": "PUT", "url": url + "/b", "offset": float64(4), "length": float64(6)},
			},
		},
	}}
}

func writeFile(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestUpload_ChunksAndCommits(t *testing.T) {
	ctx := context.Background()
	srv := &chunkServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	path := writeFile(t, t.TempDir(), "shot.png", "0123456789")
	sum := md5.Sum([]byte("0123456789"))

	r := &mockRemote{}
	r.On("GetReviewScreenshot", ctx, "sub").Return(nil, nil)
	r.On("ReserveReviewScreenshot", ctx, "sub", "shot.png", int64(10)).Return(reservation(ts.URL))
	r.On("CommitReviewScreenshot", ctx, "shot1", hex.EncodeToString(sum[:])).Return(nil)

	res, err := NewUploader(r, ts.Client(), "", zap.NewNop()).Upload(ctx, "sub", path)

	require.NoError(t, err)
	assert.Equal(t, Result{Action: ActionUploaded, AssetID: "shot1", Path: path}, res)
	assert.Equal(t, []string{"0123", "456789"}, srv.bodies)
	assert.Equal(t, []string{"", ""}, srv.auth)
	r.AssertExpectations(t)
}

func TestUpload_PartialUploadSkipsCommit(t *testing.T) {
	ctx := context.Background()
	srv := &chunkServer{failAll: true}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	path := writeFile(t, t.TempDir(), "shot.png", "0123456789")
	r := &mockRemote{}
	r.On("GetReviewScreenshot", ctx, "sub").Return(nil, nil)
	r.On("ReserveReviewScreenshot", ctx, "sub", "shot.png", int64(10)).Return(reservation(ts.URL))

	res, err := NewUploader(r, ts.Client(), "", zap.NewNop()).Upload(ctx, "sub", path)

	assert.ErrorIs(t, err, errs.ErrPartialUpload)
	assert.Equal(t, ActionFailed, res.Action)
	assert.Len(t, srv.bodies, 1)
	r.AssertNotCalled(t, "CommitReviewScreenshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	r := &mockRemote{}
	r.On("GetReviewScreenshot", ctx, "sub").Return(&ascapi.Resource{ID: "old"}, nil)

	res, err := NewUploader(r, http.DefaultClient, "", zap.NewNop()).Upload(ctx, "sub", "missing.png")

	require.NoError(t, err)
	assert.Equal(t, Result{Action: ActionSkipped, AssetID: "old"}, res)
	r.AssertNotCalled(t, "ReserveReviewScreenshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_MissingAsset(t *testing.T) {
	ctx := context.Background()
	r := &mockRemote{}
	r.On("GetReviewScreenshot", ctx, "sub").Return(nil, nil)

	res, err := NewUploader(r, http.DefaultClient, t.TempDir(), zap.NewNop()).Upload(ctx, "sub", "nope.png")

	assert.ErrorIs(t, err, errs.ErrMissingAsset)
	assert.False(t, errs.IsRunScoped(err))
	assert.Equal(t, ActionMissing, res.Action)
}

func TestFallback_PrefersIPhone(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shot_ipad_1.png", "x")
	writeFile(t, dir, "shot_iphone_1.png", "x")
	writeFile(t, dir, "notes.txt", "x")

	got, ok := Fallback(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "shot_iphone_1.png"), got)
}

func TestFallback_FirstImageByName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.JPG", "x")
	writeFile(t, dir, "a.jpeg", "x")

	got, ok := Fallback(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.jpeg"), got)

	_, ok = Fallback(t.TempDir())
	assert.False(t, ok)
}
