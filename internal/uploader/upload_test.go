package uploader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioup/internal/services/browser/fake"
)

func TestBeginUploadSelectsVideoAndThumbnail(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(selSelectFiles, selCloseLabel, selThumbnailChooser)

	sess := &Session{Page: page, UploadURL: DefaultUploadURL}
	job := &VideoJob{Path: "/videos/ep1.mp4", Thumbnail: "/videos/ep1.png"}

	err := BeginUpload(context.Background(), sess, job)

	require.NoError(t, err)
	assert.Equal(t, []string{DefaultUploadURL}, page.Navigations)
	assert.Equal(t, []string{"/videos/ep1.mp4"}, page.Files[selSelectFiles.Key()])
	assert.Equal(t, []string{"/videos/ep1.png"}, page.Files[selThumbnailChooser.Key()])
	// The unload guard reset and the close-label rewrite both run.
	assert.Contains(t, page.Scripts, jsResetUnloadGuard)
	assert.Contains(t, page.Scripts, jsNeutralizeCloseLabel)
}

func TestBeginUploadReloadsWhenSelectButtonMissing(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(selCloseLabel)
	page.OnNavigate = func(p *fake.Page, url string) {
		// The button only renders on the reload.
		if len(p.Navigations) == 2 {
			p.Show(selSelectFiles)
		}
	}

	sess := &Session{Page: page, UploadURL: DefaultUploadURL}
	err := BeginUpload(context.Background(), sess, &VideoJob{Path: "/videos/ep1.mp4"})

	require.NoError(t, err)
	assert.Len(t, page.Navigations, 2)
	assert.Equal(t, []string{"/videos/ep1.mp4"}, page.Files[selSelectFiles.Key()])
}

func TestBeginUploadGivesUpAfterReload(t *testing.T) {
	fastWaits(t)

	page := fake.New()

	sess := &Session{Page: page, UploadURL: DefaultUploadURL}
	err := BeginUpload(context.Background(), sess, &VideoJob{Path: "/videos/ep1.mp4"})

	assert.ErrorContains(t, err, "select files button")
	assert.Len(t, page.Navigations, 3)
}

func TestResolveThumbnailKeepsExistingLocalFile(t *testing.T) {
	dir := t.TempDir()
	thumb := filepath.Join(dir, "ep1.png")
	require.NoError(t, os.WriteFile(thumb, []byte("png"), 0644))

	job := &VideoJob{Path: filepath.Join(dir, "ep1.mp4"), Thumbnail: thumb}
	ResolveThumbnail(job)

	assert.Equal(t, thumb, job.Thumbnail)
}

func TestResolveThumbnailClearsMissingLocalFile(t *testing.T) {
	job := &VideoJob{Path: "/videos/ep1.mp4", Thumbnail: "/videos/missing.png"}
	ResolveThumbnail(job)

	assert.Empty(t, job.Thumbnail)
}

func TestResolveThumbnailDownloadsRemoteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	job := &VideoJob{Path: filepath.Join(dir, "ep1.mp4"), Thumbnail: srv.URL + "/thumb.png"}
	ResolveThumbnail(job)

	want := filepath.Join(dir, "ep1.png")
	assert.Equal(t, want, job.Thumbnail)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestResolveThumbnailClearsFailedDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	job := &VideoJob{Path: filepath.Join(dir, "ep1.mp4"), Thumbnail: srv.URL + "/thumb.png"}
	ResolveThumbnail(job)

	assert.Empty(t, job.Thumbnail)
}
