// Package workflow sequences a batch of video jobs through one
// authenticated console session: login once, then per job upload, metadata,
// optional card linking, processing waits and final publish.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studioup/internal/services/browser"
	"studioup/internal/uploader"
	"studioup/internal/utils"
)

// uploadSettle gives the console a moment after the upload-complete signal
// before the cards editor is touched. Variable for the tests.
var uploadSettle = 3 * time.Second

// Options tunes a batch run.
type Options struct {
	// Browser configures the launched browser. Ignored when a page factory
	// is injected.
	Browser browser.Options
	// UploadURL overrides the console entry point (empty = default).
	UploadURL string
	// StrictPlaylists makes playlist resolution failures fail their job.
	StrictPlaylists bool
}

// PageFactory provides the automation page and a release function. The
// production factory launches a browser; tests inject a scripted fake.
type PageFactory func() (browser.Page, func() error, error)

// Runner executes batches. One batch at a time: the console's upload
// dialog is a single stateful resource that cannot be multiplexed.
type Runner struct {
	opts    Options
	newPage PageFactory
}

// NewRunner builds a runner that launches a real browser per batch.
func NewRunner(opts Options) *Runner {
	return &Runner{
		opts: opts,
		newPage: func() (browser.Page, func() error, error) {
			svc, err := browser.Launch(opts.Browser)
			if err != nil {
				return nil, nil, err
			}
			page, err := svc.NewPage()
			if err != nil {
				_ = svc.Close()
				return nil, nil, err
			}
			return page, svc.Close, nil
		},
	}
}

// NewRunnerWithPage builds a runner around an injected page factory.
func NewRunnerWithPage(opts Options, factory PageFactory) *Runner {
	return &Runner{opts: opts, newPage: factory}
}

// Run processes the jobs strictly in order and returns one result per job,
// in job order. Only authentication problems abort the whole batch; the
// session is released on every exit path.
func (r *Runner) Run(ctx context.Context, creds uploader.Credentials, jobs []uploader.VideoJob) ([]uploader.UploadResult, error) {
	batchID := uuid.New().String()
	utils.LogInfo("Starting batch %s with %d job(s)", batchID, len(jobs))

	page, release, err := r.newPage()
	if err != nil {
		return nil, fmt.Errorf("failed to start automation session: %w", err)
	}
	defer func() {
		if err := release(); err != nil {
			utils.LogWarning("Failed to release session: %v", err)
		}
	}()

	manager := uploader.NewSessionManager(creds).WithUploadURL(r.opts.UploadURL)
	sess, err := manager.Authenticate(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := manager.NormalizeHomeLocale(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to normalize console locale: %w", err)
	}

	results := make([]uploader.UploadResult, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]

		if !utils.FileExists(job.Path) {
			utils.LogWarning("Video not found, skipping job %d: %s", i, job.Path)
			results = append(results, uploader.UploadResult{
				JobIndex: i,
				Title:    job.Title,
				Err:      fmt.Errorf("video file not found: %s", job.Path),
				Finished: time.Now(),
			})
			continue
		}

		url, err := r.processJob(ctx, sess, job)
		result := uploader.UploadResult{
			JobIndex: i,
			Title:    job.Title,
			URL:      url,
			Err:      err,
			Finished: time.Now(),
		}
		if err != nil {
			utils.LogError("Job %d failed: %v", i, err)
		} else if job.OnSuccess != nil {
			job.OnSuccess(url)
		}
		results = append(results, result)

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}

	utils.LogInfo("Batch %s finished", batchID)
	return results, nil
}

// processJob runs the full publishing sequence for one job.
func (r *Runner) processJob(ctx context.Context, sess *uploader.Session, job *uploader.VideoJob) (string, error) {
	uploader.ResolveThumbnail(job)

	if err := uploader.BeginUpload(ctx, sess, job); err != nil {
		return "", err
	}

	filler := &uploader.FormFiller{StrictPlaylists: r.opts.StrictPlaylists}
	if err := filler.Fill(ctx, sess, job); err != nil {
		return "", err
	}

	publisher := &uploader.PublishController{}
	if _, err := publisher.SelectVisibility(ctx, sess, job); err != nil {
		return "", err
	}

	// Side stream for status logging only; stopped before the final wait
	// so nothing keeps polling after the job is done.
	monitor := uploader.NewProgressMonitor(sess)
	stopLogging := monitor.LogUntilCancelled(ctx)
	defer stopLogging()

	url, err := publisher.CaptureURL(ctx, sess)
	if err != nil {
		return "", err
	}

	if err := monitor.AwaitSignal(ctx, "Upload complete"); err != nil {
		return url, err
	}
	settle(ctx, uploadSettle)

	if job.EndCardPlaylist != "" {
		linker := &uploader.CardLinker{}
		linker.Link(ctx, sess, job.EndCardPlaylist)
	}

	if err := monitor.AwaitSignal(ctx, "Checks complete"); err != nil {
		return url, err
	}

	stopLogging()
	if err := publisher.Finalize(ctx, sess, job); err != nil {
		return url, err
	}

	return url, nil
}

func settle(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
