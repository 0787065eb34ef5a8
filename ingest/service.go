package ingest

import (
	"context"
	"math"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/assets"
	"github.com/AdwaithAnandSR/MediaCloudSync/catalog"
	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
	"github.com/AdwaithAnandSR/MediaCloudSync/policy"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/AdwaithAnandSR/MediaCloudSync/uploader"
	"github.com/AdwaithAnandSR/MediaCloudSync/util"
)

// Service is the submission surface. Submissions return a task id
// immediately; the work runs as an independent background unit observed by
// polling the sink. Batches run concurrently with each other but items
// within one batch run strictly in sequence, with a pacing delay between
// downloads to stay friendly with the upstream platform.
type Service struct {
	extractor extractor.Extractor
	policy    *policy.Policy
	catalog   catalog.Client
	pipeline  *assets.Pipeline
	store     uploader.Uploader
	sink      *taskman.TaskManager
	pacing    time.Duration

	// baseCtx is the lifetime of background work. Cancellation of a
	// running batch is not supported; this only carries the logger and the
	// process lifetime.
	baseCtx context.Context
}

func NewService(
	ctx context.Context,
	ext extractor.Extractor,
	pol *policy.Policy,
	cat catalog.Client,
	pipe *assets.Pipeline,
	store uploader.Uploader,
	sink *taskman.TaskManager,
	pacing time.Duration,
) *Service {
	return &Service{
		extractor: ext,
		policy:    pol,
		catalog:   cat,
		pipeline:  pipe,
		store:     store,
		sink:      sink,
		pacing:    pacing,
		baseCtx:   ctx,
	}
}

// TaskStatuses returns snapshots of all task records, newest first.
func (s *Service) TaskStatuses() []taskman.Task {
	return s.sink.List()
}

// SubmitVideo starts processing one directly-submitted video.
func (s *Service) SubmitVideo(url string) string {
	id := s.sink.Create(taskman.Task{
		Kind:          taskman.KindVideo,
		SourceRef:     url,
		CurrentStatus: "Queued",
	})
	go s.runSingle(id, extractor.VideoURL(url))
	return string(id)
}

// SubmitChannel starts a batch over the channel's videos tab.
func (s *Service) SubmitChannel(ref string, skip, limit int) string {
	return s.submitBatch(taskman.KindChannel, ref, extractor.ChannelVideosURL(ref), skip, limit)
}

// SubmitPlaylist starts a batch over a playlist.
func (s *Service) SubmitPlaylist(ref string, skip, limit int) string {
	return s.submitBatch(taskman.KindPlaylist, ref, extractor.PlaylistURL(ref), skip, limit)
}

func (s *Service) submitBatch(kind taskman.Kind, ref, sourceURL string, skip, limit int) string {
	// The record exists before the goroutine starts, so a submitter's
	// immediate status poll always finds it.
	id := s.sink.Create(taskman.Task{
		Kind:          kind,
		SourceRef:     ref,
		Skip:          skip,
		Limit:         limit,
		CurrentStatus: "Fetching videos...",
	})
	go s.runBatch(id, sourceURL, skip, limit)
	return string(id)
}

func (s *Service) runSingle(id taskman.TaskID, videoURL string) {
	ctx := s.baseCtx
	defer s.failOnPanic(ctx, id)

	outcome := s.processItem(ctx, id, videoURL)

	status := taskman.StatusFailed
	label := outcome.Message
	switch outcome.Kind {
	case OutcomeSuccess:
		status = taskman.StatusSuccess
		label = "Process completed"
	case OutcomeSkippedExists:
		status = taskman.StatusExists
		label = "Song already exists"
	}

	// staged assets are gone by now; drop the paths with the terminal state
	empty := ""
	patch := taskman.Patch{
		Status:        &status,
		CurrentStatus: &label,
		AudioPath:     &empty,
		CoverPath:     &empty,
	}
	if outcome.Kind == OutcomeError {
		patch.Error = &outcome.Message
	}
	s.sink.Update(id, patch)
}

func (s *Service) runBatch(id taskman.TaskID, sourceURL string, skip, limit int) {
	ctx := s.baseCtx
	lg := util.GetLogger(ctx)
	defer s.failOnPanic(ctx, id)

	// one page covering [0, skip+limit); the slice below applies skip
	entries, err := s.extractor.FetchListingPage(ctx, sourceURL, skip+limit)
	if err != nil {
		lg.Errorf("(%s) listing fetch failed: %v\n", id, err)
		s.finishBatch(id, taskman.StatusFailed, "Failed fetching videos")
		return
	}

	if skip > len(entries) {
		skip = len(entries)
	}
	end := skip + limit
	if end > len(entries) {
		end = len(entries)
	}
	page := entries[skip:end]
	total := len(page)
	lg.Infof("(%s) processing %d items from %s\n", id, total, sourceURL)

	for i, entry := range page {
		if i > 0 {
			// pacing between consecutive downloads within one batch
			if err := util.SleepContext(ctx, s.pacing); err != nil {
				lg.Infof("(%s) batch interrupted after %d of %d items\n", id, i, total)
				s.finishBatch(id, taskman.StatusFailed, "Interrupted")
				return
			}
		}

		index := i + 1
		progress := int(math.Round(float64(index) / float64(total) * 100))
		s.sink.Update(id, taskman.Patch{CurrentIndex: &index, Progress: &progress})

		// the item's outcome is fully resolved before the loop moves on;
		// an item failure never aborts the batch
		outcome := s.processItem(ctx, id, entry.WatchURL())
		s.applyOutcome(id, outcome)
	}

	s.finishBatch(id, taskman.StatusCompleted, "Done")
}

// applyOutcome bumps exactly one batch counter and records the item's
// terminal label.
func (s *Service) applyOutcome(id taskman.TaskID, outcome Outcome) {
	task, ok := s.sink.Get(id)
	if !ok {
		return
	}

	patch := taskman.Patch{CurrentStatus: &outcome.Message}
	switch {
	case outcome.Kind == OutcomeSuccess:
		n := task.SuccessCount + 1
		patch.SuccessCount = &n
	case outcome.Skipped():
		n := task.SkipCount + 1
		patch.SkipCount = &n
	default:
		n := task.FailCount + 1
		patch.FailCount = &n
		label := "ERROR: " + outcome.Message
		patch.CurrentStatus = &label
		// the failure survives on the record after the batch finishes
		patch.Error = &outcome.Message
	}
	s.sink.Update(id, patch)
}

func (s *Service) finishBatch(id taskman.TaskID, status taskman.Status, label string) {
	s.sink.Update(id, taskman.Patch{Status: &status, CurrentStatus: &label})
}

// failOnPanic is the batch's outer error boundary: an unexpected fault must
// mark the record FAILED instead of taking the process down.
func (s *Service) failOnPanic(ctx context.Context, id taskman.TaskID) {
	if r := recover(); r != nil {
		util.GetLogger(ctx).Errorf("(%s) task panicked: %v\n", id, r)
		status := taskman.StatusFailed
		label := "Internal error"
		s.sink.Update(id, taskman.Patch{Status: &status, CurrentStatus: &label})
	}
}
