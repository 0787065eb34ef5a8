package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/AdwaithAnandSR/MediaCloudSync/catalog"
	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
	"github.com/AdwaithAnandSR/MediaCloudSync/policy"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/AdwaithAnandSR/MediaCloudSync/uploader"
	"github.com/AdwaithAnandSR/MediaCloudSync/util"
)

// processItem drives one video through the full pipeline: metadata fetch,
// filter sequence, asset materialization, uploads, catalog registration.
// Every exit path reclaims the item's staged files; faults are folded into
// the returned outcome and never escape.
func (s *Service) processItem(ctx context.Context, taskID taskman.TaskID, videoURL string) Outcome {
	lg := util.GetLogger(ctx)

	s.setPhase(taskID, "Fetching metadata...")
	meta, err := s.extractor.FetchMetadata(ctx, videoURL)
	if err != nil {
		var parseErr *extractor.MetadataParseError
		if errors.As(err, &parseErr) {
			// a malformed record is a skip, not a pipeline defect
			lg.Debugf("(%s) %v\n", taskID, parseErr)
			return skipOutcome(policy.SkipInvalidMetadata)
		}
		lg.Errorf("(%s) metadata fetch failed: %v\n", taskID, err)
		return errorOutcome(err)
	}

	title := meta.Title
	s.sink.Update(taskID, taskman.Patch{Title: &title})

	s.setPhase(taskID, "Filtering...")
	verdict, err := s.policy.Evaluate(ctx, meta)
	if err != nil {
		lg.Errorf("(%s) existence check failed: %v\n", taskID, err)
		return errorOutcome(err)
	}
	if verdict.Skip() {
		lg.Debugf("(%s) %s: %s\n", taskID, meta.ID, verdict)
		return skipOutcome(verdict)
	}

	s.setPhase(taskID, "Downloading audio...")
	staged, err := s.pipeline.Materialize(ctx, meta)
	if err != nil {
		lg.Errorf("(%s) materialize failed for %s: %v\n", taskID, meta.ID, err)
		return errorOutcome(err)
	}
	defer staged.Cleanup()

	// Single-video records expose the staged paths while the assets are on
	// local disk.
	if task, ok := s.sink.Get(taskID); ok && task.Kind == taskman.KindVideo {
		s.sink.Update(taskID, taskman.Patch{
			AudioPath: &staged.AudioPath,
			CoverPath: &staged.CoverPath,
		})
	}

	s.setPhase(taskID, "Uploading...")
	songURL, err := s.store.Upload(ctx, staged.AudioPath, uploader.KindAudio)
	if err != nil {
		lg.Errorf("(%s) audio upload failed for %s: %v\n", taskID, meta.ID, err)
		return errorOutcome(err)
	}

	coverURL := ""
	if staged.CoverPath != "" {
		coverURL, err = s.store.Upload(ctx, staged.CoverPath, uploader.KindImage)
		if err != nil {
			lg.Errorf("(%s) cover upload failed for %s: %v\n", taskID, meta.ID, err)
			return errorOutcome(err)
		}
	}

	s.setPhase(taskID, "Updating catalog...")
	accepted, err := s.catalog.Register(ctx, catalog.Song{
		Title:           meta.Title,
		ID:              meta.ID,
		DurationSeconds: meta.DurationSeconds,
		Artist:          meta.Artist(),
		SongURL:         songURL,
		CoverURL:        coverURL,
	})
	if err != nil {
		lg.Errorf("(%s) catalog registration failed for %s: %v\n", taskID, meta.ID, err)
		return errorOutcome(err)
	}
	if !accepted {
		lg.Warnf("(%s) catalog rejected %s\n", taskID, meta.ID)
		return errorOutcome(fmt.Errorf("%w: %s", catalog.ErrRejected, meta.ID))
	}

	lg.Infof("(%s) registered %s (%s)\n", taskID, meta.Title, meta.ID)
	return successOutcome(songURL, coverURL)
}

func (s *Service) setPhase(taskID taskman.TaskID, label string) {
	s.sink.Update(taskID, taskman.Patch{CurrentStatus: &label})
}
