package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/store"
)

// stepSequence is the fixed progress curve the stepper walks a job
// through before finalizing it.
var stepSequence = []int{8, 22, 37, 55, 72, 88, 100}

// ArtifactUploader stores the output artifact of a finished render and
// returns its reference.
type ArtifactUploader interface {
	Upload(ctx context.Context, jobID uuid.UUID) (string, error)
}

// PlaceholderUploader fabricates a deterministic artifact reference
// without talking to real storage. Non-production only.
type PlaceholderUploader struct {
	BaseURL string
}

func (u *PlaceholderUploader) Upload(_ context.Context, jobID uuid.UUID) (string, error) {
	sum := sha256.Sum256([]byte(jobID.String()))
	return fmt.Sprintf("%s/artifacts/%s/%s.mp4", u.BaseURL, jobID, hex.EncodeToString(sum[:8])), nil
}

// Stepper deterministically simulates a provider's progress webhooks for
// environments without a real provider. It advances a job through
// stepSequence with a small delay per step, then performs the
// finalization write.
type Stepper struct {
	jobs      store.RenderJobStore
	artifacts ArtifactUploader
	stepDelay time.Duration
}

func NewStepper(jobs store.RenderJobStore, artifacts ArtifactUploader, stepDelay time.Duration) *Stepper {
	return &Stepper{
		jobs:      jobs,
		artifacts: artifacts,
		stepDelay: stepDelay,
	}
}

// Run walks one job to completion. It is safe to fire and forget: every
// write is guarded by the store's not-already-terminal predicate, so a
// job finished elsewhere stops absorbing updates.
func (s *Stepper) Run(ctx context.Context, jobID uuid.UUID) {
	for _, progress := range stepSequence {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.stepDelay):
		}

		ok, err := s.jobs.UpdateProgress(ctx, jobID, progress)
		if err != nil {
			log.Printf("stepper: progress write failed for %s: %v", jobID, err)
			return
		}
		if !ok {
			// Job went terminal elsewhere.
			return
		}
	}

	outputURL, err := s.artifacts.Upload(ctx, jobID)
	if err != nil {
		if _, markErr := s.jobs.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			log.Printf("stepper: failure write failed for %s: %v", jobID, markErr)
		}
		return
	}

	if _, err := s.jobs.MarkSucceeded(ctx, jobID, outputURL); err != nil {
		log.Printf("stepper: success write failed for %s: %v", jobID, err)
	}
}
