package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
	"inkwell/internal/store"
)

// staleRunningAfter is how long an entry may sit in running before a
// pass treats it as orphaned and requeues it.
const staleRunningAfter = 5 * time.Minute

// ScheduleClaimer selects due publish schedule entries, best-effort marks
// them running and drains them through a bounded worker pool. The status
// column is the only claim mechanism: overlapping passes can double-process
// an entry, which per-entry processing tolerates because publish fields are
// overwritten, not appended.
type ScheduleClaimer struct {
	schedules   store.ScheduleStore
	contents    store.ContentStore
	audits      store.AuditStore
	analyzer    Analyzer
	workerCount int
	batchSize   int
	now         func() time.Time
}

func NewScheduleClaimer(
	schedules store.ScheduleStore,
	contents store.ContentStore,
	audits store.AuditStore,
	analyzer Analyzer,
	workerCount int,
	batchSize int,
) *ScheduleClaimer {
	return &ScheduleClaimer{
		schedules:   schedules,
		contents:    contents,
		audits:      audits,
		analyzer:    analyzer,
		workerCount: workerCount,
		batchSize:   batchSize,
		now:         time.Now,
	}
}

// RunOnce executes one claim pass and reports how many entries ended done
// and failed. One entry's failure never blocks the rest of the batch; the
// only error returned is a failure to read the due set at all.
func (c *ScheduleClaimer) RunOnce(ctx context.Context) (models.BatchResult, error) {
	// A pass that died between MarkRunning and finalization leaves its
	// claims stranded in running; nothing else selects them, so each pass
	// starts by requeueing the stale ones.
	if requeued, err := c.schedules.RequeueStale(ctx, c.now().Add(-staleRunningAfter)); err != nil {
		log.Println("claimer: stale requeue failed:", err)
	} else if requeued > 0 {
		log.Printf("claimer: requeued %d stale running entries", requeued)
	}

	entries, err := c.schedules.FetchDue(ctx, c.now(), c.batchSize)
	if err != nil {
		return models.BatchResult{}, fmt.Errorf("failed to fetch due entries: %w", err)
	}
	if len(entries) == 0 {
		return models.BatchResult{}, nil
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	if err := c.schedules.MarkRunning(ctx, ids); err != nil {
		// Best-effort claim: the batch still runs, at the cost of a wider
		// double-processing window.
		log.Println("claimer: mark running failed:", err)
	}

	workers := c.workerCount
	if len(entries) < workers {
		workers = len(entries)
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var processed, failed int64

	for _, entry := range entries {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Println("claimer: semaphore error:", err)
			break
		}
		wg.Add(1)

		go func(entry models.PublishScheduleEntry) {
			defer sem.Release(1)
			defer wg.Done()
			if c.processEntry(ctx, entry) {
				atomic.AddInt64(&processed, 1)
			} else {
				atomic.AddInt64(&failed, 1)
			}
		}(entry)
	}

	wg.Wait()
	return models.BatchResult{
		Processed: int(atomic.LoadInt64(&processed)),
		Failed:    int(atomic.LoadInt64(&failed)),
	}, nil
}

// processEntry runs one entry end-to-end and finalizes it. Every entry
// that entered the pass ends in done or failed with attempts bumped by
// exactly one; even the failure-recording write is guarded so it cannot
// crash the batch.
func (c *ScheduleClaimer) processEntry(ctx context.Context, entry models.PublishScheduleEntry) bool {
	err := c.publishSafely(ctx, entry)
	if err != nil {
		log.Printf("claimer: entry %s failed: %v", entry.ID, err)
		c.recordAudit(ctx, "publish_failed", entry.ID, err.Error())
		if state.IsValidScheduleTransition(state.ScheduleRunning, state.ScheduleFailed) {
			if markErr := c.schedules.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				log.Printf("claimer: failure write for %s failed: %v", entry.ID, markErr)
			}
		}
		return false
	}

	if state.IsValidScheduleTransition(state.ScheduleRunning, state.ScheduleDone) {
		if markErr := c.schedules.MarkDone(ctx, entry.ID); markErr != nil {
			log.Printf("claimer: done write for %s failed: %v", entry.ID, markErr)
		}
	}
	return true
}

// publishSafely contains panics to the entry boundary.
func (c *ScheduleClaimer) publishSafely(ctx context.Context, entry models.PublishScheduleEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while publishing entry %s: %v", entry.ID, r)
		}
	}()
	return c.publish(ctx, entry)
}

func (c *ScheduleClaimer) publish(ctx context.Context, entry models.PublishScheduleEntry) error {
	session, err := c.contents.FindSession(ctx, entry.SessionID)
	if err != nil {
		return err
	}

	if countNonEmptySnippets(session) == 0 {
		return custom_errors.NewNotFoundError("content snippets", entry.SessionID.String())
	}

	score, insight, err := c.analyzer.Analyze(ctx, session)
	if err != nil {
		log.Printf("claimer: %v", &custom_errors.SideEffectError{Op: "analysis", Err: err})
		score = 0
		insight = placeholderInsight
	}

	fields := models.PublishFields{
		PublishStatus:  "approved",
		Visibility:     entry.Visibility,
		PublishedAt:    c.now(),
		QualityScore:   score,
		QualityInsight: insight,
		ContentHash:    contentHash(session),
	}
	if err := c.contents.ApplyPublish(ctx, entry.SessionID, fields); err != nil {
		return err
	}

	c.recordAudit(ctx, "published", entry.ID, fmt.Sprintf("session %s visibility %s", entry.SessionID, entry.Visibility))
	c.incrementCounter(ctx, "schedule.published")
	return nil
}

func (c *ScheduleClaimer) recordAudit(ctx context.Context, kind string, subjectID uuid.UUID, detail string) {
	event := models.AuditEvent{Kind: kind, SubjectID: &subjectID, Detail: detail}
	if err := c.audits.RecordEvent(ctx, event); err != nil {
		log.Printf("claimer: %v", &custom_errors.SideEffectError{Op: "audit " + kind, Err: err})
	}
}

func (c *ScheduleClaimer) incrementCounter(ctx context.Context, name string) {
	if err := c.audits.IncrementCounter(ctx, name); err != nil {
		log.Printf("claimer: %v", &custom_errors.SideEffectError{Op: "metric " + name, Err: err})
	}
}

func countNonEmptySnippets(session *models.ContentSession) int {
	n := 0
	for _, snippet := range session.Snippets {
		if strings.TrimSpace(snippet.Body) != "" {
			n++
		}
	}
	return n
}

// contentHash fingerprints the published text for change detection.
func contentHash(session *models.ContentSession) string {
	h := sha256.New()
	for _, snippet := range session.Snippets {
		h.Write([]byte(snippet.Body))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
