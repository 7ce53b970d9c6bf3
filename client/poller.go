package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/app"
	"inkwell/internal/models"
	"inkwell/internal/state"
)

// PollerState tracks where a tracked render currently is from the
// client's point of view.
type PollerState string

const (
	StateIdle      PollerState = "idle"
	StateStarting  PollerState = "starting"
	StatePolling   PollerState = "polling"
	StateSucceeded PollerState = "succeeded"
	StateFailed    PollerState = "failed"
	StateError     PollerState = "error"
)

// Poller submits a render to the server and follows it to completion by
// polling the read endpoint on a fixed interval. One Poller tracks one
// job; it is not restartable after Stop or a terminal state.
type Poller struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	simulate     bool

	mu      sync.Mutex
	state   PollerState
	jobID   uuid.UUID
	lastJob *models.RenderJob
	lastErr error
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewPoller(baseURL string, httpClient *http.Client, pollInterval time.Duration, simulate bool) *Poller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Poller{
		baseURL:      baseURL,
		httpClient:   httpClient,
		pollInterval: pollInterval,
		simulate:     simulate,
		state:        StateIdle,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Job returns the most recently observed row, which may be nil before
// the first successful poll.
func (p *Poller) Job() *models.RenderJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastJob
}

// Err returns the transport error that moved the poller to StateError,
// if any.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Done is closed once the poll loop has exited, whether by terminal
// status, transport failure or Stop.
func (p *Poller) Done() <-chan struct{} {
	return p.doneCh
}

// Start submits the render request and launches the poll loop. It
// returns the server-assigned job id. Calling Start twice is an error.
func (p *Poller) Start(ctx context.Context, req app.RenderRequest) (uuid.UUID, error) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return uuid.Nil, fmt.Errorf("poller already started")
	}
	p.state = StateStarting
	p.mu.Unlock()

	jobID, err := p.createJob(ctx, req)
	if err != nil {
		p.fail(err)
		close(p.doneCh)
		return uuid.Nil, err
	}

	p.mu.Lock()
	p.jobID = jobID
	p.state = StatePolling
	p.mu.Unlock()

	if p.simulate {
		// Best effort; a failed kick leaves the job waiting for real
		// provider callbacks instead.
		if err := p.kickSimulation(ctx, jobID); err != nil {
			log.Printf("poller: simulation kick for %s failed: %v", jobID, err)
		}
	}

	go p.loop(ctx, jobID)
	return jobID, nil
}

// Stop halts polling. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

func (p *Poller) loop(ctx context.Context, jobID uuid.UUID) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.fail(ctx.Err())
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			job, err := p.fetchJob(ctx, jobID)
			if err != nil {
				p.fail(custom_errors.NewTransportError("poll render job", err))
				return
			}

			p.mu.Lock()
			p.lastJob = job
			if job.Status.IsTerminal() {
				p.state = StateFailed
				if job.Status == state.RenderSucceeded {
					p.state = StateSucceeded
				}
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
		}
	}
}

func (p *Poller) fail(err error) {
	p.mu.Lock()
	p.state = StateError
	p.lastErr = err
	p.mu.Unlock()
}

func (p *Poller) createJob(ctx context.Context, req app.RenderRequest) (uuid.UUID, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/render-jobs", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, custom_errors.NewTransportError("create render job", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return uuid.Nil, custom_errors.NewTransportError("create render job", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return uuid.Nil, custom_errors.NewTransportError("create render job",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var created struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return uuid.Nil, custom_errors.NewTransportError("create render job", err)
	}
	return uuid.Parse(created.JobID)
}

func (p *Poller) kickSimulation(ctx context.Context, jobID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/render-jobs/%s/simulate", p.baseURL, jobID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (p *Poller) fetchJob(ctx context.Context, jobID uuid.UUID) (*models.RenderJob, error) {
	url := fmt.Sprintf("%s/api/render-jobs/%s", p.baseURL, jobID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var job models.RenderJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}
