package provider

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// StartRequest is the hand-off to an external render provider. The
// callback URL is where the provider posts progress webhooks.
type StartRequest struct {
	JobID       uuid.UUID           `json:"job_id"`
	ContentURL  string              `json:"content_url"`
	Params      models.RenderParams `json:"params"`
	CallbackURL string              `json:"callback_url"`
}

// RenderProvider performs the actual content transformation. This
// subsystem only records its correlation id and waits for webhooks.
type RenderProvider interface {
	Name() string

	// StartRender hands the job to the provider and returns the
	// provider's correlation id.
	StartRender(ctx context.Context, req StartRequest) (string, error)
}

// StubProvider accepts every render and never calls back. Paired with the
// synthetic stepper in environments without a real provider.
type StubProvider struct {
	ProviderName string
}

func (p *StubProvider) Name() string {
	if p.ProviderName != "" {
		return p.ProviderName
	}
	return "stub"
}

func (p *StubProvider) StartRender(_ context.Context, req StartRequest) (string, error) {
	return "stub-" + req.JobID.String(), nil
}
