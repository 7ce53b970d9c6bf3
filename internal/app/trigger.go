package app

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// ClaimTrigger periodically invokes the claim pass from inside the
// process, for deployments without an external cron caller hitting the
// trigger endpoint. Both triggers share the same claimer, and therefore
// the same documented overlap race.
type ClaimTrigger struct {
	cron    *cron.Cron
	claimer *ScheduleClaimer
}

func NewClaimTrigger(claimer *ScheduleClaimer, expression string) (*ClaimTrigger, error) {
	t := &ClaimTrigger{
		cron:    cron.New(),
		claimer: claimer,
	}

	_, err := t.cron.AddFunc(expression, func() {
		result, err := claimer.RunOnce(context.Background())
		if err != nil {
			log.Println("claim trigger: pass failed:", err)
			return
		}
		if result.Processed > 0 || result.Failed > 0 {
			log.Printf("claim trigger: processed=%d failed=%d", result.Processed, result.Failed)
		}
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (t *ClaimTrigger) Start() {
	t.cron.Start()
}

// Stop halts scheduling and waits for a running pass to finish.
func (t *ClaimTrigger) Stop() {
	<-t.cron.Stop().Done()
}
