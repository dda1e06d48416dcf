package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/pkg/logger"
)

const sweepTimeout = time.Minute

// SweepRecorder counts campaign status changes. *metrics.Metrics implements it.
type SweepRecorder interface {
	RecordCampaignChanges(n int)
}

// CampaignScheduler periodically activates scheduled campaigns and expires
// finished ones so listing flags follow the campaign calendar.
type CampaignScheduler struct {
	cron             *cron.Cron
	spec             string
	marketingService service.MarketingService
	recorder         SweepRecorder
}

// NewCampaignScheduler runs the sweep on spec (standard five-field cron) in
// loc.
func NewCampaignScheduler(marketingService service.MarketingService, spec string, loc *time.Location, recorder SweepRecorder) *CampaignScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CampaignScheduler{
		cron:             cron.New(cron.WithLocation(loc)),
		spec:             spec,
		marketingService: marketingService,
		recorder:         recorder,
	}
}

// Start registers the sweep and starts the scheduler
func (s *CampaignScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			logger.Error("Scheduled campaign sweep failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for campaign sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Campaign scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Sweep runs one pass immediately.
func (s *CampaignScheduler) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	changed, err := s.marketingService.ExpireCampaigns(ctx)
	if err != nil {
		return 0, err
	}
	if s.recorder != nil {
		s.recorder.RecordCampaignChanges(changed)
	}
	if changed > 0 {
		logger.Info("Campaign sweep updated campaigns", map[string]interface{}{
			"changed": changed,
		})
	}
	return changed, nil
}

// Stop waits for a running sweep to finish
func (s *CampaignScheduler) Stop() {
	logger.Info("Stopping campaign scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Campaign scheduler stopped")
}
