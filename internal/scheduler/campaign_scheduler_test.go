package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/service"
)

type stubMarketing struct {
	service.MarketingService
	changed int
	err     error
	calls   int
}

func (s *stubMarketing) ExpireCampaigns(ctx context.Context) (int, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep must run with a deadline")
	}
	return s.changed, s.err
}

type countingRecorder struct{ total int }

func (c *countingRecorder) RecordCampaignChanges(n int) { c.total += n }

func TestCampaignScheduler_Sweep(t *testing.T) {
	marketing := &stubMarketing{changed: 2}
	recorder := &countingRecorder{}
	s := NewCampaignScheduler(marketing, "*/15 * * * *", time.UTC, recorder)

	changed, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, 2, recorder.total)

	marketing.err = errors.New("store down")
	_, err = s.Sweep(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, recorder.total)
}

func TestCampaignScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewCampaignScheduler(&stubMarketing{}, "not a cron", nil, nil)
	assert.Error(t, s.Start())
}

func TestCampaignScheduler_StartStop(t *testing.T) {
	s := NewCampaignScheduler(&stubMarketing{}, "@every 1h", time.UTC, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
