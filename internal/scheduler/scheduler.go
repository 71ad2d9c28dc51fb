package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/clock"
	obscontext "github.com/stormline/roofcrm/internal/observability/context"
	obslogger "github.com/stormline/roofcrm/internal/observability/logger"
	obsmetrics "github.com/stormline/roofcrm/internal/observability/metrics"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const JobExpireProposals = "expire_proposals"

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	ProposalRepo proposaldomain.Repository
	GenID        *snowflake.Node
	Clock        clock.Clock
	Config       Config                       `optional:"true"`
	Metrics      *obsmetrics.SchedulerMetrics `optional:"true"`
}

// Scheduler runs periodic maintenance over persisted proposals.
type Scheduler struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          Config
	genID        *snowflake.Node
	clock        clock.Clock
	proposalRepo proposaldomain.Repository
	metrics      *obsmetrics.SchedulerMetrics
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.ProposalRepo == nil || p.GenID == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	metrics := p.Metrics
	if metrics == nil {
		metrics = obsmetrics.Scheduler()
	}
	return &Scheduler{
		db:           p.DB,
		log:          p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:          p.Config.withDefaults(),
		genID:        p.GenID,
		clock:        p.Clock,
		proposalRepo: p.ProposalRepo,
		metrics:      metrics,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) (int64, error),
) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx = obscontext.WithActor(ctx, "system", "scheduler")
	runID := ""
	if s.genID != nil {
		runID = s.genID.Generate().String()
	}
	log := s.logger(ctx).With(
		zap.String("job", name),
		zap.String("run_id", runID),
	)
	s.metrics.IncJobRun(name)

	processed, err := fn(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveJobDuration(name, elapsed)
	s.metrics.AddBatchProcessed(name, processed)
	if err == nil {
		if processed > 0 {
			log.Info("job finished",
				zap.Int64("processed", processed),
				zap.Int64("duration_ms", elapsed.Milliseconds()),
			)
		}
		return nil
	}

	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		s.metrics.IncJobTimeout(name)
	}
	s.metrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes every enabled job a single time.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) (int64, error)
	}{
		{JobExpireProposals, s.ExpireProposalsJob},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := time.Now().Add(s.cfg.RunInterval)

	if err := s.RunOnce(ctx); err != nil {
		s.log.Warn("scheduler run failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if lag := time.Since(nextRun); lag > 0 {
			s.metrics.ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)
	}
}

// ExpireProposalsJob marks DRAFT proposals past their validity as EXPIRED,
// draining in batches until a short batch comes back.
func (s *Scheduler) ExpireProposalsJob(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now()
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.proposalRepo.ExpireDrafts(ctx, s.db, cutoff, s.cfg.BatchSize)
		if err != nil {
			return total, err
		}
		total += n
		if n < int64(s.cfg.BatchSize) {
			return total, nil
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty list enables every job.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}
