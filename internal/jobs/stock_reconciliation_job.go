package jobs

import (
	"context"
	"time"

	"stockledger/internal/core/application/usecases/queries"
	"stockledger/internal/core/ports"
	"stockledger/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// StockReconciliationJobName labels the job in logs and metrics.
	StockReconciliationJobName = "stock_reconciliation"

	// DefaultReconciliationSchedule runs every 15 minutes (six-field cron expression).
	DefaultReconciliationSchedule = "0 */15 * * * *"

	defaultRunTimeout = 10 * time.Minute
)

// DriftRecorder is told about every equipment found inconsistent with its ledger.
type DriftRecorder interface {
	DriftDetected()
}

// ReconciliationSummary counts the outcome of one reconciliation run.
type ReconciliationSummary struct {
	Checked int
	Drifted int
	Failed  int
}

// StockReconciliationJob periodically replays the ledger of every equipment and
// compares it with the stored counters and unit statuses. Drift is logged and
// counted, never repaired.
type StockReconciliationJob struct {
	uowFactory ports.UnitOfWorkFactory
	handler    queries.ReconcileEquipmentQueryHandler
	schedule   string
	cron       *cron.Cron
	logger     *zap.Logger
	metrics    *metrics.JobMetrics
	drift      DriftRecorder
}

// NewStockReconciliationJob creates the job. An empty schedule uses
// DefaultReconciliationSchedule. Runs never overlap.
func NewStockReconciliationJob(
	uowFactory ports.UnitOfWorkFactory,
	handler queries.ReconcileEquipmentQueryHandler,
	schedule string,
	jobMetrics *metrics.JobMetrics,
	drift DriftRecorder,
	logger *zap.Logger,
) *StockReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReconciliationJob{
		uowFactory: uowFactory,
		handler:    handler,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.Named(StockReconciliationJobName + "_job"),
		metrics:    jobMetrics,
		drift:      drift,
	}
}

func (j *StockReconciliationJob) Name() string {
	return StockReconciliationJobName
}

// Start schedules the job. It fails on an invalid schedule.
func (j *StockReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.Error("stock reconciliation run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("stock reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop unschedules the job and waits for a running reconciliation to finish.
func (j *StockReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("stock reconciliation job stopped")
}

// Run reconciles every equipment once. A failure on one equipment is logged and
// counted without stopping the run. The returned error reports a failure to
// list equipment or, joined, the per-equipment failures.
func (j *StockReconciliationJob) Run(ctx context.Context) (ReconciliationSummary, error) {
	started := time.Now()
	summary, err := j.run(ctx)

	j.metrics.ObserveDuration(StockReconciliationJobName, time.Since(started))
	if err != nil {
		j.metrics.IncFailure(StockReconciliationJobName)
	} else {
		j.metrics.IncSuccess(StockReconciliationJobName)
	}

	j.logger.Info("stock reconciliation finished",
		zap.Int("checked", summary.Checked),
		zap.Int("drifted", summary.Drifted),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(started)),
	)
	return summary, err
}

func (j *StockReconciliationJob) run(ctx context.Context) (ReconciliationSummary, error) {
	var summary ReconciliationSummary

	items, err := j.uowFactory.Create().EquipmentRepository().List(ctx)
	if err != nil {
		return summary, err
	}

	var failures error
	for _, eq := range items {
		if err = ctx.Err(); err != nil {
			return summary, multierr.Append(failures, err)
		}

		query, err := queries.NewReconcileEquipmentQuery(eq.TenantID(), eq.ID())
		if err != nil {
			failures = multierr.Append(failures, err)
			summary.Failed++
			continue
		}

		report, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.Error("equipment reconciliation failed",
				zap.String("tenant_id", eq.TenantID().String()),
				zap.String("equipment_id", eq.ID().String()),
				zap.Error(err),
			)
			failures = multierr.Append(failures, err)
			summary.Failed++
			continue
		}

		summary.Checked++
		if report.Consistent() {
			continue
		}

		summary.Drifted++
		if j.drift != nil {
			j.drift.DriftDetected()
		}

		mismatched := make([]string, len(report.UnitMismatches))
		for i, m := range report.UnitMismatches {
			mismatched[i] = m.Code
		}
		j.logger.Warn("stock drift detected",
			zap.String("tenant_id", report.TenantID.String()),
			zap.String("equipment_id", report.EquipmentID.String()),
			zap.Int("stored_total", report.StoredTotal),
			zap.Int("derived_total", report.DerivedTotal),
			zap.Int("stored_rented", report.StoredRented),
			zap.Int("derived_rented", report.DerivedRented),
			zap.Strings("mismatched_units", mismatched),
		)
	}

	return summary, failures
}
