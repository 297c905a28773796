// Package jobs provides scheduled background tasks of the stock ledger.
//
// Jobs are scheduled with github.com/robfig/cron/v3 using six-field expressions
// (seconds first).
//
// # Available Jobs
//
// StockReconciliationJob replays the movement ledger of every equipment and
// compares the result with the stored counters and unit statuses. Drift is
// logged at WARN and counted in stock_reconciliation_drift_total. The job never
// writes; drift is repaired by posting a CORRECTION movement.
//
// # Usage
//
//	reconciliation := jobs.NewStockReconciliationJob(uowFactory, handler, cfg.Reconcile.Schedule, jobMetrics, stockMetrics, log)
//	jobManager := jobs.NewJobManager(log, reconciliation)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A failure on one equipment is logged and the run continues with the next
//   - Overlapping runs are skipped
//   - Failed job starts stop the jobs already running
package jobs
