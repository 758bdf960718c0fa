// Package jobs provides scheduled background tasks for the order lifecycle service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3. Specs use
// the six-field format with seconds.
//
// # Available Jobs
//
// 1. UnpaidOrderExpiryJob - cancels, as the system actor, pending orders whose payment
// has not been confirmed within the configured TTL
// 2. RealtimeStatsJob - logs live connections and dropped notifications of the local hub
//
// # Usage
//
//	expiry := jobs.NewUnpaidOrderExpiryJob(handler, 30*time.Minute, jobs.DefaultUnpaidOrderSweep,
//		jobs.DefaultExpiryBatchSize, logger)
//	jobManager := jobs.NewJobManager(expiry, hub, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep cancels each order in its own transaction. Orders that were paid or changed in
// the meantime are skipped; other failures are logged and retried on the next tick.
package jobs
