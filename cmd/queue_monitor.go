package main

import (
	"context"
	"log"
	"time"

	"estateBack/internal/services"
)

const (
	queueMonitorInterval = 5 * time.Minute
	queueMonitorTimeout  = 30 * time.Second
)

// startQueueMonitor logs the size of the moderation queue periodically so a
// growing backlog shows up in the logs.
func startQueueMonitor(ctx context.Context, svc *services.ListingService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(queueMonitorInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, queueMonitorTimeout)
			defer cancel()

			st, err := svc.QueueStats(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("queue monitor: %v", err)
				}
				return
			}
			if infoLog != nil {
				infoLog.Printf("queue monitor: pending=%d approved=%d rejected=%d crawled=%d",
					st.Pending, st.Approved, st.Rejected, st.Crawled)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
