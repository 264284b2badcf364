// Package jobs holds background maintenance tasks.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/craftconnect/authsvc/domain"
)

// SessionSweeper prunes stale entries from the per-user session index
// sets. Session bodies expire via Redis TTLs, but the index sets only
// shrink on logout, so revoked-by-expiry sessions leave dead ids behind.
type SessionSweeper struct {
	sessionRepo domain.SessionRepository
	schedule    string
	cron        *cron.Cron
}

// NewSessionSweeper creates a sweeper with a standard cron schedule,
// e.g. "*/30 * * * *".
func NewSessionSweeper(sessionRepo domain.SessionRepository, schedule string) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		schedule:    schedule,
		cron:        cron.New(),
	}
}

// Start registers the sweep job and launches the scheduler.
func (s *SessionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("SWEEPER_STARTED: schedule=%q", s.schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userIDs, err := s.sessionRepo.UserIDs(ctx)
	if err != nil {
		log.Printf("SWEEPER_SCAN_FAILED: error=%v", err)
		return
	}

	pruned := 0
	for _, userID := range userIDs {
		n, err := s.sessionRepo.PruneUserIndex(ctx, userID)
		if err != nil {
			log.Printf("SWEEPER_PRUNE_FAILED: user_id=%d error=%v", userID, err)
			continue
		}
		pruned += n
	}
	if pruned > 0 {
		log.Printf("SWEEPER_DONE: users=%d pruned=%d", len(userIDs), pruned)
	}
}
