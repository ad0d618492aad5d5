package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"EconomySentinel/internal/bonus"
	"EconomySentinel/internal/economy"
	"EconomySentinel/internal/model"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the three periodic loops: routine server reconciliation,
// integrity verification and global event refresh. The loops are not
// coordinated with each other or with in-flight transactions.
type Scheduler struct {
	Cron    *cron.Cron
	Manager *economy.Manager
	Bonuses *bonus.Engine
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, mgr *economy.Manager, eng *bonus.Engine) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Manager: mgr,
		Bonuses: eng,
		Ctx:     ctx,
	}
}

// RegisterAll registers the sync, integrity and event-refresh tasks.
func (s *Scheduler) RegisterAll(syncCron, integrityCron, eventCron string) error {
	if _, err := s.Cron.AddFunc(syncCron, s.syncTask); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	if _, err := s.Cron.AddFunc(integrityCron, s.integrityTask); err != nil {
		return fmt.Errorf("register integrity task: %w", err)
	}
	if _, err := s.Cron.AddFunc(eventCron, s.eventTask); err != nil {
		return fmt.Errorf("register event task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) syncTask() {
	if err := s.Manager.SyncNow(s.Ctx, "routine"); err != nil {
		log.Printf("[ERROR] routine sync: %v", err)
	}
}

func (s *Scheduler) integrityTask() {
	if err := s.Manager.VerifyIntegrity(s.Ctx); errors.Is(err, model.ErrIntegrityViolation) {
		log.Printf("[ERROR] integrity check: %v", err)
	}
}

func (s *Scheduler) eventTask() {
	s.Bonuses.Refresh(time.Now())
}
