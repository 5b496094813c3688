package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
)

// cronTickerInterval is the interval at which the sweep scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// SweepSchedulerConfig holds configuration for the cron-driven sweep scheduler.
type SweepSchedulerConfig struct {
	// Enabled indicates if the cron scheduler is enabled
	Enabled bool
	// IntervalMinutes is how often, in minutes, the reclassification and
	// stale-lock sweeps run. A tight interval is favored over a once-daily
	// cron since classification is a pure function of the calendar date
	// rolling over.
	IntervalMinutes int
	// JobTimeout is the maximum time a single sweep job can run
	JobTimeout time.Duration
	// MaxConcurrentJobs is the maximum number of concurrent sweep jobs
	MaxConcurrentJobs int
	// RetryAttempts is the number of retry attempts for failed jobs
	RetryAttempts int
	// RetryDelay is the delay between retries
	RetryDelay time.Duration
}

// DefaultSweepSchedulerConfig returns default sweep scheduler configuration:
// a pass every 15 minutes.
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		Enabled:           true,
		IntervalMinutes:   15,
		JobTimeout:        5 * time.Minute,
		MaxConcurrentJobs: 3,
		RetryAttempts:     3,
		RetryDelay:        30 * time.Second,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" into an
// equivalent interval in minutes. Kept for operators migrating an existing
// "0 2 * * *"-style daily cron config onto IntervalMinutes; returns 1440 (one
// day) for a recognizable daily expression, an error otherwise.
func ParseCronSchedule(cronExpr string) (minutes int, err error) {
	if cronExpr == "" {
		return 0, nil
	}
	parts := strings.Fields(cronExpr)
	if len(parts) < 5 {
		return 0, fmt.Errorf("cron expression %q is too short", cronExpr)
	}
	if parts[2] == "*" && parts[3] == "*" && parts[4] == "*" {
		return 24 * 60, nil
	}
	return 0, fmt.Errorf("cron expression %q is not a supported daily schedule", cronExpr)
}

// SchedulerJobRecord represents a record of a scheduled sweep execution.
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    *uuid.UUID `gorm:"column:tenant_id;type:uuid"`
	SweepType   string     `gorm:"column:sweep_type;size:50;not null"`
	Status      string     `gorm:"column:last_run_status;size:20"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:last_run_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	NextRunAt   *time.Time `gorm:"column:next_run_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (SchedulerJobRecord) TableName() string {
	return "sweep_scheduler_jobs"
}

// SchedulerJobRepository handles persistence of scheduler job records
type SchedulerJobRepository struct {
	db *gorm.DB
}

// NewSchedulerJobRepository creates a new SchedulerJobRepository
func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

// RecordJobStart records the start of a job execution
func (r *SchedulerJobRepository) RecordJobStart(ctx context.Context, tenantID *uuid.UUID, sweepType string) (uuid.UUID, error) {
	now := time.Now()
	record := &SchedulerJobRecord{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SweepType: sweepType,
		Status:    string(JobStatusRunning),
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete records the completion of a job
func (r *SchedulerJobRepository) RecordJobComplete(ctx context.Context, jobID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&SchedulerJobRecord{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"last_run_status": status,
			"last_error":      errMsg,
			"completed_at":    now,
			"updated_at":      now,
		}).Error
}

// GetLastJobStatus gets the last job status for a sweep type
func (r *SchedulerJobRepository) GetLastJobStatus(ctx context.Context, tenantID *uuid.UUID, sweepType string) (*SchedulerJobRecord, error) {
	var record SchedulerJobRecord
	query := r.db.WithContext(ctx).Where("sweep_type = ?", sweepType)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	} else {
		query = query.Where("tenant_id IS NULL")
	}
	if err := query.Order("last_run_at DESC").First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// SweepCronScheduler runs the reclassification and stale-lock sweeps across
// every active tenant on a fixed interval: iterate tenants, open a normal
// tenant transaction per tenant, recompute state, let the usual event
// pipeline publish the resulting domain events.
type SweepCronScheduler struct {
	config     SweepSchedulerConfig
	executor   JobExecutor
	tenantRepo identity.TenantRepository
	jobRepo    *SchedulerJobRepository
	logger     *zap.Logger
	scheduler  *Scheduler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewSweepCronScheduler creates a new cron-driven sweep scheduler.
func NewSweepCronScheduler(
	config SweepSchedulerConfig,
	executor JobExecutor,
	tenantRepo identity.TenantRepository,
	jobRepo *SchedulerJobRepository,
	logger *zap.Logger,
) *SweepCronScheduler {
	schedulerConfig := SchedulerConfig{
		Enabled:           config.Enabled,
		MaxConcurrentJobs: config.MaxConcurrentJobs,
		JobTimeout:        config.JobTimeout,
		RetryAttempts:     config.RetryAttempts,
		RetryDelay:        config.RetryDelay,
	}
	return &SweepCronScheduler{
		config:     config,
		executor:   executor,
		tenantRepo: tenantRepo,
		jobRepo:    jobRepo,
		logger:     logger,
		scheduler:  NewScheduler(schedulerConfig, executor, logger),
	}
}

// Start starts the cron scheduler
func (s *SweepCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Sweep cron scheduler started",
		zap.Int("interval_minutes", s.config.IntervalMinutes),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the cron scheduler
func (s *SweepCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("Error stopping underlying scheduler", zap.Error(err))
		}
		s.logger.Info("Sweep cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweep cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *SweepCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runSweeps(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks whether a sweep is due at the given time.
func (s *SweepCronScheduler) shouldRun(now time.Time) bool {
	s.mu.Lock()
	next := s.nextRunAt
	s.mu.Unlock()
	return next != nil && !now.Before(*next)
}

// calculateNextRunTime calculates the next run time
func (s *SweepCronScheduler) calculateNextRunTime() {
	next := time.Now().Add(time.Duration(s.config.IntervalMinutes) * time.Minute)
	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runSweeps runs the reclassification and stale-lock sweeps for all active tenants.
func (s *SweepCronScheduler) runSweeps(ctx context.Context) {
	s.logger.Info("Starting sweep pass")

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	tenants, err := s.tenantRepo.FindActive(ctx, shared.Filter{})
	if err != nil {
		s.logger.Error("Failed to fetch active tenants for sweep pass", zap.Error(err))
		return
	}

	s.logger.Info("Scheduling sweeps for tenants", zap.Int("tenant_count", len(tenants)))

	for _, tenant := range tenants {
		tenantID := tenant.ID
		for _, sweepType := range AllSweepTypes() {
			var jobID uuid.UUID
			if s.jobRepo != nil {
				var recordErr error
				jobID, recordErr = s.jobRepo.RecordJobStart(ctx, &tenantID, string(sweepType))
				if recordErr != nil {
					s.logger.Warn("Failed to record sweep job start",
						zap.String("tenant_id", tenantID.String()),
						zap.String("sweep_type", string(sweepType)),
						zap.Error(recordErr),
					)
				}
			}

			job := NewJob(&tenantID, sweepType, now, now, s.config.RetryAttempts)
			if err := s.scheduler.SubmitJob(job); err != nil {
				s.logger.Error("Failed to submit sweep job",
					zap.String("tenant_id", tenantID.String()),
					zap.String("sweep_type", string(sweepType)),
					zap.Error(err),
				)
				if s.jobRepo != nil && jobID != uuid.Nil {
					_ = s.jobRepo.RecordJobComplete(ctx, jobID, false, err.Error())
				}
				continue
			}
		}
	}

	s.logger.Info("Sweep pass jobs scheduled", zap.Int("tenant_count", len(tenants)))
}

// TriggerManualRun triggers a manual sweep pass across all tenants.
func (s *SweepCronScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runSweeps(context.Background())
	return nil
}

// TriggerTenantSweep triggers a sweep pass for a single tenant.
func (s *SweepCronScheduler) TriggerTenantSweep(ctx context.Context, tenantID uuid.UUID) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	now := time.Now()
	for _, sweepType := range AllSweepTypes() {
		job := NewJob(&tenantID, sweepType, now, now, s.config.RetryAttempts)
		if err := s.scheduler.SubmitJob(job); err != nil {
			return err
		}
	}
	return nil
}

// GetStatus returns the current status of the cron scheduler
func (s *SweepCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":          s.config.Enabled,
		"is_running":       s.isRunning,
		"interval_minutes": s.config.IntervalMinutes,
		"last_run_at":      s.lastRunAt,
		"next_run_at":      s.nextRunAt,
		"sweep_types":      AllSweepTypes(),
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *SweepCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *SweepCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
