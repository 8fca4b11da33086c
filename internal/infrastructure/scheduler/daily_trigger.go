package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	// Hour and Minute are the local wall-clock time of the daily run
	Hour   int
	Minute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultDailyTriggerConfig returns default daily trigger configuration
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		Hour:          2,
		Minute:        0,
		CheckInterval: time.Minute,
	}
}

// Validate checks the configured wall-clock time
func (c DailyTriggerConfig) Validate() error {
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("%w: daily time %02d:%02d", ErrInvalidConfig, c.Hour, c.Minute)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("%w: check interval must be positive", ErrInvalidConfig)
	}
	return nil
}

type namedTask struct {
	name string
	task Task
}

// DailyTrigger submits its registered tasks to a Scheduler once a day
type DailyTrigger struct {
	config    DailyTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	tasks       []namedTask
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a daily trigger feeding scheduler
func NewDailyTrigger(config DailyTriggerConfig, scheduler *Scheduler, logger *zap.Logger) (*DailyTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Register adds a task to the daily run. Tasks run in registration order.
func (d *DailyTrigger) Register(name string, task Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, namedTask{name: name, task: task})
}

// Tasks returns the registered task names
func (d *DailyTrigger) Tasks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.tasks))
	for i, t := range d.tasks {
		names[i] = t.name
	}
	return names
}

// Start starts the trigger loop
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isRunning {
		return nil
	}
	d.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("daily_hour", d.config.Hour),
		zap.Int("daily_minute", d.config.Minute),
		zap.Duration("check_interval", d.config.CheckInterval),
		zap.Int("tasks", len(d.tasks)),
	)
	return nil
}

// Stop stops the trigger loop
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits the registered tasks at most once per calendar
// day, on the first check that falls on or after the configured time.
func (d *DailyTrigger) checkAndTrigger() bool {
	now := d.now()
	currentDate := now.Format("2006-01-02")

	d.mu.Lock()
	if d.lastRunDate == currentDate {
		d.mu.Unlock()
		return false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), d.config.Hour, d.config.Minute, 0, 0, now.Location())
	if now.Before(due) {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = currentDate
	tasks := append([]namedTask(nil), d.tasks...)
	d.mu.Unlock()

	d.logger.Info("Triggering daily tasks", zap.String("date", currentDate), zap.Int("tasks", len(tasks)))
	for _, t := range tasks {
		if _, err := d.scheduler.Submit(t.name, t.task); err != nil {
			d.logger.Error("Failed to submit daily task",
				zap.String("job", t.name),
				zap.Error(err),
			)
		}
	}
	return true
}

// RunNow submits the named task immediately, outside the daily window
func (d *DailyTrigger) RunNow(name string) (*Job, error) {
	d.mu.Lock()
	var task Task
	for _, t := range d.tasks {
		if t.name == name {
			task = t.task
			break
		}
	}
	d.mu.Unlock()

	if task == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return d.scheduler.Submit(name, task)
}
