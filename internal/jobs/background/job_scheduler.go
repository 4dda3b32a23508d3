package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"tradesync/internal/config"
	"tradesync/internal/jobs"
	"tradesync/internal/repositories"
)

// JobScheduler drives the periodic work: catalog sync passes and re-submission
// of orders the vendor has not accepted yet.
type JobScheduler struct {
	scheduler gocron.Scheduler
	enqueuer  *jobs.Enqueuer
	orders    repositories.OrderRepository
	interval  time.Duration
	batch     int
}

// NewJobScheduler creates the scheduler and registers its jobs.
func NewJobScheduler(enqueuer *jobs.Enqueuer, orders repositories.OrderRepository, cfg *config.Config) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		enqueuer:  enqueuer,
		orders:    orders,
		interval:  time.Duration(cfg.Sync.IntervalMinutes) * time.Minute,
		batch:     cfg.Sync.OrderBatch,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler.
func (js *JobScheduler) Start() {
	log.Printf("scheduler: starting, catalog sync every %s", js.interval)
	js.scheduler.Start()
}

// Stop stops the job scheduler.
func (js *JobScheduler) Stop() error {
	log.Printf("scheduler: stopping")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	// Catalog sync; singleton mode keeps overlapping passes from piling up.
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.enqueueCatalogSync),
		gocron.WithName("catalog-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	// Unsent orders are retried on a tighter loop than the catalog.
	_, err = js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.enqueuePendingOrders),
		gocron.WithName("pending-orders"),
	)
	return err
}

func (js *JobScheduler) enqueueCatalogSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := js.enqueuer.EnqueueCatalogSync(ctx); err != nil {
		log.Printf("scheduler: enqueue catalog sync: %v", err)
	}
}

func (js *JobScheduler) enqueuePendingOrders() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := js.orders.ListUnsent(ctx, js.batch)
	if err != nil {
		log.Printf("scheduler: list unsent orders: %v", err)
		return
	}
	for _, order := range orders {
		if err := js.enqueuer.EnqueueOrderSend(ctx, order.ID); err != nil {
			log.Printf("scheduler: enqueue order %s: %v", order.ID, err)
		}
	}
}
