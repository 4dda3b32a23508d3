package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"tradesync/internal/caching"
	"tradesync/internal/services"
	"tradesync/internal/sync"
)

// Task type definitions
const (
	TypeCatalogSync   = "catalog:sync"
	TypeOrderSend     = "order:send"
	TypeImageDownload = "image:download"
)

// OrderSendPayload identifies the order to push to the vendor.
type OrderSendPayload struct {
	OrderID uuid.UUID `json:"order_id"`
}

// ImageDownloadPayload identifies one vendor photo to cache locally.
type ImageDownloadPayload struct {
	Photo    string    `json:"photo"`
	Kind     string    `json:"kind"` // "category" or "product"
	RecordID uuid.UUID `json:"record_id"`
}

// NewCatalogSyncTask creates a full catalog sync task.
func NewCatalogSyncTask() *asynq.Task {
	return asynq.NewTask(TypeCatalogSync, nil)
}

// NewOrderSendTask creates an order submission task.
func NewOrderSendTask(orderID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderSendPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderSend, payload), nil
}

// NewImageDownloadTask creates an image caching task.
func NewImageDownloadTask(photo, kind string, recordID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageDownloadPayload{Photo: photo, Kind: kind, RecordID: recordID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImageDownload, payload), nil
}

// taskClient is the slice of asynq.Client the enqueuer uses.
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules tasks on the queue. It backs both the HTTP trigger
// endpoints and the image downloads requested during a sync pass.
type Enqueuer struct {
	client taskClient
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueCatalogSync schedules one catalog pass. Passes are deduplicated by
// task id so overlapping triggers cannot run two passes at once. asynq wraps
// the conflict sentinel, so it has to be unwrapped here.
func (e *Enqueuer) EnqueueCatalogSync(ctx context.Context) error {
	_, err := e.client.EnqueueContext(ctx, NewCatalogSyncTask(),
		asynq.TaskID(TypeCatalogSync), asynq.MaxRetry(0))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Printf("jobs: catalog sync already queued")
		return nil
	}
	return err
}

// EnqueueOrderSend schedules submission of one order.
func (e *Enqueuer) EnqueueOrderSend(ctx context.Context, orderID uuid.UUID) error {
	task, err := NewOrderSendTask(orderID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	return err
}

// EnqueueImageDownload schedules caching of one vendor photo.
func (e *Enqueuer) EnqueueImageDownload(ctx context.Context, photo, kind string, recordID uuid.UUID) error {
	task, err := NewImageDownloadTask(photo, kind, recordID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	return err
}

// Handlers processes queued tasks.
type Handlers struct {
	syncer *sync.Syncer
	sender *sync.OrderSender
	images *services.ImageService
	cache  caching.CacheService
}

func NewHandlers(syncer *sync.Syncer, sender *sync.OrderSender, images *services.ImageService, cache caching.CacheService) *Handlers {
	return &Handlers{
		syncer: syncer,
		sender: sender,
		images: images,
		cache:  cache,
	}
}

// Register mounts the handlers on an asynq mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeCatalogSync, h.HandleCatalogSync)
	mux.HandleFunc(TypeOrderSend, h.HandleOrderSend)
	mux.HandleFunc(TypeImageDownload, h.HandleImageDownload)
}

// HandleCatalogSync runs one full reconciliation pass and records its result.
func (h *Handlers) HandleCatalogSync(ctx context.Context, _ *asynq.Task) error {
	result := h.syncer.Run(ctx)

	if err := h.cache.SetSyncStatus(ctx, result); err != nil {
		log.Printf("jobs: record sync status: %v", err)
	}
	if result.Status == sync.PassFailed {
		return fmt.Errorf("catalog sync failed: %s", result.Error)
	}
	if err := h.cache.InvalidateCatalog(ctx); err != nil {
		log.Printf("jobs: invalidate catalog cache: %v", err)
	}
	return nil
}

// HandleOrderSend pushes one order to the vendor. The cancelled outcome is
// terminal success: the order was already submitted.
func (h *Handlers) HandleOrderSend(ctx context.Context, t *asynq.Task) error {
	var payload OrderSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order payload: %w: %w", err, asynq.SkipRetry)
	}

	outcome, err := h.sender.Send(ctx, payload.OrderID)
	switch outcome {
	case sync.OutcomeCancelled:
		return nil
	case sync.OutcomeDone:
		return nil
	default:
		return fmt.Errorf("order %s submission failed: %w", payload.OrderID, err)
	}
}

// HandleImageDownload caches one vendor photo.
func (h *Handlers) HandleImageDownload(ctx context.Context, t *asynq.Task) error {
	var payload ImageDownloadPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode image payload: %w: %w", err, asynq.SkipRetry)
	}
	if h.images == nil {
		// Task left over from before file caching was switched off.
		return fmt.Errorf("image caching disabled: %w", asynq.SkipRetry)
	}
	return h.images.FetchAndStore(ctx, payload.Photo, payload.Kind, payload.RecordID)
}
