package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tradesync/internal/models"
	"tradesync/internal/sync"
)

// CacheService is the redis-backed read cache for the catalog endpoints plus
// the record of the last sync pass.
type CacheService interface {
	SetSyncStatus(ctx context.Context, result sync.Result) error
	GetSyncStatus(ctx context.Context) (*sync.Result, error)

	GetCategories(ctx context.Context, status models.Status, limit, offset int) ([]*models.Category, error)
	SetCategories(ctx context.Context, status models.Status, limit, offset int, categories []*models.Category) error
	GetProducts(ctx context.Context, status models.Status, limit, offset int) ([]*models.Product, error)
	SetProducts(ctx context.Context, status models.Status, limit, offset int, products []*models.Product) error

	InvalidateCatalog(ctx context.Context) error
	Ping(ctx context.Context) error
}

const (
	syncStatusKey = "tradesync:sync:status"
	catalogPrefix = "tradesync:catalog:"
	catalogTTL    = 5 * time.Minute
)

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects a cache service. A failed initial ping is
// logged, not fatal: the service degrades to uncached reads.
func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("cache: redis ping failed on initialization: %v (address: %s)", err, addr)
	}

	return &redisCacheService{client: client}
}

func (s *redisCacheService) SetSyncStatus(ctx context.Context, result sync.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal sync status: %w", err)
	}
	return s.client.Set(ctx, syncStatusKey, data, 0).Err()
}

func (s *redisCacheService) GetSyncStatus(ctx context.Context) (*sync.Result, error) {
	data, err := s.client.Get(ctx, syncStatusKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result := &sync.Result{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("unmarshal sync status: %w", err)
	}
	return result, nil
}

func catalogKey(kind string, status models.Status, limit, offset int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", catalogPrefix, kind, status, limit, offset)
}

func (s *redisCacheService) GetCategories(ctx context.Context, status models.Status, limit, offset int) ([]*models.Category, error) {
	var categories []*models.Category
	if err := s.getJSON(ctx, catalogKey("categories", status, limit, offset), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *redisCacheService) SetCategories(ctx context.Context, status models.Status, limit, offset int, categories []*models.Category) error {
	return s.setJSON(ctx, catalogKey("categories", status, limit, offset), categories)
}

func (s *redisCacheService) GetProducts(ctx context.Context, status models.Status, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	if err := s.getJSON(ctx, catalogKey("products", status, limit, offset), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *redisCacheService) SetProducts(ctx context.Context, status models.Status, limit, offset int, products []*models.Product) error {
	return s.setJSON(ctx, catalogKey("products", status, limit, offset), products)
}

// InvalidateCatalog drops every cached catalog page. Called after a completed
// sync pass so readers never see a mix of old and new records.
func (s *redisCacheService) InvalidateCatalog(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, catalogPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisCacheService) getJSON(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			// Degrade to a cache miss when redis is down.
			return nil
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *redisCacheService) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, catalogTTL).Err()
}
