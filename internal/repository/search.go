package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrSearchResultNotFound = errors.New("search result not found")

const searchKeyPrefix = "search:"

// SearchRepository caches engine results keyed by board notation.
type SearchRepository interface {
	CreateOrUpdate(ctx context.Context, position string, result *entity.SearchResult) error
	GetByPosition(ctx context.Context, position string) (*entity.SearchResult, error)
	DeleteByPosition(ctx context.Context, position string) error
}

type dbSearch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchRepository returns a Redis backed cache. A zero ttl keeps entries forever.
func NewSearchRepository(client *redis.Client, ttl time.Duration) SearchRepository {
	return &dbSearch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSearch) CreateOrUpdate(ctx context.Context, position string, result *entity.SearchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal search result: %w", err)
	}

	if err = that.client.Set(ctx, searchKeyPrefix+position, resultJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set search result: %w", err)
	}

	return nil
}

func (that *dbSearch) GetByPosition(ctx context.Context, position string) (*entity.SearchResult, error) {
	response, err := that.client.Get(ctx, searchKeyPrefix+position).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSearchResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get search result by position: %w", err)
	}

	var result entity.SearchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search result: %w", err)
	}

	return &result, nil
}

func (that *dbSearch) DeleteByPosition(ctx context.Context, position string) error {
	deleted, err := that.client.Del(ctx, searchKeyPrefix+position).Result()
	if err != nil {
		return fmt.Errorf("failed to delete search result: %w", err)
	}

	if deleted == 0 {
		return ErrSearchResultNotFound
	}

	return nil
}
