package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// cartTTL bounds how long an idle cart survives between sessions.
const cartTTL = 72 * time.Hour

// CartLine is one product's entry in a manager's in-progress purchase order.
type CartLine struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	PricePerUnit string `json:"price_per_unit"`
}

// CartRepository is the server-side replacement for the browser-local
// purchase cart: one redis hash per user, product id as field.
type CartRepository interface {
	Put(ctx context.Context, userID string, line CartLine) error
	Remove(ctx context.Context, userID, productID string) error
	Lines(ctx context.Context, userID string) ([]CartLine, error)
	Clear(ctx context.Context, userID string) error
}

type cartRepository struct {
	rdb *redis.Client
}

func NewCartRepository(rdb *redis.Client) CartRepository {
	return &cartRepository{rdb: rdb}
}

func cartKey(userID string) string {
	return "po_cart:" + userID
}

func (r *cartRepository) Put(ctx context.Context, userID string, line CartLine) error {
	payload, err := json.Marshal(line)
	if err != nil {
		return err
	}
	key := cartKey(userID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, line.ProductID, payload)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store cart line: %w", err)
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, productID string) error {
	return r.rdb.HDel(ctx, cartKey(userID), productID).Err()
}

func (r *cartRepository) Lines(ctx context.Context, userID string) ([]CartLine, error) {
	entries, err := r.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	lines := make([]CartLine, 0, len(entries))
	for _, raw := range entries {
		var line CartLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("corrupt cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, cartKey(userID)).Err()
}
