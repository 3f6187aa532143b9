package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
)

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// WalletCache caches wallet snapshots for read endpoints. Mutating operations
// never consult it; they read the locked row and invalidate the cache after
// commit.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWalletCache creates a WalletCache with the given TTL.
func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{client: client, ttl: ttl}
}

func walletKey(ownerID uint) string {
	return fmt.Sprintf("wallet:%d", ownerID)
}

// GetWallet returns the cached wallet for an owner, or (nil, false) on a miss.
func (c *WalletCache) GetWallet(ctx context.Context, ownerID uint) (*models.Wallet, bool) {
	data, err := c.client.Get(ctx, walletKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, false
	}
	return &wallet, true
}

// SetWallet stores a wallet snapshot.
func (c *WalletCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %w", err)
	}
	return c.client.Set(ctx, walletKey(wallet.OwnerID), data, c.ttl).Err()
}

// InvalidateWallet drops the cached snapshot for an owner.
func (c *WalletCache) InvalidateWallet(ctx context.Context, ownerID uint) error {
	return c.client.Del(ctx, walletKey(ownerID)).Err()
}

// Close releases the underlying redis connection.
func (c *WalletCache) Close() error {
	return c.client.Close()
}
