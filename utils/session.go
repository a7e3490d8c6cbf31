// utils/session.go
package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Active tenant selection is persisted per user so it survives reloads and
// restarts, the server-side counterpart of the client's single
// active_tenant_id key. When Redis is unavailable the selection falls back
// to process memory and lives only as long as the process.

const activeTenantKeyPrefix = "active_tenant:"

var (
	activeTenantFallback   = make(map[string]string)
	activeTenantFallbackMu sync.RWMutex
)

// SaveActiveTenant persists the user's active tenant id.
func SaveActiveTenant(client *redis.Client, userID, tenantID string) error {
	if client == nil {
		activeTenantFallbackMu.Lock()
		activeTenantFallback[userID] = tenantID
		activeTenantFallbackMu.Unlock()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Set(ctx, activeTenantKeyPrefix+userID, tenantID, 0).Err()
}

// LoadActiveTenant returns the persisted active tenant id, or "" when none
// was saved.
func LoadActiveTenant(client *redis.Client, userID string) string {
	if client == nil {
		activeTenantFallbackMu.RLock()
		defer activeTenantFallbackMu.RUnlock()
		return activeTenantFallback[userID]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	val, err := client.Get(ctx, activeTenantKeyPrefix+userID).Result()
	if err != nil {
		return ""
	}
	return val
}

// ClearActiveTenant drops the persisted selection, e.g. when the user loses
// their membership in the saved tenant.
func ClearActiveTenant(client *redis.Client, userID string) {
	if client == nil {
		activeTenantFallbackMu.Lock()
		delete(activeTenantFallback, userID)
		activeTenantFallbackMu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client.Del(ctx, activeTenantKeyPrefix+userID)
}
