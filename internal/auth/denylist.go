package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/grievance_system/internal/models"
)

// Denylist stores the JTIs of logged-out tokens until their original expiry.
type Denylist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// GormDenylist keeps revoked tokens in the revoked_tokens table.
type GormDenylist struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormDenylist returns a Denylist backed by the relational store.
func NewGormDenylist(db *gorm.DB) *GormDenylist {
	return &GormDenylist{db: db, now: time.Now}
}

// Add records jti and purges entries that have already expired.
func (d *GormDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.RevokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
			return err
		}
		return tx.Where("expires_at < ?", d.now().UTC()).Delete(&models.RevokedToken{}).Error
	})
}

// Contains reports whether jti is revoked and not yet expired.
func (d *GormDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	var entry models.RevokedToken
	err := d.db.WithContext(ctx).Where("jti = ?", jti).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return d.now().Before(entry.ExpiresAt), nil
}

// redisStore is the subset of the redis client used by RedisDenylist.
type redisStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

const redisKeyPrefix = "grievance:revoked:"

// RedisDenylist keeps revoked tokens as expiring redis keys.
type RedisDenylist struct {
	rdb redisStore
	now func() time.Time
}

// NewRedisDenylist returns a Denylist backed by redis.
func NewRedisDenylist(rdb redisStore) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, now: time.Now}
}

// Add sets a key that expires together with the token.
func (d *RedisDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, redisKeyPrefix+jti, "1", ttl).Err()
}

// Contains reports whether the key for jti still exists.
func (d *RedisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
