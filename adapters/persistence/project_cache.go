package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

const (
	projectListKey  = "projects:all"
	projectKeyBase  = "projects:"
	projectCacheTTL = 5 * time.Minute
)

// ProjectCache is a read-through cache over redis for the project read
// endpoints. Misses and redis failures fall back to the repository; writes
// only ever delete keys, the TTL bounds staleness if an invalidation is lost.
// A nil *ProjectCache is a no-op, which keeps tests free of redis.
type ProjectCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewProjectCache(rdb *redis.Client, log logger.Logger) *ProjectCache {
	return &ProjectCache{rdb: rdb, logger: log}
}

func (c *ProjectCache) GetList(ctx context.Context) ([]*project.Project, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, projectListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("project list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var projects []*project.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		c.logger.Warn("project list cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return projects, true
}

func (c *ProjectCache) SetList(ctx context.Context, projects []*project.Project) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, projectListKey, raw, projectCacheTTL).Err(); err != nil {
		c.logger.Warn("project list cache write failed", zap.Error(err))
	}
}

func (c *ProjectCache) GetOne(ctx context.Context, id int64) (*project.Project, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, projectKeyBase+strconv.FormatInt(id, 10)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("project cache read failed", zap.Int64("project_id", id), zap.Error(err))
		}
		return nil, false
	}
	p := &project.Project{}
	if err := json.Unmarshal(raw, p); err != nil {
		c.logger.Warn("project cache entry corrupt", zap.Int64("project_id", id), zap.Error(err))
		return nil, false
	}
	return p, true
}

func (c *ProjectCache) SetOne(ctx context.Context, p *project.Project) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	key := projectKeyBase + strconv.FormatInt(p.ID, 10)
	if err := c.rdb.Set(ctx, key, raw, projectCacheTTL).Err(); err != nil {
		c.logger.Warn("project cache write failed", zap.Int64("project_id", p.ID), zap.Error(err))
	}
}

// Invalidate drops both the single-project entry and the list entry.
func (c *ProjectCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	keys := []string{projectListKey, projectKeyBase + strconv.FormatInt(id, 10)}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("project cache invalidation failed", zap.Int64("project_id", id), zap.Error(err))
	}
}
