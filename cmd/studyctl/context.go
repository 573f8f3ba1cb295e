package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"studymate/internal/adapter/repo"
	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/infra/credentials"
)

// keyStore is the part of credentials.Store the keys commands use.
type keyStore interface {
	Set(ctx context.Context, provider, key string) error
	List(ctx context.Context) ([]credentials.Entry, error)
}

// commandContext opens the database once per invocation. Tests fill the
// repository fields directly and never touch a database.
type commandContext struct {
	databaseURL string
	timeout     time.Duration

	once    sync.Once
	sql     infra.SQLExecutor
	pool    *pgxpool.Pool
	openErr error

	users domain.UserRepository
	stats domain.StatsRepository
	keys  keyStore
}

func newCommandContext() *commandContext {
	return &commandContext{timeout: 30 * time.Second}
}

func (c *commandContext) db(ctx context.Context) (infra.SQLExecutor, error) {
	c.once.Do(func() {
		url := strings.TrimSpace(c.databaseURL)
		if url == "" {
			url = strings.TrimSpace(os.Getenv("DATABASE_URL"))
		}
		if url == "" {
			c.openErr = errors.New("DATABASE_URL is required (flag --database-url or environment)")
			return
		}
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			c.openErr = err
			return
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			c.openErr = err
			return
		}
		logger := infra.NewLogger("cli", "warn").With().Str("cmd", "studyctl").Logger()
		c.pool = pool
		c.sql = infra.NewSQLRunner(pool, logger)
	})
	return c.sql, c.openErr
}

func (c *commandContext) userRepo(ctx context.Context) (domain.UserRepository, error) {
	if c.users != nil {
		return c.users, nil
	}
	sql, err := c.db(ctx)
	if err != nil {
		return nil, err
	}
	c.users = repo.NewUserRepository(sql)
	return c.users, nil
}

func (c *commandContext) statsRepo(ctx context.Context) (domain.StatsRepository, error) {
	if c.stats != nil {
		return c.stats, nil
	}
	sql, err := c.db(ctx)
	if err != nil {
		return nil, err
	}
	c.stats = repo.NewStatsRepository(sql)
	return c.stats, nil
}

func (c *commandContext) keyStore(ctx context.Context) (keyStore, error) {
	if c.keys != nil {
		return c.keys, nil
	}
	sql, err := c.db(ctx)
	if err != nil {
		return nil, err
	}
	c.keys = credentials.NewStore(sql)
	return c.keys, nil
}

func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
