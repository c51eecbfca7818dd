package checkers

import (
	"context"
	"fmt"
	"time"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

// StoreChecker verifies the record store backend can enumerate collections.
type StoreChecker struct {
	backend recordstore.Backend
}

func NewStoreChecker(backend recordstore.Backend) *StoreChecker {
	return &StoreChecker{backend: backend}
}

func (c *StoreChecker) Name() string { return "store" }

func (c *StoreChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, err := c.backend.List(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker wraps any dependency exposing Ping, such as the SQLite backend.
type PingChecker struct {
	name string
	p    pinger
}

func NewPingChecker(name string, p pinger) *PingChecker {
	return &PingChecker{name: name, p: p}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.p.Ping(ctx)
}
