package sqlstore

import (
	"context"

	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type pinger struct{ s *Store }

// NewPinger adapts the store handle to the repository.Pinger interface.
func NewPinger(s *Store) repository.Pinger { return &pinger{s: s} }

func (p *pinger) Ping(ctx context.Context) error { return p.s.db.PingContext(ctx) }
