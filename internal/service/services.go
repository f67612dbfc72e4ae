package service

import (
	"github.com/canchaclub/cancha-go/internal/invoicing"
	redisx "github.com/canchaclub/cancha-go/internal/redis"
	postgres "github.com/canchaclub/cancha-go/internal/repository/postgres"
	redis "github.com/canchaclub/cancha-go/internal/repository/redis"
	"github.com/canchaclub/cancha-go/internal/schedule"
	"github.com/canchaclub/cancha-go/internal/service/blocks"
	"github.com/canchaclub/cancha-go/internal/service/booking"
	"github.com/canchaclub/cancha-go/internal/service/query"
	"github.com/canchaclub/cancha-go/internal/service/registry"
)

type Services struct {
	Registry *registry.Service
	Booking  *booking.Service
	Blocks   *blocks.Service
	Query    *query.Service
}

type Config struct {
	Query query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.SchedulePubSub,
	invoicer *invoicing.Client,
	clock schedule.Clock,
	cfg Config,
) *Services {
	return &Services{
		Registry: registry.New(store, cache),
		Booking:  booking.New(store, cache, pubsub, invoicer),
		Blocks:   blocks.New(store, cache, pubsub),
		Query:    query.New(store, cache, clock, cfg.Query),
	}
}
