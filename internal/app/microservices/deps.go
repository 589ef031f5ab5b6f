package microservices

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/ride-scheduler/config"
	"github.com/Temutjin2k/ride-scheduler/internal/adapter/http/handler"
	repo "github.com/Temutjin2k/ride-scheduler/internal/adapter/postgres"
	"github.com/Temutjin2k/ride-scheduler/internal/adapter/rabbit"
	"github.com/Temutjin2k/ride-scheduler/internal/adapter/redis"
	"github.com/Temutjin2k/ride-scheduler/internal/service/matching"
	"github.com/Temutjin2k/ride-scheduler/internal/service/scheduler"
	"github.com/Temutjin2k/ride-scheduler/pkg/clock"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	"github.com/Temutjin2k/ride-scheduler/pkg/postgres"
	rabbitmq "github.com/Temutjin2k/ride-scheduler/pkg/rabbit"
	redisclient "github.com/Temutjin2k/ride-scheduler/pkg/redis"
	"github.com/Temutjin2k/ride-scheduler/pkg/trm"
)

// deps holds the connections shared by both modes.
type deps struct {
	postgresDB *postgres.PostgreDB
	rabbit     *rabbitmq.RabbitMQ
	redis      *goredis.Client

	scheduler *scheduler.Service
	log       logger.Logger
}

func newDeps(ctx context.Context, cfg config.Config, log logger.Logger) (_ *deps, err error) {
	d := &deps{log: log}
	defer func() {
		if err != nil {
			d.close(ctx)
		}
	}()

	d.postgresDB, err = postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	d.rabbit, err = rabbitmq.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "Failed to setup rabbitmq", err)
		return nil, err
	}

	clk := clock.Real()
	notifier := rabbit.NewNotificationProducer(d.rabbit, clk)
	if err = notifier.Setup(ctx); err != nil {
		log.Error(ctx, "Failed to declare notification exchange", err)
		return nil, err
	}

	opts := []scheduler.Option{scheduler.WithTickInterval(cfg.Scheduler.TickInterval)}
	if cfg.Redis.Enabled() {
		d.redis, err = redisclient.New(ctx, cfg.Redis)
		if err != nil {
			log.Error(ctx, "Failed to setup redis", err)
			return nil, err
		}
		opts = append(opts, scheduler.WithCycleLock(redis.NewCycleLock(d.redis, cfg.Scheduler.LockTTL)))
	} else {
		log.Warn(ctx, "redis is not configured, scheduler replicas are not coordinated")
	}

	pool := d.postgresDB.Pool
	scheduledRides := repo.NewScheduledRideRepo(pool)
	d.scheduler = scheduler.NewService(
		scheduledRides,
		repo.NewRideRequestRepo(pool),
		repo.NewScheduledRideEventRepo(pool),
		matching.NewMatcher(repo.NewDriverRepo(pool), log),
		notifier,
		trm.New(pool),
		clk,
		log,
		opts...,
	)

	return d, nil
}

// healthChecks returns the dependency checks served on /health.
func (d *deps) healthChecks() map[string]handler.Check {
	checks := map[string]handler.Check{
		"postgres": func(ctx context.Context) error {
			return d.postgresDB.Pool.Ping(ctx)
		},
		"rabbitmq": func(ctx context.Context) error {
			if d.rabbit.IsConnectionClosed() {
				return errors.New("connection closed")
			}
			return nil
		},
	}
	if d.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (d *deps) close(ctx context.Context) {
	if d.rabbit != nil {
		if err := d.rabbit.Close(ctx); err != nil {
			d.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}

	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.log.Warn(ctx, "Failed to close redis client", "error", err.Error())
		}
	}

	d.postgresDB.Close()
}
