package martmanager

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/business/holiday"
	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs shortly after midnight in Korea, once the reference date has rolled over
const DefaultSchedule = "5 0 * * *"

// WatchMarts loads all marts on conf.Schedule, evaluated in Korean time, until shutdownSignal is closed
func WatchMarts(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	conf Conf,
	shutdownSignal chan os.Signal) error {
	sources, err := makeSources(conf, nil)
	if err != nil {
		return err
	}
	publisher := makeMartBatchPublisher(log, db, natsConnection, conf)
	scheduler, err := makeScheduler(log, conf.Schedule, func(ctx context.Context, reference time.Time) {
		_, err := updateMarts(ctx, log, publisher, sources, reference)
		if err != nil {
			log.Printf("Failed to update marts as of %v, error: %v", reference, err)
		}
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Printf("Watching marts on schedule %q, next run at %v", conf.Schedule, scheduler.Entries()[0].Next)
	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, waiting for running load to complete")
	<-scheduler.Stop().Done()
	return nil
}

// makeScheduler creates a cron.Cron in holiday.KST that calls load with the time of each tick.
// A tick is skipped while the previous load is still running.
func makeScheduler(log *log.Logger,
	schedule string,
	load func(ctx context.Context, reference time.Time)) (*cron.Cron, error) {
	logger := cron.PrintfLogger(log)
	scheduler := cron.New(
		cron.WithLocation(holiday.KST),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := scheduler.AddFunc(schedule, func() {
		load(context.Background(), time.Now().In(holiday.KST))
	})
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}
