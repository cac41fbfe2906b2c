package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mifops/gmao-core/internal/db"
	"github.com/mifops/gmao-core/internal/notify"
	"github.com/mifops/gmao-core/internal/scheduler"
	"github.com/mifops/gmao-core/internal/workorder"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.JSONFormatter{})

	interval := 5 * time.Minute
	if v := os.Getenv("SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	database := db.Database(client)

	orders := &db.MongoWorkOrderCollection{Collection: database.Collection(db.WorkOrdersCollection)}
	plans := &db.MongoPlanCollection{Collection: database.Collection(db.PlansCollection)}
	directory := &db.MongoDirectory{
		Equipment:   database.Collection(db.EquipmentCollection),
		Technicians: database.Collection(db.TechniciansCollection),
	}

	var sink notify.Sink = notify.NopSink{}
	if os.Getenv("MQTT_BROKER") != "" {
		mqttSink, err := notify.NewMQTTSink()
		if err != nil {
			log.Warnf("MQTT sink unavailable, events will not be published: %v", err)
		} else {
			sink = mqttSink
			defer mqttSink.Close()
		}
	}

	workOrderService := workorder.NewService(orders, directory, sink)
	schedulerService := scheduler.NewService(plans, directory, sink, workOrderService)

	log.WithField("interval", interval).Info("Starting maintenance sweep daemon")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := schedulerService.SweepDue(ctx, time.Now())
		if err != nil {
			log.WithError(err).Error("Sweep failed")
			return
		}
		log.WithFields(log.Fields{
			"checked": result.Checked,
			"overdue": result.Overdue,
			"spawned": result.Spawned,
		}).Info("Sweep completed")
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-stop:
			log.WithField("signal", sig.String()).Info("Shutting down sweep daemon")
			return
		}
	}
}
