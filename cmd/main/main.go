package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/242617/hasql/application"
	"github.com/242617/hasql/balancer/greedy"
	"github.com/242617/hasql/config"
	"github.com/242617/hasql/config/source/file"
	"github.com/242617/hasql/driver/pgxadapter"
	"github.com/242617/hasql/events"
	"github.com/242617/hasql/kafka/producer"
	"github.com/242617/hasql/logger"
	"github.com/242617/hasql/metrics"
	"github.com/242617/hasql/poolmanager"
)

func main() {
	log, err := logger.New(
		logger.WithLevel(logger.LevelDebug),
		logger.WithDevelopmentConfig(),
	)
	die(err)

	ctx := context.Background()

	start := time.Now()
	log.Debug(ctx, "start")
	defer func() { log.Debug(ctx, "stop", "in", time.Since(start)) }()

	var cfg struct {
		DB               poolmanager.Config `yaml:"db"`
		MessagesProducer producer.Config    `yaml:"messages_producer"`
	}
	die(config.New().With(file.YAML("config.yaml")).Scan(&cfg))

	eventsProducer, err := producer.New(
		producer.WithLogger(log.New("producer")),
		producer.WithBrokers(cfg.MessagesProducer.Brokers...),
		producer.WithTopic(cfg.MessagesProducer.Topic),
	)
	die(err)

	notifier := events.NewNotifier(eventsProducer, log.New("events"))

	mgr, err := poolmanager.New(
		poolmanager.WithConfig(cfg.DB),
		poolmanager.WithAdapter(pgxadapter.New()),
		poolmanager.WithBalancerPolicy(greedy.New()),
		poolmanager.WithLogger(log.New("poolmanager")),
		poolmanager.WithSink(notifier),
	)
	die(err)

	die(prometheus.Register(metrics.NewPrometheusCollector(mgr, "hasql")))

	app, err := application.New(
		application.WithLogger(log.New("application")),
		application.WithName("main"),
		application.WithComponents(
			application.NewLifecycleComponent("producer", eventsProducer),
			application.NewLifecycleComponent("poolmanager", mgr),
		),
	)
	die(err)

	die(app.Run(ctx))
}

func die(args ...any) {
	if len(args) == 0 {
		return
	}
	if err, ok := args[len(args)-1].(error); ok && err != nil {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("%s:%d: %s", file, line, err.Error())
		os.Exit(1)
	}
}
