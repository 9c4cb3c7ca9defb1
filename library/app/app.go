package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/events"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/internal/storage"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	images, err := storage.New(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}

	var (
		publisher service.EventPublisher = events.Recorder(repo.SaveLoanEvent)
		consumer  sarama.ConsumerGroup
	)
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		pub := events.NewPublisher(producer, kafka.LoanEventsTopic, log)
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error("producer close", zap.Error(err))
			}
		}()
		publisher = pub

		consumer, err = kafka.NewConsumer(cfg.Kafka, kafka.LoanHistoryConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
	} else {
		log.Info("kafka disabled, loan history is written directly")
	}

	svc := service.NewService(repo, images, publisher, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	if consumer != nil {
		g.Go(func() error {
			return kafka.Consume(gCtx, consumer, handler.NewConsumer(svc.RecordLoanEvent, log), kafka.LoanEventsTopic)
		})
	}
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if consumer != nil {
			if err := consumer.Close(); err != nil {
				log.Error("consumer close", zap.Error(err))
			}
		}
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("library stopped", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
