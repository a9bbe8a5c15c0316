package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/alimikegami/pos-microservices/payment-service/internal/app"
	"github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/database/postgres"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()
	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate the database")
	}

	server := app.CreateApp(db, config)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		if err := server.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server")
		}
	}()

	server.Start()
}
