package main

import (
	"context"
	"log"

	"snab-system/pkg/config"
	"snab-system/pkg/database/postgresql"
	"snab-system/seeders"
)

func main() {
	cfg := config.New()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	db := postgresql.ConnectDB()
	defer db.Close()

	if err := seeders.Run(context.Background(), db); err != nil {
		log.Fatalf("Сидер завершился с ошибкой: %v", err)
	}
}
