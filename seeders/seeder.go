package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run наполняет базу стартовыми данными. Повторный запуск безопасен.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("Запуск сидера...")

	if err := seedUsers(ctx, db); err != nil {
		return err
	}

	log.Println("Сидер завершён.")
	return nil
}
