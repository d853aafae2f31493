package main

import (
	"database/sql"
	"flag"
	"log"

	"procurement-system/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Прогон миграций: go run ./app/migrate -dir migrations [-down]
func main() {
	dir := flag.String("dir", "migrations", "каталог с миграциями")
	down := flag.Bool("down", false, "откатить последнюю миграцию вместо наката")
	flag.Parse()

	cfg := config.New()

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}

	if *down {
		if err := goose.Down(db, *dir); err != nil {
			log.Fatalf("откат миграции не удался: %v", err)
		}
		return
	}
	if err := goose.Up(db, *dir); err != nil {
		log.Fatalf("накат миграций не удался: %v", err)
	}
}
