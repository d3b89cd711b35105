package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/muims-dev/muims/db"
)

// SetupPostgresForIntegration returns a migrated gorm handle against either
// an externally provided database (TEST_DB_DSN) or a throwaway Postgres
// container.
func SetupPostgresForIntegration() (*gorm.DB, func()) {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		gormDB := openAndMigrate(dsn)
		return gormDB, func() {}
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "muims",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatal(err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/muims?sslmode=disable", host, port.Port())
	waitForDB(dsn)

	gormDB := openAndMigrate(dsn)
	cleanup := func() {
		_ = pg.Terminate(ctx)
	}
	return gormDB, cleanup
}

func waitForDB(dsn string) {
	var err error
	for i := 0; i < 10; i++ {
		var conn *sql.DB
		conn, err = sql.Open("postgres", dsn)
		if err == nil {
			err = conn.Ping()
			_ = conn.Close()
			if err == nil {
				return
			}
		}
		time.Sleep(1 * time.Second)
	}
	log.Fatal(err)
}

func openAndMigrate(dsn string) *gorm.DB {
	gormDB, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.Exec(`DO $$ BEGIN CREATE TYPE incident_status AS ENUM ('Open', 'In Progress', 'Resolved'); EXCEPTION WHEN duplicate_object THEN null; END $$;`).Error; err != nil {
		log.Fatal(err)
	}
	if err := gormDB.Exec(`DO $$ BEGIN CREATE TYPE incident_severity AS ENUM ('Low', 'Medium', 'High'); EXCEPTION WHEN duplicate_object THEN null; END $$;`).Error; err != nil {
		log.Fatal(err)
	}
	if err := gormDB.Exec(`DO $$ BEGIN CREATE TYPE incident_category AS ENUM ('mechanical', 'electrical', 'software'); EXCEPTION WHEN duplicate_object THEN null; END $$;`).Error; err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal(err)
	}
	return gormDB
}
