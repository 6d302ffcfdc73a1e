package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
)

func main() {
	var seedAdmin bool
	var adminPassword string
	flag.BoolVar(&seedAdmin, "seed-admin", false, "Create the default owner account if no users exist")
	flag.StringVar(&adminPassword, "admin-password", "", "Password for the seeded owner account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration", zap.String("driver", cfg.Database.Driver))
	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Schema migration complete")

	if seedAdmin {
		if adminPassword == "" {
			log.Error("Refusing to seed owner account without -admin-password")
			os.Exit(1)
		}
		if err := seedOwner(context.Background(), db, adminPassword, log); err != nil {
			log.Fatal("Failed to seed owner account", zap.Error(err))
		}
	}
}

// seedOwner creates the initial owner account on a fresh database
func seedOwner(ctx context.Context, db *persistence.Database, password string, log *zap.Logger) error {
	userRepo := persistence.NewGormUserRepository(db.DB)

	exists, err := userRepo.ExistsByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if exists {
		log.Info("Owner account already exists, skipping seed")
		return nil
	}

	owner, err := identity.NewUser("admin", password, identity.UserRoleOwner)
	if err != nil {
		return err
	}
	if err := owner.SetDisplayName("Administrator"); err != nil {
		return err
	}

	if err := userRepo.Save(ctx, owner); err != nil {
		return err
	}

	log.Info("Owner account seeded", zap.String("username", "admin"))
	return nil
}
