package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/config"
	"github.com/stormline/roofcrm/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		if err := seed.EnsureProposalSequence(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			log.Info("seeding demo customers")
			return seed.EnsureDemoData(conn, node)
		}
		return nil
	}),
)
