package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/clock"
	"github.com/stormline/roofcrm/internal/config"
	"github.com/stormline/roofcrm/internal/migration"
	"github.com/stormline/roofcrm/internal/observability"
	"github.com/stormline/roofcrm/internal/scheduler"
	"github.com/stormline/roofcrm/internal/server"
	"github.com/stormline/roofcrm/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP API with the customer, pricing and proposal domains
		server.Module,

		// Background maintenance
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
