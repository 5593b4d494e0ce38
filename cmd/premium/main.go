package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/toolgram/premium/internal/clock"
	"github.com/toolgram/premium/internal/config"
	"github.com/toolgram/premium/internal/entitlement"
	"github.com/toolgram/premium/internal/logger"
	"github.com/toolgram/premium/internal/migration"
	"github.com/toolgram/premium/internal/payment"
	"github.com/toolgram/premium/internal/ratelimit"
	"github.com/toolgram/premium/internal/referral"
	"github.com/toolgram/premium/internal/server"
	"github.com/toolgram/premium/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,

		referral.Module,
		entitlement.Module,
		payment.Module,
		ratelimit.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
