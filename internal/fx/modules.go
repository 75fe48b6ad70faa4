package fx

import (
	"futkings-live/internal/api"
	"futkings-live/internal/config"
	"futkings-live/internal/database"
	"futkings-live/internal/logger"
	"futkings-live/internal/repository"
	"futkings-live/internal/server"
	"futkings-live/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewArchiveRepository),
	// store client
	fx.Provide(api.NewStoreClient),
	// svc
	fx.Provide(service.NewMatchService),
	// server
	fx.Provide(server.NewMatchServer),
)
