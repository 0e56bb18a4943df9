package components

import (
	"time"

	"go.uber.org/fx"

	"lottery-sales/internal/pkg/clock"
	"lottery-sales/internal/pkg/config"
	"lottery-sales/internal/usecase/commands"
	"lottery-sales/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewSalesLocation,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewTicketCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewTicketQueries,
		queries.NewReportQueries,
	),
)

func NewSalesLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Sales.Location()
}
