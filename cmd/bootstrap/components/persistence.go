package components

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"lottery-sales/internal/infra/cache"
	"lottery-sales/internal/infra/db"
	"lottery-sales/internal/infra/readstore"
	"lottery-sales/internal/infra/uow"
	"lottery-sales/internal/pkg/clock"
	"lottery-sales/internal/pkg/config"
	"lottery-sales/internal/usecase/commands"
	"lottery-sales/internal/usecase/queries"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	cacheModule,
)

// uow.NewPostgresUoW already returns shared.UnitOfWork, no annotation needed
var baseOption = fx.Provide(
	NewQueryer,
	uow.NewPostgresUoW,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		readstore.NewCatalogReadStore,
		fx.Annotate(
			NewCachedCatalog,
			fx.As(new(commands.CatalogReads)),
		),
		fx.Annotate(
			readstore.NewTicketReadStore,
			fx.As(new(queries.TicketReadStore)),
		),
		fx.Annotate(
			NewReportReadStore,
			fx.As(new(queries.ReportReadStore)),
		),
	),
)

var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			NewReportCache,
			fx.As(new(queries.ReportCache)),
			fx.As(new(commands.ReportInvalidator)),
		),
	),
)

func NewQueryer(pool *pgxpool.Pool) db.Queryer {
	return pool
}

func NewCachedCatalog(inner *readstore.CatalogReadStore, clk clock.Clock, cfg config.Config) *readstore.CachedCatalogReadStore {
	return readstore.NewCachedCatalogReadStore(inner, clk, cfg.Sales.CatalogCacheTTL)
}

func NewReportReadStore(q db.Queryer, cfg config.Config) *readstore.ReportReadStore {
	return readstore.NewReportReadStore(q, cfg.Sales.TimeZone)
}

func NewReportCache(rdb redis.UniversalClient, cfg config.Config) *cache.ReportCache {
	return cache.NewReportCache(rdb, cfg.Sales.ReportCacheTTL, cfg.Sales.DailyCacheTTL)
}
