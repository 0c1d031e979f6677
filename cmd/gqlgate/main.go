// gqlgate: gateway GraphQL con control de acceso por token.
//
// Resuelve credenciales, compila schemas filtrados por scope y ejecuta las
// queries contra el backend de contenido configurado.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dropDatabas3/gqlgate/internal/cache"
	"github.com/dropDatabas3/gqlgate/internal/config"
	"github.com/dropDatabas3/gqlgate/internal/content"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/gql"
	"github.com/dropDatabas3/gqlgate/internal/gql/schemagen"
	httpx "github.com/dropDatabas3/gqlgate/internal/http"
	"github.com/dropDatabas3/gqlgate/internal/http/handlers"
	"github.com/dropDatabas3/gqlgate/internal/observability/logger"
	"github.com/dropDatabas3/gqlgate/internal/store"
	"github.com/dropDatabas3/gqlgate/internal/store/pg"
)

func main() {
	var (
		configPath string
		migrate    bool
	)
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "ruta al YAML de configuración")
	flag.BoolVar(&migrate, "migrate", false, "aplicar migraciones pendientes al arrancar (solo postgres)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		// Logger aún no inicializado.
		panic("config: " + err.Error())
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "gqlgate"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Storage ──
	st, err := store.Open(ctx, store.Config{
		Driver:   cfg.Storage.Driver,
		DSN:      cfg.Storage.DSN,
		Postgres: pgConfig(cfg),
	})
	if err != nil {
		log.Fatal("opening schema store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()
	log.Info("schema store ready", zap.String("driver", cfg.Storage.Driver))

	if migrate {
		pgStore, ok := st.(*pg.Store)
		if !ok {
			log.Fatal("migrate requires the postgres driver")
		}
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal("applying migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	cacheClient, err := cache.New(cache.Config{
		Kind:     cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		log.Fatal("creating cache client", zap.Error(err))
	}
	defer func() { _ = cacheClient.Close() }()

	lookups := store.NewCached(st, cacheClient, cfg.LookupTTL())

	if err := bootstrapPublicSchema(ctx, cfg, st, log); err != nil {
		log.Fatal("bootstrapping public schema", zap.Error(err))
	}

	// ── Contenido ──
	provider, err := loadProvider(cfg)
	if err != nil {
		log.Fatal("loading content types", zap.Error(err))
	}
	log.Info("content types loaded", zap.Int("types", len(provider.Types())))

	resolver := content.NewMemResolver()

	schemaCache := schemagen.NewCache(provider, resolver)
	svc := gql.NewService(lookups, schemaCache, cfg.App.DevMode, log.Named("gql"))

	// ── HTTP ──
	metricsHandler := httpx.RegisterMetrics(prometheus.DefaultRegisterer, schemaCache)

	// Las escrituras administrativas pasan por la capa cacheada para que
	// invaliden los lookups por token.
	admin := &handlers.Admin{
		Store:  lookups,
		Cache:  schemaCache,
		APIKey: cfg.Server.AdminAPIKey,
		Log:    log.Named("admin"),
	}

	router := httpx.NewRouter(httpx.RouterDeps{
		GraphQL: &handlers.GraphQL{Svc: svc, Log: log.Named("graphql")},
		Admin: httpx.AdminRoutes{
			Guard:  admin.RequireAPIKey,
			List:   admin.List,
			Get:    admin.Get,
			Save:   admin.Save,
			Delete: admin.Delete,
		},
		Metrics:     metricsHandler,
		Ready:       st.Ping,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Log:         log.Named("http"),
	})

	srv := httpx.NewServer(cfg.Server.Addr, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
	log.Info("bye")
}

func pgConfig(cfg *config.Config) pg.Config {
	return pg.Config{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	}
}

func loadProvider(cfg *config.Config) (*content.StaticProvider, error) {
	if cfg.Content.File != "" {
		return content.LoadProviderFile(cfg.Content.File)
	}
	return content.NewStaticProvider(content.DefaultTypes())
}

// bootstrapPublicSchema crea el schema público si está habilitado por config
// y no existe todavía. Idempotente entre reinicios.
func bootstrapPublicSchema(ctx context.Context, cfg *config.Config, st store.SchemaStore, log *zap.Logger) error {
	if !cfg.GQL.PublicSchema.Enabled {
		return nil
	}
	if _, err := st.GetPublicSchema(ctx); err == nil {
		return nil
	} else if !store.IsNotFound(err) {
		return err
	}

	scope, err := types.NewScope(cfg.GQL.PublicSchema.Scope...)
	if err != nil {
		return err
	}
	s := &types.Schema{
		Name:     "Public Schema",
		Scope:    scope,
		Enabled:  true,
		IsPublic: true,
	}
	if err := st.SaveSchema(ctx, s); err != nil {
		return err
	}
	log.Info("public schema created", zap.Int64("id", s.ID), zap.Strings("scope", cfg.GQL.PublicSchema.Scope))
	return nil
}
