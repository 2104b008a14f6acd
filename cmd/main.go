package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/cfmirror.net/internal/adapter/codeforces"
	"gitlab.com/cfmirror.net/internal/adapter/crypto"
	"gitlab.com/cfmirror.net/internal/adapter/github"
	"gitlab.com/cfmirror.net/internal/adapter/postgres/syncrecord"
	redissettings "gitlab.com/cfmirror.net/internal/adapter/redis/settings"
	"gitlab.com/cfmirror.net/internal/adapter/redis/statementcache"
	"gitlab.com/cfmirror.net/internal/adapter/surface"
	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/core/services/sync"
	logger2 "gitlab.com/cfmirror.net/internal/global/logger"
	http2 "gitlab.com/cfmirror.net/internal/http"
	"gitlab.com/cfmirror.net/internal/schedulerengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting submission mirror service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password, // no password set
		DB:       sysCfg.RedisConfig.DB,       // use default DB
	})

	ctxBg := context.Background()

	// SECONDARY PORTS
	recordStore := syncrecord.NewStore(db, logger)
	if err := recordStore.EnsureSchema(ctxBg); err != nil {
		panic(err)
	}
	contentCache := statementcache.NewCache(redisClient, sysCfg.SyncCfg.StatementCacheTTL, logger)
	settingsStore := redissettings.NewStore(redisClient, logger)
	browser := surface.NewManager(logger, sysCfg.SyncCfg.CodeFetchTimeout, sysCfg.SyncCfg.StatementFetchTimeout)
	cfClient := codeforces.NewClient(sysCfg.CodeforcesConfig, browser, logger)
	sinkFactory := func(accessToken string) secondary.RepositorySink {
		return github.NewSink(sysCfg.GithubConfig, sysCfg.SyncCfg, accessToken, logger)
	}

	//primary ports
	tokenService := crypto.NewTokenService(sysCfg.AuthConfig)

	//services
	syncSvc := sync.NewSyncService(
		settingsStore,
		cfClient,
		recordStore,
		contentCache,
		contentCache,
		sinkFactory,
		logger,
		sysCfg.SyncCfg,
	)
	serviceProvider := http2.NewServiceProvider(syncSvc, settingsStore, cfClient, tokenService, sysCfg.AuthConfig)

	//server
	httServer := http2.NewServer(8082, "submissionMirror", *serviceProvider, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	httServer.Start(ctxBg)

	engineCtx, stopEngine := context.WithCancel(ctxBg)
	schedulerSvc := schedulerengine.NewSchedulerEngine(sysCfg.SyncCfg, syncSvc, logger)
	if !sysCfg.DebugMode {
		schedulerSvc.StartSyncEngine(engineCtx)
	}
	<-quit
	logger.Info("Shutting down server...")

	stopEngine()
	httServer.Stop()
	_ = redisClient.Close()
	_ = db.Close()

	logger.Info("successfully shutdown server")

}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(sysCfg *config.AppConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", sysCfg.PostgresConfig.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
