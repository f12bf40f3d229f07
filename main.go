package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"amm-indexer/config"
	"amm-indexer/indexer"
	"amm-indexer/metrics"
	"amm-indexer/router"
	"amm-indexer/storage"

	"github.com/dogecoinw/go-dogecoin/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cfg config.Config
)

func main() {

	config.LoadConfig(&cfg, "")

	glogger := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(true)))
	glogger.Verbosity(log.Lvl(cfg.DebugLevel))
	log.Root().SetHandler(glogger)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	var dbClient *storage.DBClient
	if cfg.Sqlite.Switch {
		dbClient = storage.NewSqliteClient(cfg.Sqlite)
	} else {
		dbClient = storage.NewMysqlClient(cfg.Mysql)
	}

	if err := dbClient.AutoMigrate(); err != nil {
		log.Error("main", "migrate err", err)
		os.Exit(1)
	}

	journal, err := storage.NewJournal(cfg.LevelDB)
	if err != nil {
		log.Error("main", "journal err", err)
		os.Exit(1)
	}
	defer journal.Close()

	hub := router.NewSwapHub()

	if cfg.Indexer.Switch {
		ix := indexer.NewIndexer(ctx, wg, dbClient, journal, cfg.Chain)
		ix.AddNotifier(hub)
		wg.Add(1)
		go ix.Start()
	}

	if cfg.HttpServer.Switch {
		metrics.MustRegister()

		grt := gin.Default()
		grt.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
			c.Next()
		})

		grt.GET("/metrics", func(c *gin.Context) {
			promhttp.Handler().ServeHTTP(c.Writer, c.Request)
		})

		v1 := grt.Group("/v1")
		{
			swapRouter := router.NewSwapRouter(dbClient)
			v1.POST("/swap/orders", swapRouter.Swaps)
			v1.POST("/swap/pools", swapRouter.Pools)
			v1.POST("/swap/tokens", swapRouter.Tokens)
			v1.POST("/swap/charts", swapRouter.Charts)

			infoRouter := router.NewInfoRouter(dbClient, cfg.Chain)
			v1.POST("/info/factory", infoRouter.Factory)
			v1.POST("/info/ethprice", infoRouter.EthPrice)
			v1.POST("/info/status", infoRouter.Status)

			v1.GET("/ws", hub.Handle)
		}

		go func() {
			if err := grt.Run(cfg.HttpServer.Server); err != nil {
				log.Error("main", "http server err", err)
				cancel()
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("main", "msg", "received an interrupt, stopping services")
		cancel()
	}()
	wg.Wait()
}
