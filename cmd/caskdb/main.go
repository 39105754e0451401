package main

import (
	"context"
	"flag"
	"log"
	"net"
	"strconv"

	"github.com/quentin-auge/caskdb/core"
	"github.com/quentin-auge/caskdb/internal/config"
	"github.com/quentin-auge/caskdb/internal/logging"
	"github.com/quentin-auge/caskdb/internal/server"
	"github.com/quentin-auge/caskdb/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional config file")
	dbPath := flag.String("db", "", "Path of the database file (overrides config)")
	port := flag.Int("port", 0, "Port for the TCP server (overrides config)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("error loading config %s: %v", *configPath, err)
	}

	cfg := *config.Get()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *port != 0 {
		cfg.Port = *port
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("error building logger: %v", err)
	}
	defer logger.Sync()

	store, err := core.Open(cfg.DBPath, core.WithLogger(logger))
	if err != nil {
		logger.Fatalf("error opening store at %s: %v", cfg.DBPath, err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := server.NewHandler(store, logger)
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	go func() {
		if err := server.Start(ctx, addr, handler.HandleConn, logger); err != nil {
			logger.Fatalf("server stopped abruptly: %v", err)
		}
	}()

	logger.Infof("caskdb listening on %s, database %s", addr, cfg.DBPath)

	utils.ListenForProcessInterruptOrKill()
}
