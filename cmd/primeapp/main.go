package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/config"
	"github.com/barbeariaprime/primeapp/internal/adminapi"
	"github.com/barbeariaprime/primeapp/internal/app"
	"github.com/barbeariaprime/primeapp/internal/webserver"
)

var (
	cfile  = flag.String("c", "primeapp.yml", "config file")
	initdb = flag.Bool("initdb", false, "drop and recreate the database schema")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*cfile)
	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "workdir %s: %v\n", cfg.System.Workdir, err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	webserver.Init(cfg)
	adminapi.InitRouter(adminapi.Env{
		Cache:   application.Cache(),
		Auth:    application.Auth(),
		Carts:   application.Carts(),
		Planner: application.Planner(),
		Secret:  cfg.Web.Secret,
		AdminPasswordHash: func() string {
			return application.GetSettingsStringValue(app.SettingsAdminCategory, app.SettingsAdminPasswordHash)
		},
	})

	errc := make(chan error, 1)
	go func() {
		errc <- webserver.Listen()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		zap.L().Error("webserver stopped", zap.Error(err))
	case sig := <-sigc:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
	}
}
