package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/aurigandrea/consentd/api"
	"github.com/aurigandrea/consentd/external/courier"
	"github.com/aurigandrea/consentd/external/ipify"
	"github.com/aurigandrea/consentd/schema"
	"github.com/aurigandrea/consentd/session"
	"github.com/aurigandrea/consentd/store"
	"github.com/aurigandrea/consentd/tracker"
)

func initConfig() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("consentd")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("listen", ":8090")
	viper.SetDefault("ipify.endpoint", "https://api.ipify.org")
	viper.SetDefault("log.level", "info")
}

func main() {
	initConfig()

	if level, err := log.ParseLevel(viper.GetString("log.level")); err == nil {
		log.SetLevel(level)
	}
	if viper.GetBool("trace") {
		log.SetLevel(log.DebugLevel)
	}

	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		var err error
		if dbPath, err = store.DefaultDBPath(); err != nil {
			log.WithError(err).Fatal("fail to resolve database path")
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		log.WithError(err).Fatal("fail to open database")
	}
	defer db.Close()

	blobStore := store.New(store.NewSQLiteBlobs(db))

	var mail courier.Courier
	if endpoint := viper.GetString("courier.endpoint"); endpoint != "" {
		mail = courier.NewClient(endpoint, viper.GetString("courier.token"))
	} else {
		log.Warn("no courier endpoint configured, consent requests will not be delivered")
	}

	origin := ipify.NewResolver(viper.GetString("ipify.endpoint"))

	requests := tracker.New(blobStore, mail)

	principal := schema.Principal{
		Email:       viper.GetString("principal.email"),
		DisplayName: viper.GetString("principal.name"),
	}
	if principal.Email == "" {
		log.Fatal("CONSENTD_PRINCIPAL_EMAIL is required")
	}

	provider := session.NewStaticProvider(principal)
	sessions := session.NewManager(blobStore, requests, origin, provider)

	// The daemon serves a single device owner; the configured principal
	// is logged in for the lifetime of the process.
	provider.Login()

	server := api.NewServer(sessions, origin, viper.GetBool("trace"))

	go func() {
		addr := viper.GetString("listen")
		log.WithField("addr", addr).Info("consentd listening")
		if err := server.Run(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("fail to run server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("fail to shut down cleanly")
	}
	provider.Logout()
}
