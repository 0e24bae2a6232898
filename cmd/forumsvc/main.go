package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/foro/internal/infra/config"
	"github.com/mkrupp/foro/internal/infra/database"
	"github.com/mkrupp/foro/internal/infra/logging"
	"github.com/mkrupp/foro/internal/infra/transport/http"
	"github.com/mkrupp/foro/internal/repo/topic"
	"github.com/mkrupp/foro/internal/repo/user"
	"github.com/mkrupp/foro/internal/svc/authsvc"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
	"github.com/mkrupp/foro/internal/svc/topicsvc"
)

const (
	appName = "foro"
	svcName = "forumsvc"
)

type Config struct {
	config.EnvConfig

	Log  logging.LoggerConfig     `envPrefix:"LOG_"`
	Auth authsvc.AuthConfig       `envPrefix:"AUTH_"`
	HTTP http.HTTPTransportConfig `envPrefix:"HTTP_"`
	DB   database.Config          `envPrefix:"DB_"`

	// AuthClient delegates topic authentication to a remote forum when configured.
	// Remote identities must exist locally under the same email and ID.
	AuthClient authclient.HTTPClientConfig `envPrefix:"AUTH_CLIENT_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		stop()
		os.Exit(2)
	}

	if err := logging.Configure(ctx, cfg.Log, loggerName); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		stop()
		os.Exit(2)
	}

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.forumsvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "error", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.WarnContext(ctx, "close database failed", "error", closeErr)
		}
	}()

	authSvc, err := authsvc.NewAuthService(user.SQLUserRepositoryFactory(db), cfg.Auth)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}

	topicSvc, err := topicsvc.NewRepoTopicService(topic.SQLTopicRepositoryFactory(db))
	if err != nil {
		return fmt.Errorf("new topic service: %w", err)
	}

	var authenticator authclient.Authenticator = authSvc
	if cfg.AuthClient.Enabled() {
		log.InfoContext(ctx, "authenticating topics remotely", "url", cfg.AuthClient.IdentityURL)

		authenticator, err = authsvc.NewLocalIdentityAuthenticator(
			authclient.NewHTTPClient(cfg.AuthClient, nil),
			user.SQLUserRepositoryFactory(db),
		)
		if err != nil {
			return fmt.Errorf("new remote authenticator: %w", err)
		}
	}

	router := http.NewRouter(
		authsvc.NewHTTPTransport(authSvc, authsvc.HTTPTransportConfig{HTTPTransportConfig: cfg.HTTP}),
		topicsvc.NewHTTPTransport(topicSvc, authenticator, topicsvc.HTTPTransportConfig{HTTPTransportConfig: cfg.HTTP}),
	)

	if err := http.ListenAndServe(ctx, router, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
