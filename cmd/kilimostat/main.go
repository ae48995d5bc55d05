package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/viper"

	"github.com/kilimostat/kilimostat/internal/api"
	"github.com/kilimostat/kilimostat/internal/pkg/constants"
	"github.com/kilimostat/kilimostat/internal/pkg/kilimo"
	"github.com/kilimostat/kilimostat/internal/pkg/logger"
	"github.com/kilimostat/kilimostat/internal/pkg/store"
)

func initConfig() error {
	viper.SetConfigName("kilimostat")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/kilimostat")
	viper.SetEnvPrefix("KILIMOSTAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperKeyListenAddr, ":8080")
	viper.SetDefault(constants.ViperKeyDataSource, constants.DataSourceRemote)
	viper.SetDefault(constants.ViperKeyBaseURL, "https://statistics.kilimo.go.ke/kilimostat-api")
	viper.SetDefault(constants.ViperKeyInternalOrigin, "https://10.101.100.251")
	viper.SetDefault(constants.ViperKeyInternalPrefix, "/en/kilimostat-api")
	viper.SetDefault(constants.ViperKeyRatePerSecond, 10)
	viper.SetDefault(constants.ViperKeyFixtureDir, "fixtures")
	viper.SetDefault(constants.ViperKeyCORSOrigins, []string{"http://localhost:3000"})
	viper.SetDefault(constants.ViperKeyLogDevelopment, false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// newStore selects the record source once, at construction time.
func newStore() (store.Store, error) {
	switch source := viper.GetString(constants.ViperKeyDataSource); source {
	case constants.DataSourceRemote:
		client := kilimo.NewClient(kilimo.Config{
			BaseURL:            viper.GetString(constants.ViperKeyBaseURL),
			InternalOrigin:     viper.GetString(constants.ViperKeyInternalOrigin),
			InternalPathPrefix: viper.GetString(constants.ViperKeyInternalPrefix),
			RatePerSecond:      viper.GetInt(constants.ViperKeyRatePerSecond),
		})
		return store.NewRemoteStore(client, store.NewCache()), nil
	case constants.DataSourceFixture:
		return store.NewFixtureStore(viper.GetString(constants.ViperKeyFixtureDir)), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", source)
	}
}

// warmReferenceCache pre-fetches the collections every dashboard view needs.
// The core never retries on its own, so the retry lives here, in the caller.
func warmReferenceCache(ctx context.Context, st store.Store) error {
	return backoff.Retry(
		func() error {
			if _, err := st.Counties(ctx); err != nil {
				return fmt.Errorf("warm counties: %w", err)
			}
			if _, err := st.Domains(ctx); err != nil {
				return fmt.Errorf("warm domains: %w", err)
			}
			if _, err := st.SubDomains(ctx); err != nil {
				return fmt.Errorf("warm subdomains: %w", err)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 5),
			ctx,
		),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initConfig(); err != nil {
		logger.Fatal(ctx, err)
	}
	if err := logger.Init(viper.GetBool(constants.ViperKeyLogDevelopment)); err != nil {
		logger.Fatal(ctx, err)
	}
	defer logger.Sync()

	st, err := newStore()
	if err != nil {
		logger.Fatal(ctx, err)
	}

	if err := warmReferenceCache(ctx, st); err != nil {
		// The cache retries per call, so a cold start is degraded, not fatal.
		logger.Warnf(ctx, "reference cache warmup failed: %s", err)
	}

	svc, err := api.NewAPIService(st, viper.GetStringSlice(constants.ViperKeyCORSOrigins))
	if err != nil {
		logger.Fatal(ctx, err)
	}

	addr := viper.GetString(constants.ViperKeyListenAddr)
	go func() {
		if err := svc.Serve(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, err)
		}
	}()
	logger.Infof(ctx, "listening on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "shutdown: %s", err)
	}
}
