package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/config"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/feevalidation"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
	"github.com/tdex-network/tdex-feevalidator/internal/infrastructure/explorer/esplora"
	"github.com/tdex-network/tdex-feevalidator/internal/infrastructure/filter"
	dbbadger "github.com/tdex-network/tdex-feevalidator/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-feevalidator/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/tdex-feevalidator/internal/interfaces/http"
	"github.com/tdex-network/tdex-feevalidator/pkg/stats"
)

const (
	httpReadTimeout  = 15 * time.Second
	httpWriteTimeout = 2 * time.Minute
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("failed to open stores")
	}
	defer repoManager.Close()
	if _, ok := repoManager.ParamHistoryStore().CycleAtIndex(0); !ok {
		log.Warn(
			"ledger state is empty, feed it through the /v1/ledger endpoints " +
				"or with 'feevalidator ledger import'",
		)
	}

	explorerSvc, err := esplora.NewService(
		config.GetString(config.ExplorerURLKey),
		config.GetDuration(config.ExplorerRequestTimeoutKey),
		config.GetInt(config.ExplorerRateLimitKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to explorer")
	}

	overrides, stopOverrides, err := newOverrideProvider()
	if err != nil {
		log.WithError(err).Fatal("failed to start override filter provider")
	}
	defer stopOverrides()

	validator, err := feevalidation.NewValidator(
		repoManager.ParamHistoryStore(), overrides, config.GetValidatorConfig(),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create fee validator")
	}

	feeValidationSvc, err := feevalidation.NewService(
		validator, explorerSvc, repoManager,
		config.GetStringSlice(config.FeeReceiversKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create fee validation service")
	}
	feeValidationSvc.FollowChainTip(
		ctx, config.GetDuration(config.ChainTipPollIntervalKey),
	)

	nodes, _ := config.GetBtcNodes()
	log.Infof(
		"network: %s, btc nodes option: %s (%d nodes)",
		config.GetNetwork().Name, config.GetString(config.BtcNodesOptionKey),
		len(nodes),
	)

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableMemoryStatistics(
			ctx,
			time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:          fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey)),
		ReadTimeout:      httpReadTimeout,
		WriteTimeout:     httpWriteTimeout,
		FeeValidationSvc: feeValidationSvc,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create http interface")
	}
	if err := httpSvc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	defer httpSvc.Stop()

	log.Info("fee validator daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
}

// newRepoManager opens the badger stores in the datadir, or falls back to the
// in-memory ones if no datadir is configured.
func newRepoManager() (ports.RepoManager, error) {
	genesisHeight := config.GetGenesisHeight()

	dbDir := config.GetDbDir()
	if len(dbDir) <= 0 {
		log.Info("no datadir set, using in-memory stores")
		return inmemory.NewRepoManager(genesisHeight), nil
	}

	logger := log.New()
	logger.SetLevel(log.GetLevel())
	return dbbadger.NewRepoManager(dbDir, genesisHeight, logger)
}

// newOverrideProvider returns the websocket feed provider if a feed url is
// configured, otherwise a static one with the configured rates.
func newOverrideProvider() (ports.OverrideFilterProvider, func(), error) {
	if url := config.GetString(config.FilterFeedURLKey); len(url) > 0 {
		feed, err := filter.NewFeedProvider(url)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			if err := feed.Start(); err != nil {
				log.WithError(err).Warn("filter feed stopped")
			}
		}()
		return feed, feed.Stop, nil
	}

	static := filter.Filter{
		MakerFeeBtc: config.GetInt64(config.OverrideMakerFeeBaseKey),
		TakerFeeBtc: config.GetInt64(config.OverrideTakerFeeBaseKey),
		MakerFeeBsq: config.GetInt64(config.OverrideMakerFeeBurnKey),
		TakerFeeBsq: config.GetInt64(config.OverrideTakerFeeBurnKey),
	}
	log.Debugf(
		"static override rates: maker %s %d, taker %s %d, maker %s %d, taker %s %d",
		domain.FeeCurrencyBase, static.MakerFeeBtc,
		domain.FeeCurrencyBase, static.TakerFeeBtc,
		domain.FeeCurrencyBurn, static.MakerFeeBsq,
		domain.FeeCurrencyBurn, static.TakerFeeBsq,
	)
	return filter.NewStaticProvider(static), func() {}, nil
}
