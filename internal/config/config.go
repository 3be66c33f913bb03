package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/feevalidation"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/pkg/btcnodes"
)

const (
	// DatadirKey is the local data directory where validation records and
	// the parameter history are persisted. If empty, an in-memory store is used
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// HTTPListeningPortKey is the port where the HTTP interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// NetworkKey is the base chain network, one of mainnet, testnet, regtest
	NetworkKey = "NETWORK"
	// ExplorerURLKey is the base url of the esplora REST API used to fetch
	// fee txs
	ExplorerURLKey = "EXPLORER_URL"
	// ExplorerRequestTimeoutKey is the timeout of every request to the explorer
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerRateLimitKey is the max number of requests per second sent to
	// the explorer
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"
	// ChainTipPollIntervalKey is the interval between two fetches of the
	// chain tip from the explorer
	ChainTipPollIntervalKey = "CHAIN_TIP_POLL_INTERVAL"
	// FeeReceiversKey is the list of known base-currency fee receiver addresses
	FeeReceiversKey = "FEE_RECEIVERS"
	// FeeToleranceKey is the min ratio between paid and expected fee
	FeeToleranceKey = "FEE_TOLERANCE"
	// OverrideToleranceKey is the min ratio between paid fee and the one
	// expected with the override filter rate
	OverrideToleranceKey = "OVERRIDE_TOLERANCE"
	// BurnGraceBlocksKey is the number of blocks after the reference height
	// during which a burn fee tx of an unknown burn tx is still accepted
	BurnGraceBlocksKey = "BURN_GRACE_BLOCKS"
	// LegacyReceiverHeightKey is the height below which fee txs paying
	// unknown receivers are accepted
	LegacyReceiverHeightKey = "LEGACY_RECEIVER_HEIGHT"
	// OverrideMakerFeeBaseKey is the static override maker fee rate for fees
	// paid in base currency
	OverrideMakerFeeBaseKey = "OVERRIDE_MAKER_FEE_BASE"
	// OverrideTakerFeeBaseKey is the static override taker fee rate for fees
	// paid in base currency
	OverrideTakerFeeBaseKey = "OVERRIDE_TAKER_FEE_BASE"
	// OverrideMakerFeeBurnKey is the static override maker fee rate for fees
	// paid by burning tokens
	OverrideMakerFeeBurnKey = "OVERRIDE_MAKER_FEE_BURN"
	// OverrideTakerFeeBurnKey is the static override taker fee rate for fees
	// paid by burning tokens
	OverrideTakerFeeBurnKey = "OVERRIDE_TAKER_FEE_BURN"
	// FilterFeedURLKey is the websocket endpoint streaming the override
	// filter. If empty, the static override rates are used instead
	FilterFeedURLKey = "FILTER_FEED_URL"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic runtime statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// BtcNodesOptionKey is one of provided, custom, public
	BtcNodesOptionKey = "BTC_NODES_OPTION"
	// BtcNodesKey is the list of custom full nodes, used only with the custom
	// option
	BtcNodesKey = "BTC_NODES"

	// EnvFileKey is the path of the optional .env file, read from the
	// environment before anything else
	EnvFileKey = "FEEVALIDATOR_ENV_FILE"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	envPrefix      = "FEEVALIDATOR"
	defaultEnvFile = ".env"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("tdex-feevalidator", false)

	genesisHeights = map[string]uint32{
		"mainnet": domain.MainnetGenesisHeight,
		"testnet": domain.TestnetGenesisHeight,
		"regtest": domain.RegtestGenesisHeight,
	}
)

func InitConfig() error {
	if err := loadEnvFile(); err != nil {
		return fmt.Errorf("error while loading env file: %s", err)
	}

	vip = viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()
	vip.AllowEmptyEnv(true)

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(HTTPListeningPortKey, 9955)
	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(ExplorerURLKey, "https://mempool.space/api")
	vip.SetDefault(ExplorerRequestTimeoutKey, 30*time.Second)
	vip.SetDefault(ExplorerRateLimitKey, 5)
	vip.SetDefault(ChainTipPollIntervalKey, time.Minute)
	vip.SetDefault(FeeReceiversKey, []string{})
	vip.SetDefault(FeeToleranceKey, feevalidation.DefaultFeeTolerance.String())
	vip.SetDefault(OverrideToleranceKey, feevalidation.DefaultOverrideTolerance.String())
	vip.SetDefault(BurnGraceBlocksKey, feevalidation.DefaultBurnGraceBlocks)
	vip.SetDefault(LegacyReceiverHeightKey, feevalidation.DefaultLegacyReceiverHeight)
	vip.SetDefault(OverrideMakerFeeBaseKey, 0)
	vip.SetDefault(OverrideTakerFeeBaseKey, 0)
	vip.SetDefault(OverrideMakerFeeBurnKey, 0)
	vip.SetDefault(OverrideTakerFeeBurnKey, 0)
	vip.SetDefault(FilterFeedURLKey, "")
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(BtcNodesOptionKey, btcnodes.NodesProvided.String())
	vip.SetDefault(BtcNodesKey, []string{})

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetInt64(key string) int64 {
	return vip.GetInt64(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

// GetStringSlice splits comma separated env values, viper only splits on
// white spaces.
func GetStringSlice(key string) []string {
	list := make([]string, 0)
	for _, v := range vip.GetStringSlice(key) {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); len(s) > 0 {
				list = append(list, s)
			}
		}
	}
	return list
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the path of the db directory, or an empty string if the
// in-memory store must be used.
func GetDbDir() string {
	datadir := GetDatadir()
	if len(datadir) <= 0 {
		return ""
	}
	return filepath.Join(datadir, DbLocation)
}

func GetNetwork() *chaincfg.Params {
	params, _ := btcnodes.NetworkParams(GetString(NetworkKey))
	return params
}

// GetGenesisHeight returns the height at which the fee parameters of the
// configured network took their default values.
func GetGenesisHeight() uint32 {
	return genesisHeights[strings.ToLower(GetString(NetworkKey))]
}

func GetDecimal(key string) decimal.Decimal {
	d, _ := decimal.NewFromString(GetString(key))
	return d
}

// GetValidatorConfig returns the leniency thresholds of the fee validator.
func GetValidatorConfig() feevalidation.Config {
	return feevalidation.Config{
		FeeTolerance:         GetDecimal(FeeToleranceKey),
		OverrideTolerance:    GetDecimal(OverrideToleranceKey),
		BurnGraceBlocks:      GetUint32(BurnGraceBlocksKey),
		LegacyReceiverHeight: GetUint32(LegacyReceiverHeightKey),
	}
}

func GetBtcNodes() ([]btcnodes.Node, error) {
	option, err := btcnodes.ParseNodesOption(GetString(BtcNodesOptionKey))
	if err != nil {
		return nil, err
	}
	return btcnodes.Nodes(option, GetStringSlice(BtcNodesKey), GetNetwork())
}

func validate() error {
	net := GetNetwork()
	if net == nil {
		return fmt.Errorf(
			"%s must be one of mainnet, testnet, regtest", NetworkKey,
		)
	}

	if len(GetString(ExplorerURLKey)) <= 0 {
		return fmt.Errorf("missing explorer url")
	}
	if GetDuration(ExplorerRequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", ExplorerRequestTimeoutKey)
	}
	if GetDuration(ChainTipPollIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", ChainTipPollIntervalKey)
	}
	if GetInt(ExplorerRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", ExplorerRateLimitKey)
	}

	for _, addr := range GetStringSlice(FeeReceiversKey) {
		// segwit addresses are decoded regardless of the given network.
		a, err := btcutil.DecodeAddress(addr, net)
		if err != nil {
			return fmt.Errorf("invalid fee receiver %s: %s", addr, err)
		}
		if !a.IsForNet(net) {
			return fmt.Errorf("fee receiver %s is not a %s address", addr, net.Name)
		}
	}

	for _, key := range []string{FeeToleranceKey, OverrideToleranceKey} {
		if _, err := decimal.NewFromString(GetString(key)); err != nil {
			return fmt.Errorf("%s must be a decimal number", key)
		}
	}
	if err := GetValidatorConfig().Validate(); err != nil {
		return err
	}

	for _, key := range []string{
		OverrideMakerFeeBaseKey, OverrideTakerFeeBaseKey,
		OverrideMakerFeeBurnKey, OverrideTakerFeeBurnKey,
	} {
		if GetInt64(key) < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}

	if GetBool(EnableProfilerKey) && len(GetDatadir()) <= 0 {
		return fmt.Errorf("profiler requires a datadir")
	}
	if GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", StatsIntervalKey)
	}

	if _, err := GetBtcNodes(); err != nil {
		return fmt.Errorf("invalid btc nodes: %s", err)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if len(datadir) <= 0 {
		return nil
	}

	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFile doesn't override variables already set in the environment.
// A missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv(EnvFileKey)
	if len(path) <= 0 {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
