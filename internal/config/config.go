package config

import (
	"fmt"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer/blockfrost"
)

const (
	// BlockfrostEndpointKey is the base url of the Blockfrost REST API
	BlockfrostEndpointKey = "BLOCKFROST_ENDPOINT"
	// BlockfrostProjectIDKey is the Blockfrost api key sent as project_id header
	BlockfrostProjectIDKey = "BLOCKFROST_PROJECT_ID"
	// NetworkKey is the network to use. Either "preprod" or "mainnet"
	NetworkKey = "NETWORK"
	// ExplorerURLKey is the base url of the block explorer used for human-readable tx references
	ExplorerURLKey = "EXPLORER_URL"
	// WalletAddressKey is the bech32 address of the operator wallet. Signing stays external
	WalletAddressKey = "WALLET_ADDRESS"
	// BlueprintPathKey is the path of the compiled validator blueprint (plutus.json)
	BlueprintPathKey = "BLUEPRINT_PATH"
	// MintValidatorKey is the blueprint title of the minting policy
	MintValidatorKey = "MINT_VALIDATOR"
	// SpendValidatorKey is the blueprint title of the spending validator
	SpendValidatorKey = "SPEND_VALIDATOR"
	// MinCollateralKey is the minimum lovelace a pure-coin utxo must hold to qualify as collateral
	MinCollateralKey = "MIN_COLLATERAL"
	// CrawlIntervalKey is the interval in milliseconds between watcher polls of the explorer
	CrawlIntervalKey = "CRAWL_INTERVAL"
	// CrawlLimitKey is the number of requests per second the watcher makes to the explorer
	CrawlLimitKey = "CRAWL_LIMIT"
	// ConfirmationTimeoutKey is how long to await a confirmation before giving up on a submitted tx
	ConfirmationTimeoutKey = "CONFIRMATION_TIMEOUT"
	// FlushIntervalKey is the interval between aggregator flushes
	FlushIntervalKey = "FLUSH_INTERVAL"
	// AllowedTimeOffsetKey is the window behind the newest sample within which samples are averaged
	AllowedTimeOffsetKey = "ALLOWED_TIME_OFFSET"
	// SampleTTLKey drops buffered samples of devices quiet for longer than this
	SampleTTLKey = "SAMPLE_TTL"
	// TokenNameKey is the asset name of the state token the daemon keeps in sync
	TokenNameKey = "TOKEN_NAME"
	// DeviceGatewayKey is the websocket url device samples are streamed from
	DeviceGatewayKey = "DEVICE_GATEWAY"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"

	NetworkPreprod = "preprod"
	NetworkMainnet = "mainnet"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("IOTSYNC")
	vip.AutomaticEnv()

	vip.SetDefault(BlockfrostEndpointKey, "https://cardano-preprod.blockfrost.io/api/v0")
	vip.SetDefault(NetworkKey, NetworkPreprod)
	vip.SetDefault(ExplorerURLKey, "https://preprod.cardanoscan.io")
	vip.SetDefault(BlueprintPathKey, "plutus.json")
	vip.SetDefault(MintValidatorKey, "status_management.mint")
	vip.SetDefault(SpendValidatorKey, "status_management.spend")
	vip.SetDefault(MinCollateralKey, 5_000_000)
	vip.SetDefault(CrawlIntervalKey, 5000)
	vip.SetDefault(CrawlLimitKey, 10)
	vip.SetDefault(ConfirmationTimeoutKey, "5m")
	vip.SetDefault(FlushIntervalKey, "30s")
	vip.SetDefault(AllowedTimeOffsetKey, "3s")
	vip.SetDefault(SampleTTLKey, "10m")
	vip.SetDefault(TokenNameKey, "Sensor1")
	vip.SetDefault(DeviceGatewayKey, "ws://localhost:8546/feed")
	vip.SetDefault(LogLevelKey, 4)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetUint64 ...
func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

//GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

//GetNetwork ...
func GetNetwork() address.Network {
	if vip.GetString(NetworkKey) == NetworkMainnet {
		return address.Mainnet
	}
	return address.Testnet
}

//GetExplorer ...
func GetExplorer() (explorer.Service, error) {
	endpoint := GetString(BlockfrostEndpointKey)
	projectID := GetString(BlockfrostProjectIDKey)
	return blockfrost.NewService(endpoint, projectID)
}

func validate() error {
	endpoint := GetString(BlockfrostEndpointKey)
	if _, err := url.Parse(endpoint); err != nil {
		return fmt.Errorf("blockfrost endpoint is not a valid url: %s", err)
	}

	explorerURL := GetString(ExplorerURLKey)
	if _, err := url.Parse(explorerURL); err != nil {
		return fmt.Errorf("explorer url is not a valid url: %s", err)
	}

	networkName := GetString(NetworkKey)
	if networkName != NetworkPreprod && networkName != NetworkMainnet {
		return fmt.Errorf(
			"network must be either '%s' or '%s'",
			NetworkPreprod, NetworkMainnet,
		)
	}
	return nil
}
