package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tdex-network/seedfinder/pkg/explorer"
	"github.com/tdex-network/seedfinder/pkg/explorer/blockchaininfo"
	"github.com/tdex-network/seedfinder/pkg/explorer/blockchair"
	"github.com/tdex-network/seedfinder/pkg/explorer/esplora"

	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// PrimarySourceKey is the name of the balance source queried first
	PrimarySourceKey = "PRIMARY_SOURCE"
	// SecondarySourceKey is the name of the balance source queried when the
	// primary one fails
	SecondarySourceKey = "SECONDARY_SOURCE"
	// BlockchainInfoEndpointKey is the base url of the blockchain.info API
	BlockchainInfoEndpointKey = "BLOCKCHAININFO_ENDPOINT"
	// BlockchairEndpointKey is the base url of the blockchair API
	BlockchairEndpointKey = "BLOCKCHAIR_ENDPOINT"
	// EsploraEndpointKey is the base url of an esplora compatible API
	EsploraEndpointKey = "ESPLORA_ENDPOINT"
	// PrimaryRequestTimeoutKey is the timeout in milliseconds of a request to
	// the primary source
	PrimaryRequestTimeoutKey = "PRIMARY_REQUEST_TIMEOUT"
	// SecondaryRequestTimeoutKey is the timeout in milliseconds of a request
	// to the secondary source
	SecondaryRequestTimeoutKey = "SECONDARY_REQUEST_TIMEOUT"
	// FallbackCooldownKey is the time in milliseconds waited before falling
	// back to the secondary source
	FallbackCooldownKey = "FALLBACK_COOLDOWN"
	// PacingCooldownKey is the time in milliseconds waited after every
	// balance check
	PacingCooldownKey = "PACING_COOLDOWN"
	// WorkersKey is the max number of concurrent balance checks
	WorkersKey = "WORKERS"
	// BreakerMaxFailuresKey is the number of requests after which the primary
	// source's circuit breaker can trip
	BreakerMaxFailuresKey = "BREAKER_MAX_FAILURES"
	// BreakerFailingRatioKey is the ratio of failing requests that trips the
	// primary source's circuit breaker
	BreakerFailingRatioKey = "BREAKER_FAILING_RATIO"
	// EnableStatsKey enables periodic logging of memory statistics
	EnableStatsKey = "ENABLE_STATS"
	// StatsIntervalKey defines interval in seconds for printing memory statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// StatsFileKey, if set, is the path of the file where the run's metrics
	// are dumped at exit
	StatsFileKey = "STATS_FILE"
	// NoColorKey disables colors on the console report
	NoColorKey = "NO_COLOR"

	envPrefix = "SEEDFINDER"

	minWorkers = 1
	maxWorkers = 3
)

var (
	vip *viper.Viper

	sources = map[string]struct {
		endpointKey string
		factory     func(string, int) (explorer.Service, error)
	}{
		blockchaininfo.SourceName: {BlockchainInfoEndpointKey, blockchaininfo.NewService},
		blockchair.SourceName:     {BlockchairEndpointKey, blockchair.NewService},
		esplora.SourceName:        {EsploraEndpointKey, esplora.NewService},
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(PrimarySourceKey, blockchaininfo.SourceName)
	vip.SetDefault(SecondarySourceKey, blockchair.SourceName)
	vip.SetDefault(BlockchainInfoEndpointKey, blockchaininfo.DefaultEndpoint)
	vip.SetDefault(BlockchairEndpointKey, blockchair.DefaultEndpoint)
	vip.SetDefault(EsploraEndpointKey, esplora.DefaultEndpoint)
	vip.SetDefault(PrimaryRequestTimeoutKey, 10000)
	vip.SetDefault(SecondaryRequestTimeoutKey, 10000)
	vip.SetDefault(FallbackCooldownKey, 2000)
	vip.SetDefault(PacingCooldownKey, 1500)
	vip.SetDefault(WorkersKey, minWorkers)
	vip.SetDefault(BreakerMaxFailuresKey, 10)
	vip.SetDefault(BreakerFailingRatioKey, 0.6)
	vip.SetDefault(EnableStatsKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(NoColorKey, false)

	if err := Validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	return nil
}

// Set overrides the value of the given key, ie. with a command line flag.
// Validate should be called after all overrides.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetMilliseconds returns the value of key, expressed in milliseconds, as a
// time.Duration.
func GetMilliseconds(key string) time.Duration {
	return time.Duration(vip.GetInt64(key)) * time.Millisecond
}

// GetSeconds returns the value of key, expressed in seconds, as a
// time.Duration.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt64(key)) * time.Second
}

// GetPrimarySource returns the balance source queried first.
func GetPrimarySource() (explorer.Service, error) {
	return newSource(GetString(PrimarySourceKey), GetInt(PrimaryRequestTimeoutKey))
}

// GetSecondarySource returns the balance source queried when the primary one
// fails.
func GetSecondarySource() (explorer.Service, error) {
	return newSource(GetString(SecondarySourceKey), GetInt(SecondaryRequestTimeoutKey))
}

// SupportedSources returns the names of the known balance sources.
func SupportedSources() []string {
	return []string{blockchaininfo.SourceName, blockchair.SourceName, esplora.SourceName}
}

func Validate() error {
	primary := strings.ToLower(GetString(PrimarySourceKey))
	secondary := strings.ToLower(GetString(SecondarySourceKey))
	if _, ok := sources[primary]; !ok {
		return fmt.Errorf(
			"%s must be one of %v", PrimarySourceKey, SupportedSources(),
		)
	}
	if _, ok := sources[secondary]; !ok {
		return fmt.Errorf(
			"%s must be one of %v", SecondarySourceKey, SupportedSources(),
		)
	}
	if primary == secondary {
		return fmt.Errorf(
			"%s and %s must be different", PrimarySourceKey, SecondarySourceKey,
		)
	}

	for _, key := range []string{
		PrimaryRequestTimeoutKey, SecondaryRequestTimeoutKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be a positive number", key)
		}
	}
	for _, key := range []string{FallbackCooldownKey, PacingCooldownKey} {
		if GetInt(key) < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}

	workers := GetInt(WorkersKey)
	if workers < minWorkers || workers > maxWorkers {
		return fmt.Errorf(
			"%s must be in range [%d, %d]", WorkersKey, minWorkers, maxWorkers,
		)
	}

	if GetInt(BreakerMaxFailuresKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", BreakerMaxFailuresKey)
	}
	ratio := GetFloat(BreakerFailingRatioKey)
	if ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%s must be in range (0, 1]", BreakerFailingRatioKey)
	}

	if GetBool(EnableStatsKey) && GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", StatsIntervalKey)
	}

	return nil
}

func newSource(name string, reqTimeout int) (explorer.Service, error) {
	source, ok := sources[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown balance source %q", name)
	}
	return source.factory(GetString(source.endpointKey), reqTimeout)
}
