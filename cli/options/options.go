/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/phantasma-io/phantasma-go/cli/input"
	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/io"
	"github.com/phantasma-io/phantasma-go/pkg/rpcclient"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTimeout is the default timeout used for RPC requests.
const DefaultTimeout = 10 * time.Second

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// Network is a flag for choosing the network to operate on.
var Network = cli.StringFlag{
	Name:  "network, n",
	Value: config.DefaultNetwork,
	Usage: "network (mainnet, testnet or simnet) to use the configuration of (if --config-file option is not specified)",
}

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:  RPCEndpointFlag + ", r",
		Usage: "RPC node address (overrides configuration)",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Value: DefaultTimeout,
		Usage: "Timeout for the operation",
	},
}

// Config is a flag for commands that use client configuration.
var Config = cli.StringFlag{
	Name:  "config-path",
	Usage: "path to directory with per-network configuration files (may be overridden by --config-file option for the configuration file)",
}

// ConfigFile is a flag for commands that use client configuration and
// provide path to the specific config file instead of config path.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file (overrides --config-path option)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// WIF is a flag for commands that sign with a private key.
var WIF = cli.StringFlag{
	Name:  "wif",
	Usage: "private key in WIF format (prompted for if not given)",
}

// ConfigFlags are the flags used by GetConfigFromContext.
var ConfigFlags = []cli.Flag{Network, Config, ConfigFile}

var errNoEndpoint = errors.New("no RPC endpoint specified, use option '--" + RPCEndpointFlag + "' or '-r' or set RPC.Endpoint in the configuration")

// GetNetwork returns the network name given with --network, mainnet by
// default.
func GetNetwork(ctx *cli.Context) string {
	if n := ctx.String("network"); n != "" {
		return n
	}
	return config.DefaultNetwork
}

// GetTimeoutContext returns a context.Context with the default or a user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetConfigFromContext looks at the path and the network flags in the given
// context and returns an appropriate config. The built-in defaults of the
// network are used if there is no config directory and none was given
// explicitly. The RPC endpoint flag overrides the configured one.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile := ctx.String("config-file"); len(configFile) != 0 {
		cfg, err = config.LoadFile(configFile)
	} else {
		configPath := ctx.String("config-path")
		explicit := configPath != ""
		if !explicit {
			configPath = config.DefaultConfigPath
		}
		cfg, err = config.Load(configPath, GetNetwork(ctx))
		if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg, err = config.Default(GetNetwork(ctx)), nil
		}
	}
	if err != nil {
		return config.Config{}, err
	}
	if endpoint := ctx.String(RPCEndpointFlag); endpoint != "" {
		cfg.RPC.Endpoint = endpoint
	}
	return cfg, nil
}

// GetRPCClient returns an RPC client instance for the given Context.
func GetRPCClient(gctx context.Context, ctx *cli.Context) (*rpcclient.Client, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return NewRPCClient(gctx, cfg.RPC, nil)
}

// NewRPCClient creates an RPC client from the configuration.
func NewRPCClient(gctx context.Context, cfg config.RPC, log *zap.Logger) (*rpcclient.Client, cli.ExitCoder) {
	if len(cfg.Endpoint) == 0 {
		return nil, cli.NewExitError(errNoEndpoint, 1)
	}
	c, err := rpcclient.New(gctx, cfg.Endpoint, rpcclient.Options{
		DialTimeout:            cfg.DialTimeout,
		RequestTimeout:         cfg.RequestTimeout,
		MaxRetries:             cfg.MaxRetries,
		BroadcastRetries:       cfg.BroadcastRetries,
		MaxConcurrentTokenData: cfg.MaxConcurrentTokenData,
		Logger:                 log,
	})
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return c, nil
}

// GetKeyPair returns the key given with --wif or asks for it.
func GetKeyPair(ctx *cli.Context) (*keys.KeyPair, error) {
	wif := ctx.String("wif")
	if wif == "" {
		var err error
		wif, err = input.ReadSecret("Enter WIF > ")
		if err != nil {
			return nil, err
		}
	}
	return keys.NewKeyPairFromWIF(strings.TrimSpace(wif))
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}
