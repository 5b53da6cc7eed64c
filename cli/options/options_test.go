package options

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phantasma-io/phantasma-go/cli/input"
	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
	set.String("network", config.DefaultNetwork, "")
	set.String("config-path", "", "")
	set.String("config-file", "", "")
	set.String(RPCEndpointFlag, "", "")
	set.Duration("timeout", 0, "")
	set.String("wif", "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestGetNetwork(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		require.Equal(t, config.DefaultNetwork, GetNetwork(ctx))
	})

	t.Run("testnet", func(t *testing.T) {
		require.Equal(t, "testnet", GetNetwork(newContext(t, "--network", "testnet")))
	})
}

func TestGetTimeoutContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		start := time.Now()
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		actualCtx, cancel := GetTimeoutContext(ctx)
		defer cancel()
		end := time.Now()
		dl, _ := actualCtx.Deadline()
		require.True(t, start.Before(dl) && !dl.After(end.Add(DefaultTimeout)))
	})

	t.Run("set", func(t *testing.T) {
		start := time.Now()
		actualCtx, cancel := GetTimeoutContext(newContext(t, "--timeout", "3s"))
		defer cancel()
		end := time.Now()
		dl, _ := actualCtx.Deadline()
		require.True(t, start.Before(dl) && !dl.After(end.Add(3*time.Second)))
	})
}

func TestGetConfigFromContext(t *testing.T) {
	t.Run("built-in defaults", func(t *testing.T) {
		// There is no ./config next to the package.
		cfg, err := GetConfigFromContext(newContext(t, "--network", "testnet"))
		require.NoError(t, err)
		require.Equal(t, "testnet", cfg.Nexus)
		require.Equal(t, "https://testnet.phantasma.info/rpc", cfg.RPC.Endpoint)
	})

	t.Run("config path", func(t *testing.T) {
		cfg, err := GetConfigFromContext(newContext(t, "--config-path", "../../config", "--network", "simnet"))
		require.NoError(t, err)
		require.Equal(t, "simnet", cfg.Nexus)
		require.Equal(t, "http://localhost:5172/rpc", cfg.RPC.Endpoint)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := GetConfigFromContext(newContext(t, "--config-path", t.TempDir()))
		require.Error(t, err)
	})

	t.Run("config file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "custom.yml")
		require.NoError(t, os.WriteFile(p, []byte("Nexus: custom\nRPC:\n  Endpoint: http://127.0.0.1:1/rpc\n"), 0644))
		cfg, err := GetConfigFromContext(newContext(t, "--config-file", p))
		require.NoError(t, err)
		require.Equal(t, "custom", cfg.Nexus)
		require.Equal(t, "http://127.0.0.1:1/rpc", cfg.RPC.Endpoint)
	})

	t.Run("endpoint override", func(t *testing.T) {
		cfg, err := GetConfigFromContext(newContext(t, "--"+RPCEndpointFlag, "http://127.0.0.1:2/rpc"))
		require.NoError(t, err)
		require.Equal(t, "http://127.0.0.1:2/rpc", cfg.RPC.Endpoint)
	})
}

func TestNewRPCClient(t *testing.T) {
	_, ec := NewRPCClient(context.Background(), config.RPC{}, nil)
	require.NotNil(t, ec)
	require.Equal(t, 1, ec.ExitCode())

	_, ec = NewRPCClient(context.Background(), config.RPC{Endpoint: "ws://127.0.0.1/rpc"}, nil)
	require.NotNil(t, ec)

	c, ec := NewRPCClient(context.Background(), config.Default("simnet").RPC, nil)
	require.Nil(t, ec)
	require.NotNil(t, c)
}

func TestGetKeyPair(t *testing.T) {
	kp, err := keys.NewKeyPair()
	require.NoError(t, err)

	t.Run("flag", func(t *testing.T) {
		actual, err := GetKeyPair(newContext(t, "--wif", kp.WIF()))
		require.NoError(t, err)
		require.Equal(t, kp.Address(), actual.Address())
	})

	t.Run("prompt", func(t *testing.T) {
		input.Terminal = term.NewTerminal(input.ReadWriter{
			Reader: bytes.NewBufferString(kp.WIF() + "\r"),
			Writer: io.Discard,
		}, "")
		t.Cleanup(func() { input.Terminal = nil })

		actual, err := GetKeyPair(newContext(t))
		require.NoError(t, err)
		require.Equal(t, kp.Address(), actual.Address())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := GetKeyPair(newContext(t, "--wif", "garbage"))
		require.Error(t, err)
	})
}

func TestHandleLoggingParams(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		log, lvl, err := HandleLoggingParams(false, config.ApplicationConfiguration{})
		require.NoError(t, err)
		require.NotNil(t, log)
		require.Equal(t, zapcore.InfoLevel, lvl.Level())
	})

	t.Run("debug", func(t *testing.T) {
		_, lvl, err := HandleLoggingParams(true, config.ApplicationConfiguration{LogLevel: "warn"})
		require.NoError(t, err)
		require.Equal(t, zapcore.DebugLevel, lvl.Level())
	})

	t.Run("bad level", func(t *testing.T) {
		_, _, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogLevel: "loud"})
		require.Error(t, err)
	})

	t.Run("log path", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "logs", "phantasma.log")
		log, _, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogPath: p})
		require.NoError(t, err)
		log.Info("hello")
		require.NoError(t, log.Sync())
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		require.Contains(t, string(data), "hello")
	})
}
