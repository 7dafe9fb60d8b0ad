// Package cmd implements the gotoken CLI commands.
package cmd

import (
	"context"
	"crypto/ed25519"
	"errors"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/internal/security"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var errNoKeyFile = errors.New("no key file: pass --key or set GOTOKEN_KEY_FILE")

// globals holds state shared by every subcommand of one root command.
type globals struct {
	configPath string
	logLevel   string

	cfg    Config
	logger *logrus.Logger
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "gotoken",
		Short: "Issue EdDSA identity tokens",
		Long: `gotoken issues short-lived identity tokens that bind a user to an
application, signed with an Ed25519 private key.

Configuration is read from a YAML file (--config or GOTOKEN_CONFIG), then
GOTOKEN_* environment variables, then flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := LoadConfig(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = g.logLevel
			}
			logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g.cfg = cfg
			g.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (env: GOTOKEN_CONFIG)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warning, error (env: GOTOKEN_LOG_LEVEL)")

	root.AddCommand(newIssueCmd(g))
	root.AddCommand(newPubkeyCmd(g))
	root.AddCommand(newBenchCmd(g))
	root.AddCommand(newPerfcheckCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadKey resolves the key path from the flag or config and parses it.
func (g *globals) loadKey(flagPath string) (ed25519.PrivateKey, error) {
	path := flagPath
	if path == "" {
		path = g.cfg.KeyFile
	}
	if path == "" {
		return nil, errNoKeyFile
	}
	g.logger.WithField("path", path).Debug("loading signing key")
	return security.ReadPrivateKey(path)
}

func (g *globals) expirationFormat(cmd *cobra.Command, flagValue string) (jwt.ExpirationFormat, error) {
	name := g.cfg.ExpFormat
	if cmd.Flags().Changed("exp-format") {
		name = flagValue
	}
	return jwt.ParseExpirationFormat(name)
}

// newIssuer builds an issuer wired to the configured audit sink. The returned
// cleanup flushes audit events and releases any Redis connection.
func (g *globals) newIssuer(format jwt.ExpirationFormat, latency bool, forceRedis bool) (*goToken.Issuer, func(), error) {
	b := goToken.New().
		WithLogger(g.logger).
		WithExpirationFormat(format).
		WithLatencyHistograms(latency)

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	addr := g.cfg.Audit.RedisAddr
	switch {
	case addr != "" || forceRedis:
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				return nil, nil, err
			}
			closers = append(closers, mr.Close)
			addr = mr.Addr()
			g.logger.WithField("addr", addr).Info("audit: using in-process redis")
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		closers = append(closers, func() { _ = client.Close() })
		if err := client.Ping(context.Background()).Err(); err != nil {
			cleanup()
			return nil, nil, err
		}
		b = b.WithAuditSink(goToken.NewRedisStreamSink(client, g.cfg.Audit.Stream, g.cfg.Audit.MaxLen))
	case g.cfg.Audit.Log:
		b = b.WithAuditSink(goToken.NewLogrusSink(g.logger))
	}

	issuer, err := b.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, issuer.Close)
	return issuer, cleanup, nil
}
