// Package cli implements the saleor-catalog command.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	graphql "github.com/llehouerou/go-saleor-catalog"
)

// Configuration keys. Each can also be set through a SALEOR_ prefixed
// environment variable, e.g. SALEOR_ENDPOINT.
const (
	keyEndpoint = "endpoint"
	keyToken    = "token"
	keyDebug    = "debug"
	keyLogLevel = "log-level"
	keyTimeout  = "timeout"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *logrus.Logger
}

// NewRootCmd returns the root command of saleor-catalog.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: logrus.New()}

	rootCmd := &cobra.Command{
		Use:           "saleor-catalog",
		Short:         "Inspect and run the Saleor dashboard product queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			return a.initLogger(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.saleor-catalog.yaml)")
	flags.String(keyEndpoint, "http://localhost:8000/graphql/", "Saleor GraphQL endpoint")
	flags.String(keyToken, "", "staff token sent as a bearer token")
	flags.Bool(keyDebug, false, "attach request and response bodies to errors")
	flags.String(keyLogLevel, "info", "log level: debug|info|warn|error")
	flags.Duration(keyTimeout, 30*time.Second, "request timeout")
	for _, key := range []string{keyEndpoint, keyToken, keyDebug, keyLogLevel, keyTimeout} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPrintCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
			a.v.SetConfigName(".saleor-catalog")
		}
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("SALEOR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist, the default one may not.
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) initLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetFormatter(&logrus.JSONFormatter{})
	a.logger.SetLevel(level)
	return nil
}

// client builds a GraphQL client from the configuration.
func (a *app) client() *graphql.Client {
	c := graphql.NewClient(
		a.v.GetString(keyEndpoint),
		&http.Client{Timeout: a.v.GetDuration(keyTimeout)},
	).
		WithLogger(a.logger).
		WithDebug(a.v.GetBool(keyDebug))

	if token := a.v.GetString(keyToken); token != "" {
		c = c.WithRequestModifier(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		})
	}
	return c
}
