package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/go-saleor-catalog/internal/fakesaleor"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an in-memory Saleor product API for local development",
		Long: `Serve an in-memory Saleor product API seeded with a few juices, t-shirts
and a cushion. When a token is configured, requests must send it as a
bearer token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []fakesaleor.Option{fakesaleor.WithLogger(a.logger)}
			if token := a.v.GetString(keyToken); token != "" {
				opts = append(opts, fakesaleor.WithToken(token))
			}
			h, err := fakesaleor.Handler(fakesaleor.Seed(), opts...)
			if err != nil {
				return err
			}
			a.logger.WithField("addr", addr).Infof("serving %s", fakesaleor.Path)
			return fakesaleor.ListenAndServe(cmd.Context(), addr, h)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
