package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAddr = "127.0.0.1:9000"

// NewRootCmd creates the root vvctl command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "vvctl",
		Short:         "Command line client for the VectorVision API",
		Long:          "vvctl registers image folders with a running VectorVision server and searches them by text or by example image.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(v, cmd)
		},
	}

	root.PersistentFlags().String("addr", "", "API server address (host:port or URL), env VVCTL_ADDR")

	client := func() *apiClient {
		return newAPIClient(v.GetString("addr"))
	}

	root.AddCommand(
		newAddCmd(client),
		newFoldersCmd(client),
		newTasksCmd(client),
		newSearchCmd(client),
		newNavCmd(client),
	)

	return root
}

// initViper resolves settings with flag > env > default precedence.
func initViper(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("VVCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("addr", defaultAddr)

	return v.BindPFlag("addr", cmd.Root().PersistentFlags().Lookup("addr"))
}
