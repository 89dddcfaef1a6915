package main

import (
	"github.com/BurntSushi/toml"
	"github.com/LixenWraith/filelog"
	"github.com/spf13/cobra"
)

var configFrom string

var configCmd = &cobra.Command{
	Use:   "config [command]",
	Short: "print or save logger configuration",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "print the default configuration, or the one in --from, as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfigFrom()
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "write the default configuration, or the one in --from, to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFrom()
		if err != nil {
			return err
		}
		return filelog.SaveConfig(args[0], cfg)
	},
}

func init() {
	configCmd.PersistentFlags().StringVar(&configFrom, "from", "", "existing TOML configuration to start from")
	configCmd.AddCommand(configPrintCmd, configSaveCmd)
}

func loadConfigFrom() (filelog.Config, error) {
	if configFrom == "" {
		return filelog.DefaultConfig(), nil
	}
	return filelog.LoadConfig(configFrom)
}
