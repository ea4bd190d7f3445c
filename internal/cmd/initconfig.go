package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/planetgen/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default planet config file",
	RunE:  runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)

	initConfigCmd.Flags().StringP("out", "o", "config.yaml", "Path of the config file to write")
	initConfigCmd.Flags().Bool("force", false, "Overwrite an existing file")

	if err := viper.BindPFlag("init_config.out", initConfigCmd.Flags().Lookup("out")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
	if err := viper.BindPFlag("init_config.force", initConfigCmd.Flags().Lookup("force")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	path := viper.GetString("init_config.out")
	if err := config.WriteFile(path, config.Default(), viper.GetBool("init_config.force")); err != nil {
		return err
	}

	logger.Info("Config written", "path", path)
	return nil
}
