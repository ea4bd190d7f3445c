package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "planetgen",
	Short: "A procedural planet mesh generator",
	Long: `Planetgen builds planets from layered fractal noise.

It samples seeded simplex noise over an icosphere, splits the sphere into twenty
independently triangulated patches, and computes normals that stay continuous
across patch borders. Noise maps and surface previews can be rendered as PNGs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configErr
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "./out", "Output directory for rendered images")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	if err := viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func initConfig() {
	configErr = readConfig(viper.GetViper(), cfgFile)
}

// readConfig loads path into v, or ./config.yaml when path is empty. Only a
// missing default file is tolerated; an explicit file must exist and parse.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PLANETGEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if v.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
	return nil
}
