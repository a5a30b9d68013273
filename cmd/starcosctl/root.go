// Package starcosctl is an operator CLI for driving the STARCOS driver
// interactively against a real PC/SC reader: select, create, sign,
// generate-key, write-key, serial, logout and erase, each a cobra
// subcommand bound through viper.
package starcosctl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	"starcos/internal/reader"
	"starcos/starcos"
)

var version = "0.1.0"

var (
	readerIndex int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:     "starcosctl",
	Short:   "STARCOS SPK 2.3 driver CLI",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&readerIndex, "reader", "r", -1,
		"reader index (omit to auto-select when exactly one reader is present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug-level APDU tracing")
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.starcosctl.yaml)")

	viper.BindPFlag("reader", rootCmd.PersistentFlags().Lookup("reader"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(selectCmd, createCmd, writeKeyCmd, genKeyCmd, signCmd,
		serialCmd, logoutCmd, eraseCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".starcosctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
	}
	viper.AutomaticEnv()
	viper.SetEnvPrefix("STARCOSCTL")
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{Level: &level}))
}

// connectDriver auto-selects a reader when none was specified,
// connects, and wraps the result in a matched starcos.Driver.
func connectDriver(log *slog.Logger) (*starcos.Driver, *reader.Reader, error) {
	idx := viper.GetInt("reader")
	if idx < 0 {
		readers, err := reader.ListReaders()
		if err != nil {
			return nil, nil, fmt.Errorf("list readers: %w", err)
		}
		switch len(readers) {
		case 0:
			return nil, nil, fmt.Errorf("no smart card readers found")
		case 1:
			idx = 0
		default:
			return nil, nil, fmt.Errorf("multiple readers found, pass -r <index>: %v", readers)
		}
	}

	rdr, err := reader.Connect(log, idx)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	drv, err := starcos.Init(log, rdr.ATR())
	if err != nil {
		rdr.Close()
		return nil, nil, err
	}
	drv.Bind(rdr)

	return drv, rdr, nil
}
