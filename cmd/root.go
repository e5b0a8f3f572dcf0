package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"creditrust/config"

	"github.com/fox-one/pkg/logger"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var (
	cfgFile   string
	cfg       config.Config
	debugMode bool
)

var rootCmd = cobra.Command{
	Use:           "creditrust",
	Short:         "creditrust cdp vault client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		file, err := configFile()
		if err != nil {
			return err
		}

		if file != "" {
			logrus.Debugln("use config file", file)
		}

		return config.Load(file, &cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, ~/.creditrust.yaml when present")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "debug logging, also CREDITRUST_DEBUG=1")

	structs.DefaultTagName = "json"
}

// Execute run the cli, ver is reported by --version and /hc
func Execute(ver string) {
	rootCmd.Version = ver

	ctx := logger.WithContext(context.Background(), logrus.WithField("version", ver))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configFile the --config flag, else ~/.creditrust.yaml if it exists, else
// empty (env and defaults only)
func configFile() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	name := filepath.Join(home, ".creditrust.yaml")
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	return "", nil
}

func setupLogging() {
	if v, _ := strconv.ParseBool(os.Getenv("CREDITRUST_DEBUG")); v {
		debugMode = true
	}

	level := logrus.InfoLevel
	if debugMode {
		level = logrus.DebugLevel
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
