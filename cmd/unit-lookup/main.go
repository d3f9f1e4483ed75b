// cmd/unit-lookup/main.go
package main

import (
	"os"

	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "unit-lookup",
		Short:         "Answers unit and plate lookups from the residents sheet",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newServeCmd(opts),
		newLookupCmd(opts),
		newInterpretCmd(opts),
		newRegistryCmd(),
	)
	return root
}

func (o *options) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// newLogger builds the zap logger; output overrides logging.output when set.
func newLogger(cfg *config.Config, output ...string) (*zap.Logger, logger.Logger) {
	if len(output) == 0 {
		output = []string{cfg.Logging.Output}
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, output...)
	return zapLog, logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
