package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twennie/internal/config"
	"github.com/goliatone/go-twennie/pkg/unit"
)

// errInvalid makes the process exit with status 1 after the command has
// already reported the validation issues.
var errInvalid = errors.New("submission is invalid")

// app carries state shared by every subcommand.
type app struct {
	configPath string
	catalog    *unit.Catalog
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{catalog: unit.DefaultCatalog()}

	cmd := &cobra.Command{
		Use:           "twennie",
		Short:         "Publish and validate Twennie learning units",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "path to the YAML config file")

	cmd.AddCommand(
		newServeCmd(a),
		newValidateCmd(a),
		newNewCmd(a, nil),
		newKindsCmd(a),
		newOpenAPICmd(a),
		newInitCmd(a),
	)
	return cmd
}
