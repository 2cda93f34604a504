package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/restaurant-directory/internal/config"
	"github.com/aanand-mishra/restaurant-directory/internal/logger"
	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/storage/rest"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string

	store     storage.Storage
	validator *validation.Validator
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "restaurants",
		Short:         "Browse and maintain the restaurant directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the configuration YAML file (or CONFIG_PATH)")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Path(a.configPath))
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays the command's output.
	a.logger = logger.New(cfg.Env, cmd.ErrOrStderr())

	client, err := rest.New(cfg.Backend.BaseURL, cfg.Backend.Resource, rest.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.store = client
	a.validator = validation.New()
	return nil
}

// navigator records where a controller asked to go next. The command
// decides what to print from it.
type navigator struct {
	toList  bool
	editID  int64
	handoff *types.Restaurant
}

func (n *navigator) ToList() { n.toList = true }

// ToAdd is a no-op: the create form is the add subcommand.
func (n *navigator) ToAdd() {}

func (n *navigator) ToEdit(id int64, handoff *types.Restaurant) {
	n.editID = id
	n.handoff = handoff
}
