package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/i18n"
)

var longRootDescription = `jadn validates JSON instances against JADN schemas, normalizes schemas
and converts them to JSON, YAML, JSON Schema or Markdown.

Every flag can also be set in a config file (--config) or through
environment variables prefixed with JADN_, for example JADN_MAX_DEPTH=32.
`

// app carries the state shared by subcommands.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:           "jadn",
		Short:         "Validate and convert JADN schemas",
		Long:          longRootDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringP("schema", "s", "", "schema file (.jadn, .json, .yaml)")
	root.PersistentFlags().Int("max-depth", jadn.DefaultMaxDepth, "maximum instance nesting depth")
	root.PersistentFlags().Bool("lenient", false, "accept references to undefined types")
	root.PersistentFlags().String("lang", "en", "message language (en, ja)")

	root.AddCommand(
		newValidateCmd(a),
		newSimplifyCmd(a),
		newAnalyzeCmd(a),
		newConvertCmd(a),
	)
	return root
}

// init binds flags, environment and the optional config file, then sets up
// logging.
func (a *app) init(cmd *cobra.Command, cfgFile string) error {
	a.v.SetEnvPrefix("JADN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", cfgFile)
		}
	}
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if a.v.GetBool("verbose") {
		a.log.SetLevel(logrus.DebugLevel)
	}
	i18n.SetLanguage(a.v.GetString("lang"))
	return nil
}

// loadSchema reads the schema named by --schema.
func (a *app) loadSchema() (*jadn.Schema, error) {
	path := a.v.GetString("schema")
	if path == "" {
		return nil, errors.New("--schema is required")
	}
	a.log.WithField("schema", path).Debug("loading schema")
	return jadn.Load(path, jadn.LoadOpt{
		Logger:   a.log,
		MaxDepth: a.v.GetInt("max-depth"),
		Lenient:  a.v.GetBool("lenient"),
	})
}
