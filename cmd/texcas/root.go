package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/njchilds90/texcas/config"
	"github.com/njchilds90/texcas/internal/app"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

var errFailed = errors.New("operation failed")

// cli carries what the subcommands share.
type cli struct {
	v          *viper.Viper
	configPath string
	noColor    bool
	app        *app.App
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "texcas",
		Short: "LaTeX to CAS translator and calculator",
		Long: fmt.Sprintf(`%s

Translates LaTeX math into CAS syntax and back, and evaluates, simplifies,
factors, expands, solves, differentiates or integrates LaTeX input.

%s
  texcas to-cas '\frac{1}{2}+\sqrt{x}'
  texcas to-latex 'nthRoot(x, 3)'
  texcas run derivative 'x^3'
  texcas repl

Settings come from --config (or texcas.yaml in . or ~/.config/texcas)
and TEXCAS_* environment variables, e.g. TEXCAS_LOCALE=en.`,
			bold("texcas"), bold("EXAMPLES:")),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.noColor || !isTTY(cmd.OutOrStdout()) {
				color.NoColor = true
			}
			return c.initialize(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (YAML)")
	flags.String("locale", "", "message locale: fr or en")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	_ = c.v.BindPFlag("locale", flags.Lookup("locale"))
	_ = c.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		newToCASCommand(),
		newToLatexCommand(),
		newRunCommand(c),
		newOpsCommand(c),
		newParseCommand(),
		newREPLCommand(c),
	)
	return root
}

// initialize resolves the configuration: built-in defaults, then the YAML
// file, then TEXCAS_* variables and flags.
func (c *cli) initialize(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		c.v.SetConfigName("texcas")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME/.config/texcas")
		if err := c.v.ReadInConfig(); err == nil {
			path = c.v.ConfigFileUsed()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	c.v.SetEnvPrefix("TEXCAS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()
	setDefaults(c.v, cfg)
	if err := c.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	c.app, err = app.New(cfg, cmd.ErrOrStderr())
	return err
}

// setDefaults registers every key with viper so that environment
// variables reach Unmarshal.
func setDefaults(v *viper.Viper, cfg config.Config) {
	v.SetDefault("locale", cfg.Locale)
	v.SetDefault("reset_policy", cfg.ResetPolicy)
	v.SetDefault("engines", cfg.Engines)
	v.SetDefault("parse_cache_size", cfg.ParseCacheSize)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("server.max_input_chars", cfg.Server.MaxInputChars)
	v.SetDefault("server.metrics", cfg.Server.Metrics)
}
