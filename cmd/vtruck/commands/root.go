package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vtruck/internal/app"
	"vtruck/internal/domain"
	"vtruck/internal/i18n"
	"vtruck/internal/logger"
)

// cli is the state shared by every subcommand of one invocation.
type cli struct {
	home       string
	configFile string
	lang       string
	passphrase string
	logLevel   string

	out    io.Writer
	errOut io.Writer

	bundle *i18n.Bundle
	p      *i18n.Printer
	wire   *app.Wire
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one command line. Failures are printed to errOut in the
// selected language and returned.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return err
	}
	c := &cli{out: out, errOut: errOut, bundle: bundle, p: bundle.Printer(i18n.BaseLocale)}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, c.describe(err))
		return err
	}
	return nil
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vtruck",
		Short:         "Freight marketplace client",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", "", "config dir (default ~/.vtruck)")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&c.lang, "lang", "", "display language (en, hi)")
	root.PersistentFlags().StringVarP(&c.passphrase, "passphrase", "p", "", "passphrase sealing the saved session")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.loginCmd(), c.otpCmd(), c.signupCmd(), c.logoutCmd(),
		c.whoamiCmd(), c.statusCmd(), c.settingsCmd(), c.langCmd(),
		c.loadCmd(), c.findCmd(), c.bidCmd(),
		c.vehicleCmd(), c.driverCmd(), c.kycCmd(),
		c.draftCmd(), c.placesCmd(),
	)
	return root
}

// setup loads the configuration, builds the wire and resolves the language.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := app.Load(c.home, c.configFile)
	if err != nil {
		return err
	}
	if c.passphrase != "" {
		cfg.App.Passphrase = c.passphrase
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	w, err := app.NewWire(cfg)
	if err != nil {
		return err
	}
	c.wire = w

	stored, _, err := w.Prefs.Get(domain.PrefLanguage)
	if err != nil {
		w.Log.Warn("read language preference", zap.Error(err))
	}
	c.p = c.bundle.Printer(c.bundle.Match(c.lang, stored, cfg.App.Language, os.Getenv("LANG")))

	ctx := logger.WithContext(cmd.Context(), w.Log)
	cmd.SetContext(logger.WithRequestID(ctx, uuid.NewString()))
	return nil
}

func (c *cli) close() {
	if c.wire != nil {
		c.wire.Close()
	}
}

// say prints a localized line to the command output.
func (c *cli) say(key string, args ...any) {
	fmt.Fprintln(c.out, c.p.T(key, args...))
}
