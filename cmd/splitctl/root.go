package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"splitcalc/internal/cli"
	"splitcalc/internal/config"
	"splitcalc/internal/log"
)

var (
	cfg     *config.Config
	logger  *log.Logger
	session *cli.Session

	verbose bool
)

// surveyOpts contains custom options for all survey prompts
var surveyOpts = []survey.AskOpt{
	survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = "-"
	}),
}

var rootCmd = &cobra.Command{
	Use:   "splitctl",
	Short: "Split shared bills from the terminal",
	Long: `splitctl calculates how shared bills are divided, using the same
history as the splitcalc server (DATA_BACKEND, STORAGE_SLOT, ...).`,
	SilenceUsage:       true,
	PersistentPreRunE:  openSession,
	PersistentPostRunE: closeSession,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")
}

func openSession(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}
	cli.LoadEnvFile()

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cli.LoggerConfig(cfg, log.ComponentCLI)
	lc.Output = cmd.ErrOrStderr()
	if !verbose {
		lc.Level = log.ParseLevel("error")
	}
	logger = cli.SetupLogger(lc)

	session, err = cli.OpenSession(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	return nil
}

func closeSession(cmd *cobra.Command, args []string) error {
	if session == nil {
		return nil
	}
	return session.Close()
}
