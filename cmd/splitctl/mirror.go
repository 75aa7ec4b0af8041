package main

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"splitcalc/internal/amqp"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Ask the worker to mirror the history to Google Sheets",
	Args:  cobra.NoArgs,
	RunE:  runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set; start the worker with a broker to mirror on demand")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, session.Store.SlotName(), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.RequestMirror(cmd.Context()); err != nil {
		return err
	}
	pterm.Success.Printf("Mirror requested for slot %q\n", session.Store.SlotName())
	return nil
}
