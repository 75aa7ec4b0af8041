package main

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
)

var deleteYes bool

// historyCmd groups the saved calculation commands
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Manage saved calculations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show one saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete a saved calculation",
	Long:  `Delete a saved calculation from the history. This action cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func parseRecordID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record ID: %s", s)
	}
	return id, nil
}

func lookupRecord(arg string) (core.CalculationRecord, error) {
	id, err := parseRecordID(arg)
	if err != nil {
		return core.CalculationRecord{}, err
	}
	rec, ok := session.Store.Get(id)
	if !ok {
		return core.CalculationRecord{}, fmt.Errorf("record %d not found", id)
	}
	return rec, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	recs := session.Store.Records()
	if len(recs) == 0 {
		pterm.Info.Println("No saved calculations yet")
		return nil
	}

	data := pterm.TableData{{"ID", "Date", "Total", "People", "Mode", "Result"}}
	for _, r := range recs {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.Label(),
			core.FormatAmount(r.Ledger().Total()),
			strconv.Itoa(r.People),
			string(r.Policy().Mode()),
			r.Result,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	rec, err := lookupRecord(args[0])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("Calculation #%d\n", rec.ID)
	info := pterm.TableData{
		{"Field", "Value"},
		{"Date", rec.Label()},
		{"People", strconv.Itoa(rec.People)},
		{"Mode", string(rec.Policy().Mode())},
		{"Result", rec.Result},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(info).Render(); err != nil {
		return err
	}

	expenses := pterm.TableData{{"Category", "Amount"}}
	for _, e := range rec.Expenses {
		expenses = append(expenses, []string{e.Category, core.FormatAmount(e.Amount)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(expenses).Render(); err != nil {
		return err
	}

	if rec.Advanced {
		shares := pterm.TableData{{"Person", "Percentage"}}
		for i, p := range rec.Percentages {
			shares = append(shares, []string{strconv.Itoa(i + 1), core.FormatAmount(p) + "%"})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(shares).Render()
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	rec, err := lookupRecord(args[0])
	if err != nil {
		return err
	}

	pterm.Warning.Printf("About to delete calculation #%d from %s (total %s)\n",
		rec.ID, rec.Label(), core.FormatAmount(rec.Ledger().Total()))

	if !deleteYes {
		var confirmation bool
		confirmPrompt := &survey.Confirm{
			Message: "Do you want to delete this calculation?",
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirmation, surveyOpts...); err != nil {
			return err
		}
		if !confirmation {
			pterm.Info.Println("Deletion cancelled")
			return nil
		}
	}

	if _, err := session.Controller.Dispatch(cmd.Context(), app.DeleteRecord{ID: rec.ID}); err != nil {
		pterm.Error.Printf("Failed to delete calculation: %v\n", err)
		return err
	}
	pterm.Success.Printf("Calculation #%d deleted\n", rec.ID)
	return nil
}
