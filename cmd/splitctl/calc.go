package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
)

var errInvalidSplit = errors.New("invalid split")

var (
	calcItems       []string
	calcPeople      int
	calcPercents    []float64
	calcInteractive bool
)

// calcCmd computes a split and stores it in the history
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a split and save it",
	Long: `Calculate how the bills are shared and save the calculation to the history.

Without --item the built-in categories are used. Each --item replaces them:

  splitctl calc --item "Rent=1200" --item "Internet Bill=45.50" --people 3
  splitctl calc --item "Rent=1000" --people 2 --percent 60 --percent 40`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().StringArrayVar(&calcItems, "item", nil, `expense as "Category=amount" (repeatable)`)
	calcCmd.Flags().IntVarP(&calcPeople, "people", "p", 0, "number of people sharing the bills")
	calcCmd.Flags().Float64SliceVar(&calcPercents, "percent", nil, "per-person percentage, in person order (enables advanced mode)")
	calcCmd.Flags().BoolVarP(&calcInteractive, "interactive", "i", false, "prompt for each amount and the number of people")
}

type itemFlag struct {
	Category string
	Amount   float64
}

// parseItem splits "Category=amount" at the last '='. The amount is coerced
// like form input: anything unparsable is 0.
func parseItem(s string) (itemFlag, error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		return itemFlag{}, fmt.Errorf("invalid item %q: expected Category=amount", s)
	}
	name := strings.TrimSpace(s[:i])
	if name == "" {
		return itemFlag{}, fmt.Errorf("invalid item %q: %w", s, core.ErrEmptyCategoryName)
	}
	return itemFlag{Category: name, Amount: core.ParseAmount(s[i+1:])}, nil
}

// defaultPeople counts one person per --percent value when --people was not
// given.
func defaultPeople(people int, set bool, percents []float64) int {
	if !set && people <= 0 && len(percents) > 0 {
		return len(percents)
	}
	return people
}

// planCalc turns the flags into the actions that build the ledger and policy
// on top of base. Item ids are derived by replaying the ledger edits.
func planCalc(base core.Ledger, items []itemFlag, people int, percents []float64) []app.Action {
	var actions []app.Action
	l := base

	if len(items) > 0 {
		for _, it := range base.Items() {
			actions = append(actions, app.RemoveCategory{ID: it.ID})
			l = l.RemoveCategory(it.ID)
		}
		for _, it := range items {
			l = l.AddCategory(it.Category)
			all := l.Items()
			id := all[len(all)-1].ID
			actions = append(actions,
				app.AddCategory{Name: it.Category},
				app.UpdateAmount{ID: id, Amount: it.Amount})
		}
	}

	actions = append(actions, app.SetPeople{People: people})
	if len(percents) > 0 {
		actions = append(actions, app.SetAdvanced{On: true})
		for i, p := range percents {
			actions = append(actions, app.SetPercentage{Index: i, Value: p})
		}
	}
	return actions
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl := session.Controller

	items := make([]itemFlag, 0, len(calcItems))
	for _, raw := range calcItems {
		it, err := parseItem(raw)
		if err != nil {
			return err
		}
		items = append(items, it)
	}

	if _, err := ctrl.Dispatch(ctx, app.ResetDefaults{}); err != nil {
		return err
	}

	people := defaultPeople(calcPeople, cmd.Flags().Changed("people"), calcPercents)
	if calcInteractive {
		var err error
		items, people, err = promptCalc(ctrl.State().Ledger, items, people)
		if err != nil {
			return err
		}
	}

	for _, a := range planCalc(ctrl.State().Ledger, items, people, calcPercents) {
		if _, err := ctrl.Dispatch(ctx, a); err != nil {
			return err
		}
	}
	if len(calcPercents) > 0 && len(calcPercents) != people {
		pterm.Warning.Printf("%d percentages given for %d people\n", len(calcPercents), people)
	}

	st, err := ctrl.Dispatch(ctx, app.Calculate{})
	if st.Outcome == nil {
		pterm.Error.Println(st.Result)
		return errInvalidSplit
	}

	renderOutcome(st)
	if err != nil {
		pterm.Warning.Println(st.Notice)
		return err
	}
	rec := st.Records[len(st.Records)-1]
	pterm.Success.Printf("Saved calculation #%d (%s)\n", rec.ID, rec.Label())
	return nil
}

func renderOutcome(st app.State) {
	pterm.DefaultSection.Println("Expenses")
	data := pterm.TableData{{"Category", "Amount"}}
	for _, it := range st.Ledger.Items() {
		data = append(data, []string{it.Category, core.FormatAmount(it.Amount)})
	}
	data = append(data, []string{"Total", core.FormatAmount(st.Ledger.Total())})
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.DefaultSection.Println("Split")
	shares := pterm.TableData{{"Person", "Share", "Amount"}}
	for i, s := range st.Outcome.Shares {
		pct := 100 / float64(len(st.Outcome.Shares))
		if st.Policy.Advanced && i < len(st.Policy.Percentages) {
			pct = st.Policy.Percentages[i]
		}
		shares = append(shares, []string{
			strconv.Itoa(s.Person),
			core.FormatAmount(pct) + "%",
			core.FormatAmount(s.Amount) + " " + st.Currency,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(shares).Render()
	pterm.Info.Println(st.Result)
}

// promptCalc asks for every amount, starting from the given items or the
// current ledger, and for the number of people when it is not set.
func promptCalc(l core.Ledger, items []itemFlag, people int) ([]itemFlag, int, error) {
	if len(items) == 0 {
		for _, it := range l.Items() {
			items = append(items, itemFlag{Category: it.Category, Amount: it.Amount})
		}
	}

	for i := range items {
		answer := core.FormatAmount(items[i].Amount)
		prompt := &survey.Input{Message: items[i].Category + ":", Default: answer}
		if err := survey.AskOne(prompt, &answer, surveyOpts...); err != nil {
			return nil, 0, err
		}
		items[i].Amount = core.ParseAmount(answer)
	}

	if people <= 0 {
		answer := ""
		prompt := &survey.Input{Message: "Number of people:"}
		if err := survey.AskOne(prompt, &answer, surveyOpts...); err != nil {
			return nil, 0, err
		}
		people = core.ParsePeople(answer)
	}
	return items, people, nil
}
