// Command mealparse runs the meal parser and the plan calculator from the
// command line.
//
//	mealparse [-policy leftmost-longest|declaration-order] [-json] "2 eggs and toast"
//	mealparse plan [-gender male|female] [-height cm] [-weight kg] [-goal kg] [-units metric|imperial] [-json]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dukerupert/macrolog/internal/mealparse"
	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/nutrition"
	"github.com/dukerupert/macrolog/internal/plan"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	var err error
	if len(args) > 0 && args[0] == "plan" {
		err = runPlan(args[1:], stdout, stderr, now())
	} else {
		err = runParse(args, stdout, stderr)
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "mealparse: %v\n", err)
		return 2
	}
	return 0
}

type parseOutput struct {
	Items  []model.ParsedItem `json:"items"`
	Totals model.Macro        `json:"totals"`
}

func runParse(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mealparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policyName := fs.String("policy", "leftmost-longest", "substring match policy: leftmost-longest or declaration-order")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	policy, err := nutrition.ParseMatchPolicy(*policyName)
	if err != nil {
		return err
	}

	input := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no meal given")
	}

	items := mealparse.NewParser(nutrition.NewResolver(policy)).ParseMeal(input)
	out := parseOutput{Items: items, Totals: mealparse.SumItems(items)}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY\tUNIT\tKCAL\tPROTEIN\tCARBS\tFAT\tMATCH\tNOTE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%g\t%g\t%g\t%g\t%s\t%s\n",
			it.Name, it.Quantity, it.Unit,
			it.Macros.Calories, it.Macros.Protein, it.Macros.Carbs, it.Macros.Fat,
			it.MatchedAs, it.Note)
	}
	t := out.Totals
	fmt.Fprintf(tw, "TOTAL\t\t\t%g\t%g\t%g\t%g\t\t\n", t.Calories, t.Protein, t.Carbs, t.Fat)
	return tw.Flush()
}

func runPlan(args []string, stdout, stderr io.Writer, now time.Time) error {
	def := model.DefaultProfile()

	fs := flag.NewFlagSet("mealparse plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gender := fs.String("gender", string(def.Gender), "male or female")
	units := fs.String("units", string(def.Units), "metric (cm, kg) or imperial (in, lbs) for the inputs and output")
	height := fs.Float64("height", 0, "height in cm, or inches with -units imperial")
	weight := fs.Float64("weight", 0, "current weight in kg, or lbs with -units imperial")
	goal := fs.Float64("goal", 0, "goal weight in kg, or lbs with -units imperial")
	asJSON := fs.Bool("json", false, "print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := model.Profile{Gender: model.Gender(*gender), Units: model.Units(*units)}
	imperial := p.Units == model.UnitsImperial

	p.HeightCm = def.HeightCm
	p.WeightKg = def.WeightKg
	p.GoalWeightKg = def.GoalWeightKg
	if *height > 0 {
		p.HeightCm = *height
		if imperial {
			p.HeightCm = plan.FtInToCm(0, *height)
		}
	}
	if *weight > 0 {
		p.WeightKg = *weight
		if imperial {
			p.WeightKg = plan.LbsToKg(*weight)
		}
	}
	if *goal > 0 {
		p.GoalWeightKg = *goal
		if imperial {
			p.GoalWeightKg = plan.LbsToKg(*goal)
		}
	}

	if err := p.Validate(); err != nil {
		return err
	}

	pl := plan.ComputeAt(p, now)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pl)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Assumed age\t%d\n", pl.AgeAssumed)
	fmt.Fprintf(tw, "BMR\t%d kcal\n", pl.BMR)
	fmt.Fprintf(tw, "TDEE\t%d kcal\n", pl.TDEE)
	fmt.Fprintf(tw, "Daily target\t%d kcal\n", pl.TargetCalories)
	fmt.Fprintf(tw, "Protein\t%d g\n", pl.ProteinG)
	fmt.Fprintf(tw, "Fat\t%d g\n", pl.FatG)
	fmt.Fprintf(tw, "Carbs\t%d g\n", pl.CarbsG)
	if imperial {
		fmt.Fprintf(tw, "Change\t%+.1f lbs\n", plan.KgToLbs(p.GoalWeightKg-p.WeightKg))
	} else {
		fmt.Fprintf(tw, "Change\t%+.1f kg\n", pl.DeltaKg)
	}
	if pl.DaysToGoal > 0 {
		fmt.Fprintf(tw, "Daily adjustment\t%+d kcal\n", pl.DailyDeltaKcal)
		fmt.Fprintf(tw, "Time to goal\t%d days (%.1f weeks)\n", pl.DaysToGoal, pl.WeeksToGoal)
		fmt.Fprintf(tw, "Target date\t%s\n", pl.TargetDate.Format("2006-01-02"))
	} else {
		fmt.Fprintln(tw, "Time to goal\tat goal")
	}
	return tw.Flush()
}
