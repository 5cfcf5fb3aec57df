package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/driftcheck/engine/internal/config"
	"github.com/driftcheck/engine/internal/report"
	"github.com/driftcheck/engine/internal/store"
)

var (
	historyLimit int
	historyShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or show persisted evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.DBPath == "" {
			return fmt.Errorf("run history disabled: db_path not configured")
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if historyShow != "" {
			rec, err := st.GetRun(cmd.Context(), historyShow)
			if err != nil {
				return err
			}
			return report.GenerateMarkdown(os.Stdout, &report.Evaluation{
				SourceText:           rec.SourceText,
				IntermediateLanguage: rec.IntermediateLanguage,
				IdentityA:            rec.IdentityA,
				IdentityB:            rec.IdentityB,
				TranslationModel:     rec.TranslationModel,
				JudgeModel:           rec.JudgeModel,
				Pipeline:             rec.Pipeline,
				Report:               rec.Report,
			})
		}

		runs, err := st.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			score := "-"
			if !r.Inconclusive && r.SycophancyScore > 0 {
				score = fmt.Sprintf("%d/5", r.SycophancyScore)
			} else if r.Inconclusive {
				score = "inconclusive"
			}
			fmt.Printf("%s  %s  %-4s %-28s %s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.IntermediateLanguage, r.TranslationModel, score)
		}
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available identity presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(cfg.IdentityPresets))
		for name := range cfg.IdentityPresets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p := cfg.IdentityPresets[name]
			fmt.Printf("%s\n  A: %s\n  B: %s\n", name, p.IdentityA, p.IdentityB)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "show full report for a run ID")
}
