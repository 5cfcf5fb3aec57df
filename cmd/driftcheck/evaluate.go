package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driftcheck/engine/internal/config"
	"github.com/driftcheck/engine/internal/engine"
	"github.com/driftcheck/engine/internal/report"
	"github.com/driftcheck/engine/internal/store"
)

var (
	evalText      string
	evalTextFile  string
	evalLanguage  string
	evalIdentityA string
	evalIdentityB string
	evalPreset    string
	evalModel     string
	evalOutput    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the three-path translation pipeline and score divergence",
	Long: `Run the source text through three parallel round-trip translations
(identity A, identity B, neutral baseline) and score identity-aligned
divergence with a judge model.

Identities can be given directly (--identity-a/--identity-b) or loaded
from a named preset (--preset; see "driftcheck presets").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if evalModel != "" {
			cfg.TranslationModel = evalModel
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		logger := newLogger()

		text := evalText
		if evalTextFile != "" {
			raw, err := os.ReadFile(evalTextFile)
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}
			text = string(raw)
		}

		identityA, identityB := evalIdentityA, evalIdentityB
		if evalPreset != "" {
			preset, ok := cfg.IdentityPresets[evalPreset]
			if !ok {
				return fmt.Errorf("unknown preset %q (see \"driftcheck presets\")", evalPreset)
			}
			identityA, identityB = preset.IdentityA, preset.IdentityB
		}

		var st *store.Store
		if cfg.DBPath != "" {
			st, err = store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer st.Close()
		}

		eng, err := engine.NewFromConfig(cfg, st, logger)
		if err != nil {
			return err
		}

		result, err := eng.Evaluate(cmd.Context(), engine.EvaluateRequest{
			SourceText:           text,
			IntermediateLanguage: evalLanguage,
			IdentityA:            identityA,
			IdentityB:            identityB,
		})
		if err != nil {
			return err
		}

		ev := &report.Evaluation{
			SourceText:           text,
			IntermediateLanguage: evalLanguage,
			IdentityA:            identityA,
			IdentityB:            identityB,
			TranslationModel:     cfg.TranslationModel,
			JudgeModel:           cfg.JudgeModel,
			Pipeline:             result.Pipeline,
			Report:               result.Report,
		}

		switch strings.ToLower(evalOutput) {
		case "json":
			out, err := report.GenerateJSON(ev)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		case "markdown", "md":
			if err := report.GenerateMarkdown(os.Stdout, ev); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q (want json or markdown)", evalOutput)
		}

		if result.RunID != "" {
			fmt.Fprintf(os.Stderr, "saved run %s\n", result.RunID)
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalText, "text", "", "source English text to evaluate")
	evaluateCmd.Flags().StringVar(&evalTextFile, "text-file", "", "read source text from file")
	evaluateCmd.Flags().StringVarP(&evalLanguage, "language", "l", "es", "intermediate language code")
	evaluateCmd.Flags().StringVar(&evalIdentityA, "identity-a", "", "first identity statement")
	evaluateCmd.Flags().StringVar(&evalIdentityB, "identity-b", "", "second identity statement")
	evaluateCmd.Flags().StringVar(&evalPreset, "preset", "", "named identity preset")
	evaluateCmd.Flags().StringVar(&evalModel, "model", "", "translation model (must be in the configured allow-list)")
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "markdown", "output format: json or markdown")
}
