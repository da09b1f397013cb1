package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/geofile"
	"github.com/urbandata-br/ruido-cli/internal/model"
	"github.com/urbandata-br/ruido-cli/internal/rules"
)

var (
	rulesIn   string
	rulesFile string
	rulesOut  string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Evaluate ad hoc rules against a classified file",
	Long: "Loads a YAML rule list and reports, per rule, how many records satisfy all of " +
		"its non-empty constraint sets. Token constraints require the full token set; " +
		"time-window constraints match on any overlap. A rule with no constraints " +
		"matches nothing.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ruleList, err := rules.Load(rulesFile)
		if err != nil {
			return eris.Wrap(err, "rules: load definitions")
		}

		records, err := geofile.Read(rulesIn)
		if err != nil {
			return eris.Wrap(err, "rules: load input")
		}

		counts := make(map[string]int, len(ruleList))
		var matched []*model.Record
		for _, rec := range records {
			names := rules.Evaluate(rec, ruleList)
			for _, name := range names {
				counts[name]++
			}
			if len(names) > 0 {
				matched = append(matched, rec)
			}
		}

		log := zap.L()
		for _, rule := range ruleList {
			log.Info("rule evaluation",
				zap.String("rule", rule.Name),
				zap.Int("matches", counts[rule.Name]),
				zap.Int("records", len(records)),
			)
		}

		if rulesOut != "" {
			if err := geofile.Write(rulesOut, matched); err != nil {
				return eris.Wrap(err, "rules: save matching records")
			}
			log.Info("matching records written",
				zap.Int("records", len(matched)),
				zap.String("out", rulesOut),
			)
		}
		return nil
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesIn, "in", "", "classified GeoJSON file (required)")
	rulesCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule definitions (required)")
	rulesCmd.Flags().StringVar(&rulesOut, "out", "", "write records matching any rule to this GeoJSON file")
	_ = rulesCmd.MarkFlagRequired("in")
	_ = rulesCmd.MarkFlagRequired("rules")
	rootCmd.AddCommand(rulesCmd)
}
