package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/geofile"
)

var (
	tokenizeIn  string
	tokenizeOut string
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Tokenize complaint descriptions into normalized lemmas",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tokenizer, _, err := loadLanguageResources()
		if err != nil {
			return err
		}

		records, err := geofile.Read(tokenizeIn)
		if err != nil {
			return eris.Wrap(err, "tokenize: load input")
		}

		empty := 0
		for _, rec := range records {
			rec.Tokens = tokenizer.Tokenize(rec.Description)
			if len(rec.Tokens) == 0 {
				empty++
			}
		}

		out := outOrIn(tokenizeIn, tokenizeOut)
		if err := geofile.Write(out, records); err != nil {
			return eris.Wrap(err, "tokenize: save output")
		}

		zap.L().Info("tokenization complete",
			zap.Int("records", len(records)),
			zap.Int("empty_token_sequences", empty),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeIn, "in", "", "input GeoJSON file (required)")
	tokenizeCmd.Flags().StringVar(&tokenizeOut, "out", "", "output GeoJSON file (default: rewrite input)")
	_ = tokenizeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(tokenizeCmd)
}
