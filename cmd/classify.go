package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/classify"
	"github.com/urbandata-br/ruido-cli/internal/cluster"
	"github.com/urbandata-br/ruido-cli/internal/geofile"
)

var (
	classifyIn       string
	classifyOut      string
	classifyClusters int
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Apply rule-based labels and exploratory text clusters",
	Long: "Runs the two-phase keyword classification (context, then modality) and the " +
		"time-window inference over every record, then clusters the token corpus with " +
		"TF-IDF + K-Means for exploratory labeling. Records without tokens are tokenized " +
		"first. Re-running over an already-classified file recomputes everything " +
		"deterministically.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tokenizer, dicts, err := loadLanguageResources()
		if err != nil {
			return err
		}

		records, err := geofile.Read(classifyIn)
		if err != nil {
			return eris.Wrap(err, "classify: load input")
		}

		classifier := classify.New(tokenizer, dicts)
		counts := classifier.ClassifyAll(records)

		docs := make([]string, len(records))
		for i, rec := range records {
			docs[i] = strings.Join(rec.Tokens, " ")
		}
		k := classifyClusters
		if k <= 0 {
			k = cfg.Text.Clusters
		}
		result, err := cluster.ClusterTexts(docs, cluster.TextOptions{
			Clusters: k,
			TopTerms: cfg.Text.TopTerms,
			Seed:     cfg.Text.Seed,
		})
		if err != nil {
			return eris.Wrap(err, "classify: cluster corpus")
		}
		for i, label := range result.Labels {
			records[i].TextCluster = fmt.Sprintf("cluster_%d", label)
		}

		out := outOrIn(classifyIn, classifyOut)
		if err := geofile.Write(out, records); err != nil {
			return eris.Wrap(err, "classify: save output")
		}

		log := zap.L()
		log.Info("classification complete",
			zap.Int("records", len(records)),
			zap.String("out", out),
		)
		for _, label := range sortedKeys(counts) {
			log.Info("source type distribution",
				zap.String("label", label),
				zap.Int("count", counts[label]),
			)
		}
		clusterIDs := make([]int, 0, len(result.Terms))
		for id := range result.Terms {
			clusterIDs = append(clusterIDs, id)
		}
		sort.Ints(clusterIDs)
		for _, id := range clusterIDs {
			log.Info("cluster representative terms",
				zap.Int("cluster", id),
				zap.Strings("terms", result.Terms[id]),
			)
		}
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	classifyCmd.Flags().StringVar(&classifyIn, "in", "", "input GeoJSON file (required)")
	classifyCmd.Flags().StringVar(&classifyOut, "out", "", "output GeoJSON file (default: rewrite input)")
	classifyCmd.Flags().IntVar(&classifyClusters, "clusters", 0, "text cluster count (default: from config)")
	_ = classifyCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(classifyCmd)
}
