package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

var (
	patternsPath string
	contextChars int
)

func main() {
	root := &cobra.Command{
		Use:   "sentinel",
		Short: "Scam-signal scoring toolkit",
		Long:  "Scores chat text against the scam pattern catalog and extracts evidence snippets.",
	}

	root.PersistentFlags().StringVar(&patternsPath, "patterns", "", "path to a pattern catalog YAML file (default: built-in catalog)")

	scanCmd := &cobra.Command{
		Use:   "scan [text]",
		Short: "Score text against the scam pattern catalog",
		Long:  "Scores the given text (or stdin when no argument is given) and prints the result as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().IntVar(&contextChars, "context", ai.DefaultContextChars, "context window around each match, in characters")

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the active pattern catalog as JSON",
		RunE:  runPatterns,
	}

	root.AddCommand(scanCmd, patternsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type scanOutput struct {
	Score           int      `json:"score"`
	RiskLevel       string   `json:"risk_level"`
	RiskDescription string   `json:"risk_description"`
	MatchedPatterns []string `json:"matched_patterns"`
	EvidenceText    string   `json:"evidence_text,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	catalog, err := ai.LoadCatalog(patternsPath)
	if err != nil {
		return err
	}

	scorer := ai.NewKeywordScorer(catalog, logger.NewNop())
	result := scorer.Score(text)
	evidence := ai.ExtractRelevantText(text, result.MatchedPatterns, contextChars)

	out := scanOutput{
		Score:           result.Score,
		RiskLevel:       string(result.RiskLevel),
		RiskDescription: result.RiskLevel.Description(),
		MatchedPatterns: result.MatchedPatterns,
		EvidenceText:    evidence,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	catalog, err := ai.LoadCatalog(patternsPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(catalog.Entries())
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given")
	}
	return text, nil
}
