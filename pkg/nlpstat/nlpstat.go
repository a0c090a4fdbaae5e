// Package nlpstat wires configuration, line sources, phrase tables and
// corpus statistics together.
package nlpstat

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cognicore/nlpstat/pkg/nlpstat/config"
	"github.com/cognicore/nlpstat/pkg/nlpstat/distribution"
	"github.com/cognicore/nlpstat/pkg/nlpstat/freqlist"
	"github.com/cognicore/nlpstat/pkg/nlpstat/linesource"
	"github.com/cognicore/nlpstat/pkg/nlpstat/phrasetable"
)

// LoadPhraseTable reads a plain or compressed phrase-table file into memory.
// A nil cfg uses the Moses defaults; a nil logger discards progress entries.
func LoadPhraseTable(ctx context.Context, path string, cfg *config.PhraseTable, logger *zap.Logger) (*phrasetable.Table, phrasetable.Report, error) {
	if cfg == nil {
		def := config.DefaultPhraseTable()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, phrasetable.Report{}, err
	}

	src, err := linesource.Open(path)
	if err != nil {
		return nil, phrasetable.Report{}, err
	}
	defer src.Close()

	loader := phrasetable.NewLoader(cfg.Options(filepath.Base(path)), logger)
	table, report, err := loader.Load(ctx, src)
	if err != nil {
		return nil, report, fmt.Errorf("load %s: %w", path, err)
	}
	return table, report, nil
}

// NewFrequencyList creates a frequency list honoring the configured case
// sensitivity, seeded with tokens.
func NewFrequencyList(st config.Stats, tokens []string) *freqlist.List {
	return freqlist.FromTokens(tokens, st.IsCaseSensitive())
}

// NewDistribution derives a distribution from l using the configured log base.
func NewDistribution(st config.Stats, l *freqlist.List) (*distribution.Distribution, error) {
	return distribution.FromFrequencyList(l, st.LogBase)
}
