package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
	"github.com/cognicore/nlpstat/pkg/nlpstat/phrasetable"
)

// PhraseTable represents the phrase-table loader configuration.
// Pointer fields distinguish "unset" from an explicit zero, which disables a column.
type PhraseTable struct {
	Delimiter     string `yaml:"delimiter"`
	ScoreColumn   *int   `yaml:"score_column"`
	AlignColumn   *int   `yaml:"align_column"`
	Reverse       bool   `yaml:"reverse"`
	Quiet         bool   `yaml:"quiet"`
	ProgressEvery int    `yaml:"progress_every"`
}

func intPtr(v int) *int {
	return &v
}

// DefaultPhraseTable returns the Moses defaults
func DefaultPhraseTable() PhraseTable {
	return PhraseTable{
		Delimiter:     phrasetable.DefaultDelimiter,
		ScoreColumn:   intPtr(phrasetable.DefaultScoreColumn),
		AlignColumn:   intPtr(phrasetable.DefaultAlignColumn),
		ProgressEvery: phrasetable.DefaultProgressEvery,
	}
}

// LoadPhraseTable loads loader configuration from a YAML file.
// Fields absent from the file keep their defaults.
func LoadPhraseTable(path string) (*PhraseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PhraseTable
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	def := DefaultPhraseTable()
	if cfg.Delimiter == "" {
		cfg.Delimiter = def.Delimiter
	}
	if cfg.ScoreColumn == nil {
		cfg.ScoreColumn = def.ScoreColumn
	}
	if cfg.AlignColumn == nil {
		cfg.AlignColumn = def.AlignColumn
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = def.ProgressEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for impossible values
func (c PhraseTable) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter is empty: %w", internalerr.ErrInvalidConfig)
	}
	if c.ScoreColumn != nil && *c.ScoreColumn < 0 {
		return fmt.Errorf("score_column %d: %w", *c.ScoreColumn, internalerr.ErrInvalidConfig)
	}
	if c.AlignColumn != nil && *c.AlignColumn < 0 {
		return fmt.Errorf("align_column %d: %w", *c.AlignColumn, internalerr.ErrInvalidConfig)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every %d: %w", c.ProgressEvery, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Options converts the configuration into loader options
func (c PhraseTable) Options(name string) phrasetable.Options {
	opts := phrasetable.DefaultOptions()
	opts.Name = name
	opts.Delimiter = c.Delimiter
	if c.ScoreColumn != nil {
		opts.ScoreColumn = *c.ScoreColumn
	}
	if c.AlignColumn != nil {
		opts.AlignColumn = *c.AlignColumn
	}
	opts.Reverse = c.Reverse
	opts.Quiet = c.Quiet
	if c.ProgressEvery > 0 {
		opts.ProgressEvery = c.ProgressEvery
	}
	return opts
}

// Stats represents defaults for frequency lists and distributions
type Stats struct {
	CaseSensitive *bool   `yaml:"case_sensitive"`
	LogBase       float64 `yaml:"log_base"`
}

// IsCaseSensitive reports the configured case sensitivity, true when unset
func (s Stats) IsCaseSensitive() bool {
	return s.CaseSensitive == nil || *s.CaseSensitive
}

// LoadStats loads statistics defaults from a YAML file
func LoadStats(path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st Stats
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, err
	}

	if st.LogBase < 0 || st.LogBase == 1 {
		return nil, fmt.Errorf("log_base %v: %w", st.LogBase, internalerr.ErrInvalidConfig)
	}
	return &st, nil
}
