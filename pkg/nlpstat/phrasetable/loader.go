package phrasetable

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// DefaultProgressEvery is how many lines pass between progress entries.
const DefaultProgressEvery = 100000

// LineSource yields the lines of a phrase table.
type LineSource interface {
	Next() (string, bool)
	Line() int
	Err() error
}

// Options configures a Loader.
type Options struct {
	Format
	// Quiet suppresses progress reporting.
	Quiet         bool
	ProgressEvery int
	// Name identifies the input in log entries, usually the file name.
	Name string
}

// DefaultOptions returns the Moses layout with progress reporting enabled.
func DefaultOptions() Options {
	return Options{
		Format:        DefaultFormat(),
		ProgressEvery: DefaultProgressEvery,
	}
}

// Report summarizes one load run.
type Report struct {
	ID       ulid.ULID
	Lines    int
	Records  int
	Skipped  int // blank lines
	Duration time.Duration
}

// Loader streams phrase-table lines into a Table. A Loader is not safe for
// concurrent use.
type Loader struct {
	opts    Options
	logger  *zap.Logger
	entropy *ulid.MonotonicEntropy
}

// NewLoader creates a loader. A nil logger discards progress entries.
func NewLoader(opts Options, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	return &Loader{
		opts:    opts,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Load reads every line of src into a new Table.
func (l *Loader) Load(ctx context.Context, src LineSource) (*Table, Report, error) {
	t := New()
	report, err := l.LoadInto(ctx, t, src)
	if err != nil {
		return nil, report, err
	}
	return t, report, nil
}

// LoadInto appends every record of src to t. Blank lines are skipped. The
// first malformed record aborts the load; records already inserted stay in t.
func (l *Loader) LoadInto(ctx context.Context, t *Table, src LineSource) (Report, error) {
	start := time.Now()
	report := Report{ID: ulid.MustNew(ulid.Timestamp(start), l.entropy)}
	log := l.logger.With(
		zap.String("load_id", report.ID.String()),
		zap.String("source", l.opts.Name),
	)

	for {
		select {
		case <-ctx.Done():
			report.Duration = time.Since(start)
			return report, fmt.Errorf("phrase table load interrupted at line %d: %w", report.Lines, ctx.Err())
		default:
		}

		line, ok := src.Next()
		if !ok {
			break
		}
		report.Lines++

		if !l.opts.Quiet && report.Lines%l.opts.ProgressEvery == 0 {
			log.Info("loading phrase table", zap.String("line", humanize.Comma(int64(report.Lines))))
		}

		if strings.TrimSpace(line) == "" {
			report.Skipped++
			continue
		}

		rec, err := ParseRecord(line, l.opts.Format)
		if err != nil {
			report.Duration = time.Since(start)
			return report, fmt.Errorf("line %d: %w", src.Line(), err)
		}
		t.Insert(rec.Source, rec.Target, rec.PSourceTarget, rec.PTargetSource, rec.NullAlignments)
		report.Records++
	}

	report.Duration = time.Since(start)
	if err := src.Err(); err != nil {
		return report, err
	}

	if !l.opts.Quiet {
		log.Info("phrase table loaded",
			zap.String("lines", humanize.Comma(int64(report.Lines))),
			zap.Int("records", report.Records),
			zap.Int("phrases", t.Len()),
			zap.Duration("elapsed", report.Duration),
		)
	}
	return report, nil
}
