package phrasetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
)

// Default column layout of a Moses phrase table.
const (
	DefaultDelimiter   = "|||"
	DefaultScoreColumn = 5 // 1-based
	DefaultAlignColumn = 4 // 0-based
)

// nullAlignMarker is how a word aligned to nothing appears in the alignment segment.
const nullAlignMarker = "()"

// Format describes how one line of a phrase table is split into fields.
type Format struct {
	Delimiter string
	// ScoreColumn is the 1-based segment holding the scores; 0 disables scores.
	ScoreColumn int
	// AlignColumn is the 0-based segment holding alignments; 0 disables counting.
	AlignColumn int
	// Reverse swaps the source and target segments.
	Reverse bool
}

// DefaultFormat returns the Moses layout.
func DefaultFormat() Format {
	return Format{
		Delimiter:   DefaultDelimiter,
		ScoreColumn: DefaultScoreColumn,
		AlignColumn: DefaultAlignColumn,
	}
}

// Record is one parsed phrase-table line.
type Record struct {
	Source         []string
	Target         []string
	PSourceTarget  float64
	PTargetSource  float64
	NullAlignments int
}

// ParseRecord splits line according to f.
//
// Scores are the 1st and 3rd numbers of the score segment. A line too short
// to reach the score segment gets zero scores; a score segment that is present
// but unparseable is an error. Alignment counting never fails.
func ParseRecord(line string, f Format) (Record, error) {
	if f.Delimiter == "" {
		return Record{}, fmt.Errorf("empty delimiter: %w", internalerr.ErrInvalidConfig)
	}

	segments := strings.Split(line, f.Delimiter)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}
	if len(segments) < 2 {
		return Record{}, fmt.Errorf("%d segment(s), need source and target: %w", len(segments), internalerr.ErrMalformedRecord)
	}

	var rec Record
	if f.ScoreColumn > 0 && len(segments) >= f.ScoreColumn {
		pst, pts, err := parseScores(segments[f.ScoreColumn-1])
		if err != nil {
			return Record{}, err
		}
		rec.PSourceTarget, rec.PTargetSource = pst, pts
	}

	if f.AlignColumn > 0 && f.AlignColumn < len(segments) {
		rec.NullAlignments = strings.Count(segments[f.AlignColumn], nullAlignMarker)
	}

	src, tgt := segments[0], segments[1]
	if f.Reverse {
		src, tgt = tgt, src
	}
	rec.Source = strings.Split(src, " ")
	rec.Target = strings.Split(tgt, " ")
	return rec, nil
}

func parseScores(segment string) (float64, float64, error) {
	nums := strings.Fields(segment)
	if len(nums) < 3 {
		return 0, 0, fmt.Errorf("score segment %q has %d value(s), need 3: %w", segment, len(nums), internalerr.ErrMalformedRecord)
	}
	pst, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("p(source|target) %q: %w", nums[0], internalerr.ErrMalformedRecord)
	}
	pts, err := strconv.ParseFloat(nums[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("p(target|source) %q: %w", nums[2], internalerr.ErrMalformedRecord)
	}
	return pst, pts, nil
}
