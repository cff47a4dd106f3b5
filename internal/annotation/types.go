// internal/annotation/types.go
// Package annotation defines the shared record types for video quality
// judgments: samples, evaluation dimensions, pairwise comparisons, absolute
// scores, and the result files the analyzers consume. Everything here is
// plain data; analyzers in sibling packages borrow these values read-only
// and never mutate them.
package annotation

// Dimension is one of the five fixed evaluation axes for video quality.
type Dimension string

const (
	DimensionTextConsistency     Dimension = "text_consistency"
	DimensionTemporalConsistency Dimension = "temporal_consistency"
	DimensionVisualQuality       Dimension = "visual_quality"
	DimensionDistortion          Dimension = "distortion"
	DimensionMotionQuality       Dimension = "motion_quality"
)

// Dimensions lists the evaluation axes in presentation order. Analyzers
// iterate exactly this set, and per-dimension output maps carry an entry for
// every axis even when its count is zero.
var Dimensions = []Dimension{
	DimensionTextConsistency,
	DimensionTemporalConsistency,
	DimensionVisualQuality,
	DimensionDistortion,
	DimensionMotionQuality,
}

// Valid reports whether d is one of the five known axes.
func (d Dimension) Valid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// ProblemLevel is the ordered severity bucket derived from free-text reasons
// or from a numeric score. It is never an input field.
type ProblemLevel int

const (
	LevelNone ProblemLevel = iota
	LevelMinor
	LevelMajor
)

// String returns the lowercase name of the level.
func (l ProblemLevel) String() string {
	switch l {
	case LevelMinor:
		return "minor"
	case LevelMajor:
		return "major"
	default:
		return "none"
	}
}

// ComparisonResult is a pairwise verdict for one dimension.
type ComparisonResult string

const (
	CompareABetter ComparisonResult = "A>B"
	CompareEqual   ComparisonResult = "A=B"
	CompareBBetter ComparisonResult = "A<B"
)

// Valid reports whether c is one of the three recognized verdicts.
func (c ComparisonResult) Valid() bool {
	return c == CompareABetter || c == CompareEqual || c == CompareBBetter
}

// Mode identifies how judgments in a file were elicited.
type Mode string

const (
	ModePair    Mode = "pair"
	ModeScore   Mode = "score"
	ModeMixed   Mode = "mixed"
	ModeUnknown Mode = ""
)

// ChecklistItem is one boolean diagnostic item attached to a sample.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Sample is a single unit of annotation work. Score-mode samples carry one
// video URL; pair-mode samples carry A and B URLs. Samples are immutable once
// a task package is loaded.
type Sample struct {
	SampleID       string          `json:"sample_id"`
	Prompt         string          `json:"prompt"`
	VideoURL       string          `json:"video_url,omitempty"`
	VideoAURL      string          `json:"video_a_url,omitempty"`
	VideoBURL      string          `json:"video_b_url,omitempty"`
	GroundTruthURL string          `json:"ground_truth_url,omitempty"`
	Checklist      []ChecklistItem `json:"checklist,omitempty"`
}

// ReasonSet holds the free-text major/minor problem descriptions for one
// video. The derived severity is LevelMajor when the major reason is
// non-blank, LevelMinor when only the minor reason is non-blank, LevelNone
// otherwise.
type ReasonSet struct {
	MajorReason string `json:"major_reason,omitempty"`
	MinorReason string `json:"minor_reason,omitempty"`
}

// Level infers the problem severity from the reason texts.
func (r ReasonSet) Level() ProblemLevel {
	return InferLevelFromReasons(r.MajorReason, r.MinorReason)
}

// PairJudgment is one dimension's pairwise verdict: which video is better,
// what is wrong with each video, and optionally how large the gap is.
type PairJudgment struct {
	Comparison ComparisonResult `json:"comparison"`
	VideoA     ReasonSet        `json:"video_a"`
	VideoB     ReasonSet        `json:"video_b"`
	Degree     string           `json:"degree,omitempty"`
}

// ScoreJudgment is one dimension's absolute verdict: an integer score in
// [1,5] plus the reasons justifying any deduction. Collection enforces that a
// score below 5 carries at least one reason; the analyzers tolerate records
// that violate this and simply infer LevelNone from blank reasons.
type ScoreJudgment struct {
	Score   int       `json:"score"`
	Reasons ReasonSet `json:"reasons"`
}

// AnnotationResult is one annotator's completed judgment for one sample.
// Exactly one of Pair or Scores is populated, matching the file's mode.
type AnnotationResult struct {
	SampleID    string                      `json:"sample_id"`
	AnnotatorID string                      `json:"annotator_id,omitempty"`
	Pair        map[Dimension]PairJudgment  `json:"pair,omitempty"`
	Scores      map[Dimension]ScoreJudgment `json:"scores,omitempty"`
	Checklist   map[string]bool             `json:"checklist,omitempty"`
	Timestamp   string                      `json:"timestamp,omitempty"`
}

// Mode reports which elicitation produced this result, ModeUnknown when the
// record carries neither variant.
func (r AnnotationResult) Mode() Mode {
	switch {
	case len(r.Pair) > 0:
		return ModePair
	case len(r.Scores) > 0:
		return ModeScore
	default:
		return ModeUnknown
	}
}

// TaskPackage embeds the full sample set inside an exported result file so
// the file can be re-analyzed without the original task definition.
type TaskPackage struct {
	TaskID  string   `json:"task_id,omitempty"`
	Mode    Mode     `json:"mode,omitempty"`
	Samples []Sample `json:"samples"`
}

// ResultFile is the uploaded unit of judgment data: one annotator's results
// for one task. Standalone files omit the task package; exported files carry
// it for self-contained rework.
type ResultFile struct {
	TaskID      string             `json:"task_id"`
	AnnotatorID string             `json:"annotator_id,omitempty"`
	Mode        Mode               `json:"mode"`
	TaskPackage *TaskPackage       `json:"task_package,omitempty"`
	Results     []AnnotationResult `json:"results"`
}

// SampleIndex returns a sample_id lookup over the embedded task package.
// The map is empty (never nil) when the file has no package.
func (f *ResultFile) SampleIndex() map[string]Sample {
	index := make(map[string]Sample)
	if f == nil || f.TaskPackage == nil {
		return index
	}
	for _, sample := range f.TaskPackage.Samples {
		if sample.SampleID == "" {
			continue
		}
		index[sample.SampleID] = sample
	}
	return index
}
