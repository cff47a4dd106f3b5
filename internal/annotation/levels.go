// internal/annotation/levels.go
package annotation

import "strings"

// InferLevelFromReasons derives a severity from the free-text reason pair.
// A non-blank major reason wins over a non-blank minor reason; both blank
// means no problem. Total function: any input yields a level.
func InferLevelFromReasons(majorReason, minorReason string) ProblemLevel {
	if strings.TrimSpace(majorReason) != "" {
		return LevelMajor
	}
	if strings.TrimSpace(minorReason) != "" {
		return LevelMinor
	}
	return LevelNone
}

// ScoreLevelStrict maps a 1-5 score to a severity with only a perfect score
// counting as problem-free: 5 -> none, 3-4 -> minor, 1-2 -> major. Used by
// reason-less level inference and by the golden-set level matching.
//
// ScoreLevelLenient below uses a different table. The two coexist on
// purpose; unify them only as a deliberate product change, not a cleanup.
func ScoreLevelStrict(score int) ProblemLevel {
	switch {
	case score >= 5:
		return LevelNone
	case score >= 3:
		return LevelMinor
	default:
		return LevelMajor
	}
}

// ScoreLevelLenient maps a 1-5 score to a severity with 4 and 5 merged as
// problem-free: 4-5 -> none, 3 -> minor, 1-2 -> major. Used by the
// pair-vs-score consistency soft matching, where a 4 against a 5 should not
// count against an annotator who called the videos equal.
func ScoreLevelLenient(score int) ProblemLevel {
	switch {
	case score >= 4:
		return LevelNone
	case score >= 3:
		return LevelMinor
	default:
		return LevelMajor
	}
}

// IsSoftScoreMatch reports whether two scores agree up to severity: equal
// strict levels always match, a major on either side never matches across a
// level boundary, and otherwise adjacent scores (|a-b| == 1) match. So 5-4,
// 4-3 and 2-1 pass while 3-2 (the minor/major boundary) and any gap of two
// or more fail.
func IsSoftScoreMatch(a, b int) bool {
	if a == b {
		return true
	}
	levelA := ScoreLevelStrict(a)
	levelB := ScoreLevelStrict(b)
	if levelA == levelB {
		return true
	}
	if levelA == LevelMajor || levelB == LevelMajor {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff == 1
}
