// internal/server/handlers.go
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/consistency"
	"github.com/mwiater/accord/internal/logging"
	"github.com/mwiater/accord/internal/qa"
	"github.com/mwiater/accord/internal/report"
)

// analyzeRequest carries raw result files. Each entry is validated and
// parsed individually so an error can name the offending upload. An empty
// upload analyzes to zeroed statistics rather than an error.
type analyzeRequest struct {
	Results []json.RawMessage `json:"results"`
}

type qaRequest struct {
	Golden  json.RawMessage   `json:"golden" binding:"required"`
	Results []json.RawMessage `json:"results"`
}

type consistencyRequest struct {
	PairResults  []json.RawMessage `json:"pair_results"`
	ScoreResults []json.RawMessage `json:"score_results"`
}

type reportRequest struct {
	Results []json.RawMessage `json:"results"`
	Golden  json.RawMessage   `json:"golden"`
}

func (s *Server) handleAgreement(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	files, err := parseUploads("results", req.Results)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := agreement.Analyze(files)
	logging.LogAnalysis("agreement", string(stats.Mode), gin.H{"files": len(files), "samples": stats.TotalSamples})
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleLeaveOneOut(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	files, err := parseUploads("results", req.Results)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, downgraded := agreement.LOOMode(annotation.DetectMode(files))
	if mode == annotation.ModeUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no analyzable results in upload"})
		return
	}
	if downgraded {
		logging.LogEvent("mixed-mode upload: leave-one-out falling back to score mode")
	}

	result := agreement.AnalyzeLeaveOneOut(agreement.GroupBySample(files), mode)
	logging.LogAnalysis("leave_one_out", string(mode), gin.H{"files": len(files), "samples": result.TotalSamples})
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleQA(c *gin.Context) {
	var req qaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	golden, err := annotation.ParseResultFile(req.Golden)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("golden: %v", err)})
		return
	}
	files, err := parseUploads("results", req.Results)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := runQA(golden, files)
	logging.LogAnalysis("qa", string(golden.Mode), gin.H{"files": len(files), "graded": stats.TotalSamples})
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleConsistency(c *gin.Context) {
	var req consistencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	pairFiles, err := parseUploads("pair_results", req.PairResults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scoreFiles, err := parseUploads("score_results", req.ScoreResults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := consistency.Analyze(annotation.PoolResults(pairFiles), annotation.PoolResults(scoreFiles))
	logging.LogAnalysis("consistency", string(annotation.ModeMixed), gin.H{
		"pair_files":  len(pairFiles),
		"score_files": len(scoreFiles),
		"matched":     stats.MatchedPairSamples,
	})
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleReport(c *gin.Context) {
	summary, ok := s.bindSummary(c)
	if !ok {
		return
	}
	html, err := report.GenerateDashboard(summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to render report: %v", err)})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) handleCharts(c *gin.Context) {
	summary, ok := s.bindSummary(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.RenderCharts(&buf, summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to render charts: %v", err)})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// bindSummary parses a report request and runs the full analysis bundle.
// On failure it writes the error response and returns ok=false.
func (s *Server) bindSummary(c *gin.Context) (report.Summary, bool) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return report.Summary{}, false
	}
	files, err := parseUploads("results", req.Results)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return report.Summary{}, false
	}

	stats := agreement.Analyze(files)
	summary := report.Summary{Mode: stats.Mode, Agreement: &stats}

	if mode, downgraded := agreement.LOOMode(stats.Mode); mode != annotation.ModeUnknown {
		if downgraded {
			logging.LogEvent("mixed-mode upload: leave-one-out falling back to score mode")
		}
		loo := agreement.AnalyzeLeaveOneOut(agreement.GroupBySample(files), mode)
		summary.LeaveOneOut = &loo
	}

	if len(req.Golden) > 0 {
		golden, err := annotation.ParseResultFile(req.Golden)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("golden: %v", err)})
			return report.Summary{}, false
		}
		qaStats := runQA(golden, files)
		summary.QA = &qaStats
	}

	if stats.Mode == annotation.ModeMixed {
		var pairFiles, scoreFiles []*annotation.ResultFile
		for _, file := range files {
			switch file.Mode {
			case annotation.ModePair:
				pairFiles = append(pairFiles, file)
			case annotation.ModeScore:
				scoreFiles = append(scoreFiles, file)
			}
		}
		consistencyStats := consistency.Analyze(annotation.PoolResults(pairFiles), annotation.PoolResults(scoreFiles))
		summary.Consistency = &consistencyStats
	}

	logging.LogAnalysis("report", string(summary.Mode), gin.H{"files": len(files)})
	return summary, true
}

// runQA grades pooled results against a golden file in the golden file's
// mode. Sample metadata merges across every upload with the golden file
// last, so its task package wins on conflicts.
func runQA(golden *annotation.ResultFile, files []*annotation.ResultFile) qa.Stats {
	withGolden := append(append([]*annotation.ResultFile{}, files...), golden)
	samples := annotation.MergeSampleIndex(withGolden)
	pooled := annotation.PoolResults(files)
	if golden.Mode == annotation.ModePair {
		return qa.AnalyzePair(golden.Results, pooled, samples)
	}
	return qa.AnalyzeScore(golden.Results, pooled, samples)
}

func parseUploads(field string, raws []json.RawMessage) ([]*annotation.ResultFile, error) {
	files := make([]*annotation.ResultFile, 0, len(raws))
	for i, raw := range raws {
		file, err := annotation.ParseResultFile(raw)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		files = append(files, file)
	}
	return files, nil
}
