// cli/cli.go
// Package cli provides the interactive terminal browser for annotation
// quality results.
package cli

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/appconfig"
	"github.com/mwiater/accord/internal/util"
)

// Config represents the shared application configuration for the browser.
type Config = appconfig.Config

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewLoading is the state while result files load and analyze.
	viewLoading viewState = iota
	// viewAnnotatorList is the state where the user picks an annotator.
	viewAnnotatorList
	// viewDetail is the state showing one annotator's full record.
	viewDetail
)

// model is the main application model for the Bubble Tea UI.
type model struct {
	config           *Config
	state            viewState
	isLoading        bool
	err              error
	annotatorList    list.Model
	viewport         viewport.Model
	spinner          spinner.Model
	stats            agreement.Stats
	loo              agreement.LOOResult
	looDowngraded    bool
	selected         string
	width, height    int
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(cfg *Config) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	annotatorList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	annotatorList.Title = "Annotators by consensus agreement"

	vp := viewport.New(100, 5)

	return &model{
		config:           cfg,
		state:            viewLoading,
		isLoading:        true,
		spinner:          s,
		annotatorList:    annotatorList,
		viewport:         vp,
		requestStartTime: time.Now(),
	}
}

// item represents a selectable annotator in the Bubble Tea list.
type item struct {
	title string
	desc  string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering.
func (i item) FilterValue() string { return i.title }

// resultsReadyMsg is sent when the result files have loaded and analyzed.
type resultsReadyMsg struct {
	stats      agreement.Stats
	loo        agreement.LOOResult
	downgraded bool
}

// resultsLoadErr is sent when loading or analyzing the results fails.
type resultsLoadErr struct{ error }

// tickMsg is a message sent at regular intervals, used for animations and timed updates.
type tickMsg time.Time

// loadResultsCmd creates a Bubble Tea command that loads every result file
// under dir and runs the agreement and leave-one-out analyses.
func loadResultsCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		files, err := annotation.LoadDir(dir)
		if err != nil {
			return resultsLoadErr{error: err}
		}

		stats := agreement.Analyze(files)
		mode, downgraded := agreement.LOOMode(stats.Mode)
		if mode == annotation.ModeUnknown {
			return resultsLoadErr{error: fmt.Errorf("no analyzable results in %s", dir)}
		}
		loo := agreement.AnalyzeLeaveOneOut(agreement.GroupBySample(files), mode)

		return resultsReadyMsg{stats: stats, loo: loo, downgraded: downgraded}
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// rankedItems orders annotators by consensus agreement, best first.
func rankedItems(stats agreement.Stats) []list.Item {
	ids := make([]string, 0, len(stats.Annotators))
	for id := range stats.Annotators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := stats.Annotators[ids[i]], stats.Annotators[ids[j]]
		if a.OverallAgreementRate != b.OverallAgreementRate {
			return a.OverallAgreementRate > b.OverallAgreementRate
		}
		return ids[i] < ids[j]
	})

	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		skill := stats.Annotators[id]
		items = append(items, item{
			title: id,
			desc:  fmt.Sprintf("%d samples, %s vs consensus", skill.SamplesAnnotated, util.FormatPercent(skill.OverallAgreementRate)),
		})
	}
	return items
}

// Init initializes the Bubble Tea model: spin while the results load.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadResultsCmd(m.resultsDir()), tickCmd())
}

func (m *model) resultsDir() string {
	if m.config == nil {
		return appconfig.Config{}.ResultsDirPath()
	}
	return m.config.ResultsDirPath()
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == viewDetail {
				m.state = viewAnnotatorList
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.annotatorList.SetSize(msg.Width-2, msg.Height-4)
		headerHeight := 2
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case resultsReadyMsg:
		m.isLoading = false
		m.stats = msg.stats
		m.loo = msg.loo
		m.looDowngraded = msg.downgraded
		m.annotatorList.SetItems(rankedItems(msg.stats))
		m.annotatorList.Title = fmt.Sprintf("Annotators by consensus agreement (%s mode)", msg.stats.Mode)
		m.state = viewAnnotatorList
		return m, nil

	case resultsLoadErr:
		m.isLoading = false
		m.err = msg.error
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	switch m.state {
	case viewAnnotatorList:
		m.annotatorList, cmd = m.annotatorList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selectedItem, ok := m.annotatorList.SelectedItem().(item); ok {
				m.selected = selectedItem.Title()
				m.viewport.SetContent(m.annotatorDetail(m.selected))
				m.viewport.GotoTop()
				m.state = viewDetail
			}
		}

	case viewDetail:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case viewLoading:
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		return fmt.Sprintf("\n  %s Analyzing results... %ss\n", m.spinner.View(), timer)

	case viewAnnotatorList:
		return lipgloss.NewStyle().Margin(1, 2).Render(m.annotatorList.View())

	case viewDetail:
		return m.detailView()

	default:
		return "Unknown state"
	}
}

// detailView renders the selected annotator's record: header badge, the
// scrollable detail content, and the key help line.
func (m *model) detailView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	modeStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1).MarginLeft(1)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(fmt.Sprintf("Annotator: %s", m.selected)),
		modeStyle.Render(fmt.Sprintf("Mode: %s", m.stats.Mode)),
	)
	help := lipgloss.NewStyle().Render(" (esc to go back, q to quit)")
	builder.WriteString(header + help + "\n\n")

	builder.WriteString(m.viewport.View())
	return builder.String()
}

// annotatorDetail builds the scrollable record for one annotator: skill per
// dimension, leave-one-out drift, and their outlier judgments.
func (m *model) annotatorDetail(id string) string {
	var builder strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	faintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	if skill, ok := m.stats.Annotators[id]; ok {
		builder.WriteString(sectionStyle.Render("Consensus agreement") + "\n")
		builder.WriteString(fmt.Sprintf("  %d samples annotated, %s overall\n",
			skill.SamplesAnnotated, util.FormatPercent(skill.OverallAgreementRate)))
		for _, dim := range annotation.Dimensions {
			dimSkill := skill.PerDimension[dim]
			builder.WriteString(fmt.Sprintf("  %s %d/%d agreed (%s)\n",
				dimStyle.Render(fmt.Sprintf("%-22s", dim)),
				dimSkill.Agreements, dimSkill.Evaluated, util.FormatPercent(dimSkill.AgreementRate)))
		}
		builder.WriteString("\n")
	}

	if drift, ok := m.loo.Annotators[id]; ok {
		builder.WriteString(sectionStyle.Render("Leave-one-out drift") + "\n")
		if m.looDowngraded {
			builder.WriteString(faintStyle.Render("  (mixed-mode input, computed over score results)") + "\n")
		}
		builder.WriteString(fmt.Sprintf("  %d/%d cells against the remaining consensus (%s)\n\n",
			drift.Disagreements, drift.Evaluated, util.FormatPercent(drift.DisagreementRate)))
	}

	var outliers []agreement.LOOOutlier
	for _, outlier := range m.loo.Outliers {
		if outlier.AnnotatorID == id {
			outliers = append(outliers, outlier)
		}
	}
	if len(outliers) > 0 {
		builder.WriteString(sectionStyle.Render(fmt.Sprintf("Outlier judgments (%d)", len(outliers))) + "\n")
		for _, outlier := range outliers {
			builder.WriteString(fmt.Sprintf("  %s %s  judged %s, consensus %s\n",
				outlier.SampleID,
				dimStyle.Render(string(outlier.Dimension)),
				outlier.Value, outlier.Consensus))
		}
	}

	if builder.Len() == 0 {
		return "No record for this annotator."
	}
	return builder.String()
}

// StartBrowser initializes and runs the interactive results browser.
func StartBrowser(cfg *appconfig.Config) {
	f, err := tea.LogToFile("accord.log", "debug")
	if err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer f.Close()

	if cfg == nil {
		cfg = &appconfig.Config{}
	}

	m := initialModel(cfg)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
