// Package dashui provides the Bubble Tea explorer interface.
package dashui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/dataset"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/stats"
)

const (
	tabMap = iota
	tabTypes
	tabTrend
	tabDeadliest
)

const (
	mapHeight = 12
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true)
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea explorer UI.
type Model struct {
	ds       *dataset.Dataset
	criteria model.FilterCriteria

	report stats.Report

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	deadTable  table.Model
	deadLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	// mapIndex selects a wreck on the map tab, -1 for none.
	mapIndex int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs an explorer model starting on the given view.
func NewModel(ds *dataset.Dataset, criteria model.FilterCriteria, view stats.View) *Model {
	m := &Model{
		ds:       ds,
		criteria: criteria,
		tabs:     []string{"Map", "Vessel Types", "Time Trends", "Deadliest Wrecks"},
		mapIndex: -1,
	}
	m.activeTab = int(view)
	if m.activeTab < 0 || m.activeTab >= len(m.tabs) {
		m.activeTab = tabMap
	}
	m.initInputs()
	m.initDeadTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// Filter mode gets the key first so vessel type names can
		// contain the letter q.
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabDeadliest {
			m.deadTable.Focus()
		} else {
			m.deadTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "r":
			m.criteria = m.ds.DefaultCriteria()
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "esc":
			if m.activeTab == tabMap && m.mapIndex >= 0 {
				m.mapIndex = -1
				m.renderMapTab()
			}
			return m, nil
		case "up", "down", "k", "j":
			if m.activeTab == tabMap {
				delta := 1
				if s := msg.String(); s == "up" || s == "k" {
					delta = -1
				}
				m.moveMapSelection(delta)
				return m, nil
			}
			return m.forwardKey(msg)
		case "g", "home":
			if m.activeTab == tabDeadliest {
				m.deadTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabDeadliest {
				m.deadTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			return m.forwardKey(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Year from: "),
		newFilterInput("Year to: "),
		newFilterInput("Vessel types: "),
		newFilterInput("Min lives lost: "),
	}
	m.filterInputs[2].Placeholder = "all"
	m.setInputsFromCriteria()
}

func (m *Model) initDeadTable() {
	m.deadTable = buildDeadTable(nil, 0, 1)
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	// Title line, tab bar, filter summary line.
	headerHeight = tabsHeight + 2
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) setInputsFromCriteria() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strconv.Itoa(m.criteria.Years.From))
	m.filterInputs[1].SetValue(strconv.Itoa(m.criteria.Years.To))
	m.filterInputs[2].SetValue(strings.Join(m.criteria.VesselTypes, ", "))
	if m.criteria.MinLivesLost > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.criteria.MinLivesLost))
	} else {
		m.filterInputs[3].SetValue("")
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	_, reserved := m.deadliestChrome()
	m.setDeadTableSize(m.width, maxInt(1, vpHeight-reserved))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabDeadliest {
		m.deadTable.Focus()
	} else {
		m.deadTable.Blur()
	}
}

func (m *Model) moveMapSelection(delta int) {
	count := len(m.report.MapPoints)
	if count == 0 {
		return
	}
	next := m.mapIndex + delta
	if m.mapIndex < 0 {
		// First move picks an end of the list.
		if delta > 0 {
			next = 0
		} else {
			next = count - 1
		}
	}
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.mapIndex = next
	m.renderMapTab()
}

func (m *Model) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeTab == tabDeadliest {
		var cmd tea.Cmd
		m.deadTable, cmd = m.deadTable.Update(msg)
		return m, cmd
	}
	vp := m.viewports[m.activeTab]
	var cmd tea.Cmd
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	title := padLines(titleStyle.Render("Shipwreck Explorer"), m.width)
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return title + "\n" + tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	types := "all"
	if len(m.criteria.VesselTypes) > 0 {
		types = strings.Join(m.criteria.VesselTypes, ",")
	}
	summary := fmt.Sprintf("Filters: years=%d-%d  types=%s  min-lives=%d  |  %d wrecks in current selection",
		m.criteria.Years.From, m.criteria.Years.To, types, m.criteria.MinLivesLost, len(m.report.Records))
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Filters: /  Reset: r  Quit: q"
	switch m.activeTab {
	case tabMap:
		help = "Nav: left/right  Select wreck: up/down  Clear: esc  Filters: /  Reset: r  Quit: q"
	case tabDeadliest:
		help = "Nav: left/right  Rows: up/down  Filters: /  Reset: r  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabDeadliest {
		if len(m.report.Records) == 0 {
			return fitLines(stats.MsgNoWrecks, m.width, height)
		}
		cards, _ := m.deadliestChrome()
		view := tableMutedStyle.Render(m.deadTable.View())
		content := cards + "\n" + view + "\n" + m.renderDeadDetail()
		return fitLines(content, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.ds, m.criteria)
	m.mapIndex = -1
	width := m.contentWidth()
	_, bodyHeight, _ := m.layoutHeights()
	_, reserved := m.deadliestChrome()
	applyDeadTable(m, m.report.Deadliest, width, maxInt(1, bodyHeight-reserved), true)
	m.renderTabContents()
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	m.renderMapTab()
	m.viewports[tabTypes].SetContent(renderStaticView(m.report, stats.ViewTypes, m.contentWidth()))
	m.viewports[tabTrend].SetContent(renderStaticView(m.report, stats.ViewTrend, m.contentWidth()))
}

func (m *Model) renderMapTab() {
	m.viewports[tabMap].SetContent(m.renderMapContent(m.contentWidth()))
}

func (m *Model) renderMapContent(width int) string {
	if len(m.report.Records) == 0 {
		return stats.MsgNoWrecks
	}
	points := m.report.MapPoints
	if len(points) == 0 {
		return stats.MsgNoCoords
	}
	var buf bytes.Buffer
	if err := stats.RenderMapCanvas(&buf, points, m.mapIndex, width, mapHeight, true); err != nil {
		return fmt.Sprintf("Failed to render map: %v", err)
	}
	lat, lon := stats.MapCenter(points)
	lines := []string{
		strings.TrimRight(buf.String(), "\n"),
		"",
		fmt.Sprintf("%d wrecks plotted, centered on %.1f, %.1f.", len(points), lat, lon),
		headerStyle.Render("Green dots = no lives lost, red dots = lives were lost."),
	}
	if m.mapIndex >= 0 && m.mapIndex < len(points) {
		lines = append(lines, cardValueStyle.Render(points[m.mapIndex].Tooltip()))
	} else {
		lines = append(lines, headerStyle.Render("up/down selects a wreck"))
	}
	return strings.Join(lines, "\n")
}

func renderStaticView(r stats.Report, v stats.View, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderView(&buf, r, v, width, true); err != nil {
		return fmt.Sprintf("Failed to render view: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) deadliestChrome() (string, int) {
	cards := renderSummaryCards(m.report.Summary, m.contentWidth())
	// Detail line under the table.
	return cards, lipgloss.Height(cards) + 1
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Total wrecks", strconv.Itoa(s.TotalWrecks)),
		metricCard("With lives lost", strconv.Itoa(s.FatalWrecks)),
		metricCard("Total lives lost", strconv.Itoa(s.TotalLivesLost)),
		metricCard("Max in one wreck", strconv.Itoa(s.MaxLivesLost)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderDeadDetail() string {
	idx := m.deadTable.Cursor()
	if idx < 0 || idx >= len(m.report.Deadliest) {
		return ""
	}
	rec := m.report.Deadliest[idx]
	location := rec.Location
	if location == "" {
		location = "unknown"
	}
	cause := rec.Cause
	if cause == "" {
		cause = "unknown"
	}
	detail := fmt.Sprintf("Location: %s  Cause: %s", location, cause)
	return headerStyle.Render(truncateLine(detail, m.width))
}

func buildDeadTable(records []model.WreckRecord, width, height int) table.Model {
	cols, rows := buildDeadTableData(records)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(deadTableStyles())
	return t
}

func buildDeadTableData(records []model.WreckRecord) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Ship's Name", Width: 24},
		{Title: "Year", Width: 5},
		{Title: "Vessel Type", Width: 14},
		{Title: "Lives Lost", Width: 10},
	}
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		year := "unknown"
		if rec.Year != nil {
			year = strconv.Itoa(*rec.Year)
		}
		rows = append(rows, table.Row{
			rec.Name,
			year,
			rec.VesselType,
			strconv.Itoa(rec.LivesLostClean),
		})
	}
	return columns, rows
}

func applyDeadTable(m *Model, records []model.WreckRecord, width, height int, force bool) {
	cols, rows := buildDeadTableData(records)
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.deadLayout.width == width &&
		m.deadLayout.height == viewportHeight &&
		m.deadLayout.rowCount == len(rows) &&
		m.deadLayout.colCount == len(cols) {
		return
	}
	m.deadTable.SetColumns(cols)
	m.deadTable.SetRows(rows)
	m.deadLayout.rowCount = len(rows)
	m.deadLayout.colCount = len(cols)
	m.setDeadTableSize(width, height)
}

func (m *Model) setDeadTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.deadLayout.width == width && m.deadLayout.height == viewportHeight {
		return
	}
	m.deadLayout.width = width
	m.deadLayout.height = viewportHeight
	m.deadTable.SetWidth(width)
	m.deadTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustDeadTableHeight(height)
	if m.deadLayout.height != viewportHeight {
		m.deadLayout.height = viewportHeight
		m.deadTable.SetHeight(viewportHeight)
	}
}

func deadTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustDeadTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.deadTable.Height()
	viewHeight := lipgloss.Height(m.deadTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.deadTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.deadTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromCriteria()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	span := m.ds.YearRange()

	from := span.From
	fromInput := strings.TrimSpace(m.filterInputs[0].Value())
	if fromInput != "" {
		parsed, err := strconv.Atoi(fromInput)
		if err != nil {
			return fmt.Errorf("invalid year from (use integer)")
		}
		from = parsed
	}

	to := span.To
	toInput := strings.TrimSpace(m.filterInputs[1].Value())
	if toInput != "" {
		parsed, err := strconv.Atoi(toInput)
		if err != nil {
			return fmt.Errorf("invalid year to (use integer)")
		}
		to = parsed
	}
	if from > to {
		return fmt.Errorf("year from must not exceed year to")
	}

	var types []string
	typesInput := strings.TrimSpace(m.filterInputs[2].Value())
	if typesInput != "" {
		matched, unknown := m.ds.ResolveTypes(strings.Split(typesInput, ","))
		if len(unknown) > 0 {
			return fmt.Errorf("unknown vessel types: %s", strings.Join(unknown, ", "))
		}
		types = matched
	}

	minLives := 0
	minInput := strings.TrimSpace(m.filterInputs[3].Value())
	if minInput != "" {
		parsed, err := strconv.Atoi(minInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid min lives lost (use 0 or positive integer)")
		}
		minLives = parsed
	}

	m.criteria = model.FilterCriteria{
		Years:        model.YearRange{From: from, To: to},
		VesselTypes:  types,
		MinLivesLost: minLives,
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
