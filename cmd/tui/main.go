// Command tui browses an ORF report written by geneannot --out.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"geneannot/internal/orf"
	"geneannot/internal/report"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(mutedColor)
	valueStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true)

	forwardStyle = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	reverseStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

type listItem struct {
	row report.Row
}

func (i listItem) FilterValue() string {
	if i.row.Hit.Found {
		return i.row.Hit.Identifier
	}
	return fmt.Sprint(i.row.Start)
}

func (i listItem) Title() string {
	return fmt.Sprintf("%d - %d", i.row.Start, i.row.End)
}

func (i listItem) Description() string {
	pdb := missingStyle.Render(report.Missing)
	if i.row.Hit.Found {
		pdb = i.row.Hit.Identifier
	}
	return fmt.Sprintf("%s    PDB: %s", strandStyle(i.row.Strand).Render(i.row.Strand.String()), pdb)
}

func strandStyle(s orf.Strand) lipgloss.Style {
	if s == orf.Reverse {
		return reverseStyle
	}
	return forwardStyle
}

type mode int

const (
	modeDetails mode = iota
	modeHomolog
	modeMap
)

func (m mode) String() string {
	switch m {
	case modeDetails:
		return "Details"
	case modeHomolog:
		return "Homolog"
	case modeMap:
		return "Map"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	rows          []report.Row
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
	maxCoord      int
}

func newModel(rows []report.Row) model {
	items := make([]list.Item, len(rows))
	maxCoord := 0
	for i, r := range rows {
		items[i] = listItem{row: r}
		if r.Start > maxCoord {
			maxCoord = r.Start
		}
		if r.End > maxCoord {
			maxCoord = r.End
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "ORFs"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		rows:        rows,
		currentMode: modeDetails,
		maxCoord:    maxCoord,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// keys belong to the filter input while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeDetails
			return m, nil
		case "2":
			m.currentMode = modeHomolog
			return m, nil
		case "3":
			m.currentMode = modeMap
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4)

	if len(m.rows) == 0 {
		return panel.Render("No ORFs of at least 150 bp in this report")
	}
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No ORF selected")
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("ORF %d - %d", item.row.Start, item.row.End)), ""}
	lines = append(lines, m.buildRightLines(item.row)...)
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// buildRightLines renders the detail panel body for the current mode.
func (m model) buildRightLines(r report.Row) []string {
	field := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
	}
	switch m.currentMode {
	case modeHomolog:
		if !r.Hit.Found {
			return []string{missingStyle.Render("No PDB homolog found for this ORF")}
		}
		return []string{
			field("PDB ID", r.Hit.Identifier),
			field("E-value", r.Hit.EValue.String()),
			field("Entry", structureURL(r.Hit.Identifier)),
		}
	case modeMap:
		width := m.width*2/3 - 8
		if width < 10 {
			width = 10
		}
		var lines []string
		for _, other := range m.rows {
			bar := spanBar(other, m.maxCoord, width)
			if other == r {
				bar = strandStyle(other.Strand).Render(bar)
			} else {
				bar = missingStyle.Render(bar)
			}
			lines = append(lines, bar)
		}
		return append(lines, "", labelStyle.Render(fmt.Sprintf("1 .. %d", m.maxCoord)))
	}
	length := r.End - r.Start
	if length < 0 {
		length = -length
	}
	return []string{
		field("Start", fmt.Sprint(r.Start)),
		field("End", fmt.Sprint(r.End)),
		field("Strand", strandStyle(r.Strand).Render(r.Strand.String())),
		field("Length", fmt.Sprintf("%d bp", length)),
	}
}

// structureURL links the entry page for a polymer entity id such as 4HHB_1.
func structureURL(id string) string {
	entry := id
	if i := strings.IndexByte(id, '_'); i > 0 {
		entry = id[:i]
	}
	return "https://www.rcsb.org/structure/" + entry
}

// spanBar draws the ORF extent scaled to maxCoord over width columns, pointing
// in its reading direction.
func spanBar(r report.Row, maxCoord, width int) string {
	if maxCoord <= 0 || width <= 0 {
		return ""
	}
	lo, hi := r.Start, r.End
	if lo > hi {
		lo, hi = hi, lo
	}
	from := lo * (width - 1) / maxCoord
	to := hi * (width - 1) / maxCoord
	fill := ">"
	if r.Strand == orf.Reverse {
		fill = "<"
	}
	return strings.Repeat(".", from) + strings.Repeat(fill, to-from+1) + strings.Repeat(".", width-1-to)
}

func (m model) renderStatusBar() string {
	position := 0
	if len(m.rows) > 0 {
		position = m.selectedIndex + 1
	}
	leftInfo := fmt.Sprintf("%d/%d ORFs", position, len(m.rows))
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "Press 'h' for help, 'q' to quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 6
	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo + strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		// narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `ORF Report Browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter by PDB ID

View Modes:
  1              Coordinates and strand
  2              PDB homolog
  3              Position map
  tab            Next mode

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Current Mode: ` + m.currentMode.String() + `
Total ORFs: ` + fmt.Sprint(len(m.rows)) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func loadReport(path string) ([]report.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return report.Read(f)
}

func main() {
	path := "orf_results.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	rows, err := loadReport(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(newModel(rows), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
