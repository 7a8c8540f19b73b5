package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/ui"
)

// ScanFunc runs one discovery pass
type ScanFunc func(ctx context.Context) *discovery.Registry

// Options wires the model to the rest of the process.
type Options struct {
	Scan     ScanFunc
	Registry *discovery.Registry // Shared with the listener
	Notify   discovery.Callback  // Installed on every panel a scan finds
	Nickname func(dip int) string
}

// ButtonsMsg carries one button report into the model
type ButtonsMsg struct {
	Address string
	Buttons []int
	At      time.Time
}

type scanStartMsg struct{}

type scanCompleteMsg struct {
	devices []discovery.Device
	elapsed time.Duration
}

// panelState is what the table shows for one panel
type panelState struct {
	device   discovery.Device
	buttons  []int
	events   int
	lastSeen time.Time
}

// Model is the bubbletea model for the monitor screen
type Model struct {
	ctx  context.Context
	opts Options

	scanning  bool
	scanStart time.Time
	lastScan  time.Duration
	panels    map[string]*panelState
	dropped   int // reports from addresses not in the table

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(ui.PrimaryColor).Bold(true).PaddingLeft(1)
	statusStyle = lipgloss.NewStyle().Foreground(ui.MutedColor).PaddingLeft(1)
	warnStyle   = lipgloss.NewStyle().Foreground(ui.WarningColor).Bold(true).PaddingLeft(1)
)

func columns() []table.Column {
	return []table.Column{
		{Title: "Address", Width: 16},
		{Title: "DIP", Width: 4},
		{Title: "Nickname", Width: 16},
		{Title: "Buttons", Width: 18},
		{Title: "Events", Width: 7},
		{Title: "Last", Width: 9},
	}
}

// New creates the model. The first scan starts from Init.
func New(ctx context.Context, opts Options) Model {
	if opts.Registry == nil {
		opts.Registry = discovery.NewRegistry()
	}
	if opts.Nickname == nil {
		opts.Nickname = func(int) string { return "" }
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.MutedColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ui.TextColor).
		Background(ui.PrimaryColor)
	t.SetStyles(styles)

	return Model{
		ctx:     ctx,
		opts:    opts,
		panels:  make(map[string]*panelState),
		table:   t,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the first scan
func (m Model) Init() tea.Cmd {
	return m.startScan()
}

func (m Model) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanCmd(),
		m.spinner.Tick,
	)
}

// scanCmd scans, merges the result into the shared registry and installs
// the notify callback on every panel found
func (m Model) scanCmd() tea.Cmd {
	ctx, opts := m.ctx, m.opts
	return func() tea.Msg {
		began := time.Now()
		if opts.Scan == nil {
			return scanCompleteMsg{}
		}
		found := opts.Scan(ctx)
		opts.Registry.Merge(found)
		if opts.Notify != nil {
			for _, d := range found.All() {
				opts.Registry.SetCallback(d.Address, opts.Notify)
			}
		}
		return scanCompleteMsg{devices: opts.Registry.All(), elapsed: time.Since(began)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Rescan):
			if m.scanning {
				return m, nil
			}
			return m, m.startScan()
		}

	case scanStartMsg:
		m.scanning = true
		m.scanStart = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.scanning = false
		m.lastScan = msg.elapsed
		for _, d := range msg.devices {
			if p, ok := m.panels[d.Address]; ok {
				p.device = d
				continue
			}
			m.panels[d.Address] = &panelState{device: d}
		}
		m.refreshRows()
		return m, nil

	case ButtonsMsg:
		p, ok := m.panels[msg.Address]
		if !ok {
			m.dropped++
			return m, nil
		}
		p.buttons = msg.Buttons
		p.events++
		p.lastSeen = msg.At
		m.refreshRows()
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refreshRows rebuilds the table in address order
func (m *Model) refreshRows() {
	devices := make([]discovery.Device, 0, len(m.panels))
	for _, p := range m.panels {
		devices = append(devices, p.device)
	}
	discovery.SortDevices(devices)

	rows := make([]table.Row, 0, len(devices))
	for _, d := range devices {
		p := m.panels[d.Address]
		rows = append(rows, table.Row{
			d.Address,
			strconv.Itoa(d.DIP),
			nickname(m.opts.Nickname(d.DIP)),
			formatButtons(p.buttons),
			strconv.Itoa(p.events),
			formatSeen(p.lastSeen),
		})
	}
	m.table.SetRows(rows)
}

func nickname(n string) string {
	if n == "" {
		return "-"
	}
	return n
}

// formatButtons renders pressed buttons as ● and released as ○
func formatButtons(buttons []int) string {
	if buttons == nil {
		return "-"
	}
	var b strings.Builder
	for _, v := range buttons {
		if v != 0 {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

func formatSeen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04:05")
}

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PANELCTL MONITOR"))
	b.WriteString("\n\n")

	switch {
	case m.scanning:
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s Scanning for panels...", m.spinner.View())))
		b.WriteString("\n")
	case len(m.panels) == 0:
		b.WriteString(warnStyle.Render(ui.WarningMarker + " No panels answered. Press r to scan again."))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		status := fmt.Sprintf("%d panel(s)", len(m.panels))
		if m.lastScan > 0 {
			status += fmt.Sprintf("  •  last scan %s", m.lastScan.Round(time.Millisecond))
		}
		if m.dropped > 0 {
			status += fmt.Sprintf("  •  %d unmatched report(s)", m.dropped)
		}
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.help.View(m.keys)))
	return b.String()
}
