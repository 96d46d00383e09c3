package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
)

// App is the terminal control panel: a scrolling list of VMs and services,
// a detail panel for the selected one, and a settings page.
type App struct {
	model    *controlpanel.ServiceModel
	list     *controlpanel.ServiceList
	detail   *controlpanel.ServicePanel
	settings *controlpanel.SettingsPanel

	conn    *controlpanel.Connection
	pending <-chan struct{}

	state    appState
	cursor   int
	selected string
	status   string
	err      error
}

type appState string

const (
	viewServices appState = "services"
	viewSettings appState = "settings"
)

// Options configures an App.
type Options struct {
	// VisibleRows is the number of list panels.
	VisibleRows int
	// SettingsSections are the titles of the settings pages.
	SettingsSections []string
	// Connection, if set, feeds the model from the controller.
	Connection *controlpanel.Connection
	// Sinks receive the control actions and audio changes of the detail panel.
	Sinks []controlpanel.ActionSink
}

func New(model *controlpanel.ServiceModel, opts Options) *App {
	rows := make([]controlpanel.Row, 0, len(opts.SettingsSections))
	for _, title := range opts.SettingsSections {
		rows = append(rows, controlpanel.PanelRow(title, strings.ToLower(title)))
	}

	a := &App{
		model:    model,
		list:     controlpanel.NewServiceList(model, opts.VisibleRows),
		detail:   controlpanel.NewServicePanel(),
		settings: controlpanel.NewSettingsPanel(rows...),
		conn:     opts.Connection,
		state:    viewServices,
	}
	if a.conn != nil {
		// Starts the reader; must happen here rather than inside a command
		a.pending = a.conn.ProcessSignal()
	}

	controlpanel.Forward(a.detail, opts.Sinks...)
	a.detail.ConnectControlAction(func(ev controlpanel.ControlActionEvent) {
		a.status = fmt.Sprintf("%s: %s", ev.Kind, nameOf(ev.TargetDisplayName, ev.TargetName))
	})
	a.syncSelection()
	return a
}

func nameOf(displayName, name string) string {
	if displayName != "" {
		return displayName
	}
	return name
}

// Detail returns the panel showing the selected row.
func (a *App) Detail() *controlpanel.ServicePanel {
	return a.detail
}

func (a *App) Cursor() int {
	return a.cursor
}

type controllerMsg struct{}

type controllerClosedMsg struct{}

func (a *App) waitForController() tea.Cmd {
	if a.pending == nil {
		return nil
	}
	pending := a.pending
	return func() tea.Msg {
		if _, ok := <-pending; !ok {
			return controllerClosedMsg{}
		}
		return controllerMsg{}
	}
}

func (a *App) Init() tea.Cmd {
	return a.waitForController()
}

// syncSelection keeps the cursor on the selected record by name across model
// changes, and binds the detail panel to it.
func (a *App) syncSelection() {
	if i := a.model.Index(a.selected); a.selected != "" && i >= 0 {
		a.cursor = i
	}
	if a.cursor >= a.model.RowCount() {
		a.cursor = a.model.RowCount() - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}

	row := a.model.Row(a.cursor)
	if row == nil {
		a.selected = ""
		if a.detail.Record() != nil {
			a.detail.Unbind()
		}
		return
	}
	a.selected = row.Data().Name
	if a.detail.Record() != controlpanel.Record(row) {
		a.detail.Bind(row)
	}
	a.list.EnsureVisible(a.cursor)
}

func (a *App) process() {
	if err := a.conn.Process(); err != nil {
		a.err = err
		a.status = "controller: " + err.Error()
	}
	a.syncSelection()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "q" || m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if m.String() == "tab" {
			if a.state == viewServices {
				a.state = viewSettings
			} else {
				a.state = viewServices
			}
			return a, nil
		}
		if a.state == viewSettings {
			a.handleSettingsKey(m)
		} else {
			a.handleServicesKey(m)
		}
	case controllerMsg:
		a.process()
		return a, a.waitForController()
	case controllerClosedMsg:
		a.process()
		a.pending = nil
		if a.err == nil {
			a.status = "controller disconnected"
		}
		log.Info().Msg("controller connection ended")
	}
	return a, nil
}

func (a *App) handleServicesKey(m tea.KeyMsg) {
	switch m.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
			a.selected = ""
			a.syncSelection()
		}
	case "down", "j":
		if a.cursor < a.model.RowCount()-1 {
			a.cursor++
			a.selected = ""
			a.syncSelection()
		}
	case "m", "enter":
		if a.detail.Record() != nil {
			a.detail.OpenMenu()
		}
	case "s":
		a.detail.StartClicked()
	case "x":
		a.detail.ShutdownClicked()
	case "p":
		a.detail.PauseClicked()
	}

	if !a.detail.Slot(controlpanel.SlotAudioSettings).Visible() {
		return
	}
	audio := a.detail.Audio()
	switch m.String() {
	case "+", "=":
		a.detail.SpeakerVolumeChanged(audio.SpeakerVolume + 0.1)
	case "-":
		a.detail.SpeakerVolumeChanged(audio.SpeakerVolume - 0.1)
	case "]":
		a.detail.MicVolumeChanged(audio.MicVolume + 0.1)
	case "[":
		a.detail.MicVolumeChanged(audio.MicVolume - 0.1)
	case "v":
		a.detail.ToggleSpeakerMute()
	case "c":
		a.detail.ToggleMicMute()
	}
}

func (a *App) handleSettingsKey(m tea.KeyMsg) {
	sel := a.settings.Selector()
	switch m.String() {
	case "up", "k":
		if sel.Selected() > 0 {
			sel.Select(sel.Selected() - 1)
		}
	case "down", "j":
		if sel.Selected() < len(sel.Rows())-1 {
			sel.Select(sel.Selected() + 1)
		}
	}
}

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectStyle  = lipgloss.NewStyle().Bold(true)
	popoverStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	detailStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

var iconColors = map[controlpanel.IconRef]lipgloss.Color{
	controlpanel.IconStatusGreen:   lipgloss.Color("2"),
	controlpanel.IconStatusRed:     lipgloss.Color("1"),
	controlpanel.IconStatusYellow:  lipgloss.Color("3"),
	controlpanel.IconSecure:        lipgloss.Color("2"),
	controlpanel.IconSecureWarning: lipgloss.Color("3"),
	controlpanel.IconSecureAlert:   lipgloss.Color("1"),
}

// icon renders an icon resource as a colored glyph.
func icon(sheet *controlpanel.PropertySheet, glyph string) string {
	c, ok := iconColors[sheet.Resource()]
	if !ok {
		return dimStyle.Render(glyph)
	}
	return lipgloss.NewStyle().Foreground(c).Render(glyph)
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderServices()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderServices() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Control Panel") + "\n")
	if a.model.RowCount() == 0 {
		b.WriteString(dimStyle.Render("No VMs or services.") + "\n")
	}
	for i, p := range a.list.Panels() {
		if p.Record() == nil {
			continue
		}
		row := a.list.Offset() + i
		marker := " "
		line := fmt.Sprintf("%s %-28s %s",
			icon(p.Slot(controlpanel.SlotStatusIcon), "●"),
			p.Slot(controlpanel.SlotName1).Text(),
			dimStyle.Render(p.Slot(controlpanel.SlotName2).Text()),
		)
		if row == a.cursor {
			marker = "▶"
			line = selectStyle.Render(line)
		}
		b.WriteString(marker + " " + line + "\n")
	}

	if a.detail.Record() != nil {
		b.WriteString("\n" + detailStyle.Render(a.renderDetail()) + "\n")
	}
	b.WriteString("[↑/↓] Select  [m] Actions  [s] Start  [x] Shutdown  [p] Pause  [tab] Settings  [q] Quit")
	return b.String()
}

func (a *App) renderDetail() string {
	d := a.detail
	lines := []string{
		selectStyle.Render(d.Slot(controlpanel.SlotName1).Text()),
		fmt.Sprintf("%s %s", icon(d.Slot(controlpanel.SlotStatusIcon), "●"), d.Slot(controlpanel.SlotStatusLabel).Text()),
		fmt.Sprintf("%s %s", icon(d.Slot(controlpanel.SlotSecurityIcon), "◆"), d.Slot(controlpanel.SlotSecurityLabel).Text()),
	}
	if details := d.Slot(controlpanel.SlotDetails).Text(); details != "" {
		lines = append(lines, details)
	}
	if d.Slot(controlpanel.SlotAudioSettings).Visible() {
		audio := d.Audio()
		lines = append(lines,
			fmt.Sprintf("Speaker %3.0f%%  [-/+] [v] mute", audio.SpeakerVolume*100),
			fmt.Sprintf("Mic     %3.0f%%  [[/]] [c] mute", audio.MicVolume*100),
		)
	}
	if d.MenuOpen() {
		lines = append(lines, popoverStyle.Render(fmt.Sprintf("%s\n[s] Start  [x] Shutdown  [p] Pause",
			d.Slot(controlpanel.SlotControlLabel).Text())))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n")
	sel := a.settings.Selector()
	for i, r := range sel.Rows() {
		marker := " "
		title := r.Title
		if i == sel.Selected() {
			marker = "▶"
			title = selectStyle.Render(title)
		}
		b.WriteString(marker + " " + title + "\n")
	}
	b.WriteString("\n" + detailStyle.Render("Section: "+a.settings.Stack().Visible()) + "\n")
	b.WriteString("[↑/↓] Select  [tab] Services  [q] Quit")
	return b.String()
}
