package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/serial"
	"github.com/buckleypaul/dude/internal/ui"
)

type logKind int

const (
	logInfo logKind = iota
	logOutput
	logError
	logSuccess
)

type logLine struct {
	kind logKind
	text string
}

// Options wires the model to its collaborators.
type Options struct {
	Runner          avrdude.Runner
	ListPorts       serial.Lister
	RefreshInterval time.Duration
	Board           string
	Port            string
	Context         context.Context
	Logger          logrus.FieldLogger
}

type Model struct {
	runner       avrdude.Runner
	listPorts    serial.Lister
	refreshEvery time.Duration
	ctx          context.Context
	log          logrus.FieldLogger

	ports   []serial.PortInfo
	scanned bool
	port    string
	board   string

	running         bool
	action          avrdude.Action
	requestSeq      int
	activeRequestID string
	events          <-chan tea.Msg
	tickSeq         int
	lastBadge       string

	lines    []logLine
	viewport viewport.Model
	spinner  spinner.Model
	picker   *Picker
	keys     KeyMap
	showHelp bool

	width, height int
}

func New(opts Options) Model {
	if opts.ListPorts == nil {
		opts.ListPorts = serial.ListPorts
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 5 * time.Second
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	board := opts.Board
	if _, ok := avrdude.Lookup(board); !ok {
		board = avrdude.Boards()[0]
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.SelectedStyle

	m := Model{
		runner:       opts.Runner,
		listPorts:    opts.ListPorts,
		refreshEvery: opts.RefreshInterval,
		ctx:          opts.Context,
		log:          opts.Logger,
		port:         opts.Port,
		board:        board,
		viewport:     viewport.New(0, 0),
		spinner:      s,
		keys:         DefaultKeys(),
	}
	m.updateKeys()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.scanPorts()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		return m, nil

	case PortsScannedMsg:
		m.applyPorts(msg)
		if m.running {
			return m, nil
		}
		cmd := m.scheduleRefresh()
		return m, cmd

	case refreshTickMsg:
		// Ticks from a timer superseded by a scan or an action are dropped.
		if msg.seq != m.tickSeq || m.running {
			return m, nil
		}
		return m, m.scanPorts()

	case avrdude.StartedMsg:
		if msg.RequestID != m.activeRequestID {
			return m, nil
		}
		m.events = msg.Events
		return m, avrdude.WaitForEvent(m.events)

	case avrdude.OutputMsg:
		if msg.RequestID != m.activeRequestID {
			return m, nil
		}
		m.appendLog(logOutput, msg.Text)
		return m, avrdude.WaitForEvent(m.events)

	case avrdude.ErrorMsg:
		if msg.RequestID != m.activeRequestID {
			return m, nil
		}
		m.appendLog(logError, msg.Text)
		return m, avrdude.WaitForEvent(m.events)

	case avrdude.FinishedMsg:
		if msg.RequestID != m.activeRequestID {
			return m, nil
		}
		cmd := m.finish(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PickerSelectedMsg:
		m.picker = nil
		switch msg.Kind {
		case PickPort:
			m.port = msg.Value
		case PickBoard:
			m.board = msg.Value
		}
		return m, nil

	case PickerClosedMsg:
		m.picker = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Erase):
		return m.startAction(avrdude.ActionErase)
	case key.Matches(msg, m.keys.Verify):
		return m.startAction(avrdude.ActionVerify)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.scanPorts()
	case key.Matches(msg, m.keys.Port):
		m.openPortPicker()
		return m, nil
	case key.Matches(msg, m.keys.Board):
		m.openBoardPicker()
		return m, nil
	case key.Matches(msg, m.keys.NextBoard):
		m.cycleBoard()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// startAction validates the selection in the foreground and, if it holds,
// hands the request to the runner on a background goroutine.
func (m Model) startAction(action avrdude.Action) (tea.Model, tea.Cmd) {
	if !m.actionsEnabled() {
		return m, nil
	}
	if _, err := avrdude.Validate(m.port, m.board); err != nil {
		m.appendLog(logError, "Configuration error: "+err.Error())
		return m, nil
	}

	m.running = true
	m.action = action
	m.requestSeq++
	m.activeRequestID = fmt.Sprintf("%s-%d", action, m.requestSeq)
	m.tickSeq++
	m.updateKeys()

	verb := "Erasing flash"
	if action == avrdude.ActionVerify {
		verb = "Verifying board"
	}
	m.appendLog(logInfo, fmt.Sprintf("%s on %s (%s)...", verb, m.port, m.board))
	m.log.WithFields(logrus.Fields{
		"request": m.activeRequestID,
		"port":    m.port,
		"board":   m.board,
	}).Info("action started")

	req := avrdude.Request{Port: m.port, Board: m.board, Action: action}
	return m, tea.Batch(
		avrdude.Start(m.ctx, m.runner, m.activeRequestID, req),
		m.spinner.Tick,
	)
}

func (m *Model) finish(msg avrdude.FinishedMsg) tea.Cmd {
	m.running = false
	m.activeRequestID = ""
	m.events = nil
	m.updateKeys()

	check := msg.Check
	fields := logrus.Fields{"request": msg.RequestID, "duration": msg.Duration.Round(time.Millisecond)}

	switch {
	case msg.Err != nil:
		m.lastBadge = ui.OutcomeBadge(ui.OutcomeNotStarted, "not started")
	case check.OK:
		m.lastBadge = ui.OutcomeBadge(ui.OutcomeOK, msg.Request.Action.String()+" ok")
	default:
		m.lastBadge = ui.OutcomeBadge(ui.OutcomeFailed, msg.Request.Action.String()+" failed")
	}

	switch {
	case msg.Err != nil:
		m.log.WithFields(fields).WithError(msg.Err).Warn("action rejected")
		m.appendLog(logError, "Action was not started")
	case check.ToolNotFound():
		m.log.WithFields(fields).Error("avrdude not found")
		m.appendLog(logError, fmt.Sprintf("Tool not found (exit code %d)", check.ExitCode))
	default:
		m.log.WithFields(fields).WithField("exit_code", check.ExitCode).Info("action finished")
		m.appendLog(logInfo, fmt.Sprintf("Process finished with exit code %d", check.ExitCode))
	}

	if msg.Err == nil && check.Summary != "" {
		if check.OK {
			m.appendLog(logSuccess, check.Summary)
		} else {
			m.appendLog(logError, check.Summary)
		}
	}

	return m.scanPorts()
}

func (m *Model) applyPorts(msg PortsScannedMsg) {
	if msg.Err != nil {
		m.appendLog(logError, "Port scan failed: "+msg.Err.Error())
		m.log.WithError(msg.Err).Warn("port scan failed")
		return
	}

	before := serial.Names(m.ports)
	after := serial.Names(msg.Ports)
	m.ports = msg.Ports

	if !m.scanned {
		m.scanned = true
		if len(after) == 0 {
			m.appendLog(logInfo, "No serial ports found")
		} else {
			m.appendLog(logInfo, "Serial ports: "+strings.Join(after, ", "))
		}
	} else if added, removed := serial.Diff(before, after); len(added) > 0 || len(removed) > 0 {
		var parts []string
		if len(added) > 0 {
			parts = append(parts, "added "+strings.Join(added, ", "))
		}
		if len(removed) > 0 {
			parts = append(parts, "removed "+strings.Join(removed, ", "))
		}
		m.appendLog(logInfo, "Ports changed: "+strings.Join(parts, "; "))
		m.log.WithFields(logrus.Fields{"added": added, "removed": removed}).Debug("ports changed")
	}

	switch {
	case len(after) == 1:
		m.port = after[0]
	case !contains(after, m.port):
		m.port = ""
	}
	m.updateKeys()
}

func (m *Model) scheduleRefresh() tea.Cmd {
	m.tickSeq++
	seq := m.tickSeq
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg {
		return refreshTickMsg{seq: seq}
	})
}

func (m Model) scanPorts() tea.Cmd {
	list := m.listPorts
	return func() tea.Msg {
		ports, err := list()
		return PortsScannedMsg{Ports: ports, Err: err}
	}
}

func (m *Model) openPortPicker() {
	if !m.keys.Port.Enabled() {
		return
	}
	items := make([]PickerItem, len(m.ports))
	for i, p := range m.ports {
		items[i] = PickerItem{Value: p.Name, Desc: p.Label()}
	}
	m.picker = NewPicker(PickPort, items, m.port)
	m.picker.SetWidth(m.width)
}

func (m *Model) openBoardPicker() {
	if !m.keys.Board.Enabled() {
		return
	}
	var items []PickerItem
	for _, p := range avrdude.Profiles() {
		items = append(items, PickerItem{Value: p.Board, Desc: p.Part + " " + p.Programmer})
	}
	m.picker = NewPicker(PickBoard, items, m.board)
	m.picker.SetWidth(m.width)
}

func (m *Model) cycleBoard() {
	if !m.keys.NextBoard.Enabled() {
		return
	}
	boards := avrdude.Boards()
	for i, b := range boards {
		if b == m.board {
			m.board = boards[(i+1)%len(boards)]
			return
		}
	}
	m.board = boards[0]
}

func (m Model) actionsEnabled() bool {
	return !m.running && len(m.ports) > 0
}

func (m *Model) updateKeys() {
	m.keys.Erase.SetEnabled(m.actionsEnabled())
	m.keys.Verify.SetEnabled(m.actionsEnabled())
	m.keys.Port.SetEnabled(m.actionsEnabled())
	m.keys.Refresh.SetEnabled(!m.running)
	m.keys.Board.SetEnabled(!m.running)
	m.keys.NextBoard.SetEnabled(!m.running)
}

func (m *Model) appendLog(kind logKind, text string) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	m.lines = append(m.lines, logLine{kind: kind, text: text})
	m.viewport.SetContent(renderLog(m.lines, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *Model) resizeViewport() {
	m.viewport.Width = max(m.width-6, 10)
	m.viewport.Height = max(m.height-controlsHeight-4, 3)
	m.viewport.SetContent(renderLog(m.lines, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := renderHeader(m.port, m.board, m.running, m.action, m.spinner.View(), m.lastBadge, m.width)
	body := renderBody(m)
	status := renderStatusBar(m.keys.ShortHelp(), m.width)

	if m.picker != nil {
		body = overlay(body, m.picker.View(), m.width)
	} else if m.showHelp {
		body = overlay(body, renderHelp(m.keys.FullHelp()), m.width)
	}

	return renderLayout(header, body, status)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
