package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"medbot/internal/chat"
	"medbot/internal/models"
)

const (
	healthPollInterval = 30 * time.Second
	requestTimeout     = 30 * time.Second
)

// Gateway is the TUI-facing subset of the gateway client.
type Gateway interface {
	Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
}

type settleMsg struct {
	result chat.Result
}

type healthMsg struct {
	healthy bool
}

type healthTickMsg struct{}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	gateway  Gateway
	state    chat.State
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	ready    bool
	status   string
}

// New creates a new chat TUI model.
func New(gateway Gateway) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a medical question and press Enter"
	ti.Focus()
	ti.CharLimit = models.MaxQueryLength

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(0, 0)

	return Model{
		gateway:  gateway,
		state:    chat.NewState(),
		input:    ti,
		viewport: vp,
		spin:     sp,
		status:   "Connecting...",
	}
}

// Init starts cursor blink and the first health poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.pollHealth())
}

// Update handles key, timer, and settlement events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		reserved := 5 // header, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.input.Width = msg.Width - 4
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			// Submission is serialized: at most one request in flight.
			// A submit while Submitting or while unhealthy is ignored.
			if m.state.InputDisabled() {
				return m, nil
			}
			next, accepted := chat.Submit(m.state, m.input.Value())
			if !accepted {
				return m, nil
			}
			m.state = next
			m.input.Reset()
			m.status = "Thinking..."
			return m, tea.Batch(m.submit(m.state.Pending), m.spin.Tick)
		case "ctrl+l":
			// Clearing never cancels an in-flight request; its answer
			// will land on the emptied log.
			m.state = chat.Clear(m.state)
			m.refreshLog()
			return m, nil
		}

	case settleMsg:
		m.state = chat.Settle(m.state, msg.result)
		if msg.result.Err != nil {
			m.status = "Request failed. Ready."
		} else {
			m.status = "Ready."
		}
		m.refreshLog()
		m.viewport.GotoBottom()
		// blink messages were dropped while Submitting; restart the cursor
		return m, textinput.Blink

	case healthMsg:
		m.state = chat.SetHealth(m.state, msg.healthy)
		if msg.healthy {
			if m.state.Phase == chat.Idle {
				m.status = "Ready."
			}
		} else {
			m.status = "Server unavailable - input disabled."
		}
		return m, m.scheduleHealthPoll()

	case healthTickMsg:
		return m, m.pollHealth()

	case spinner.TickMsg:
		if m.state.Phase == chat.Submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Keystrokes must not buffer into the hidden input while a
	// request is in flight
	if m.state.Phase != chat.Idle {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Medical Bot")
	log := m.viewport.View()

	var inputLine string
	if m.state.Phase == chat.Submitting {
		inputLine = m.spin.View() + " waiting for answer..."
	} else if !m.state.Healthy {
		inputLine = faintStyle.Render("input disabled while the server is unreachable")
	} else {
		inputLine = m.input.View()
	}

	status := statusStyle.Render(m.status + healthIndicator(m.state.Healthy))

	return header + "\n" + log + "\n" + inputBoxStyle.Render(inputLine) + "\n" + status
}

func (m *Model) refreshLog() {
	m.viewport.SetContent(RenderLog(m.state.Messages, m.viewport.Width))
}

// submit runs the gateway round trip off the UI loop
func (m Model) submit(query string) tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := gateway.Query(ctx, &models.QueryRequest{Query: query})
		return settleMsg{result: chat.Result{Response: resp, Err: err}}
	}
}

func (m Model) pollHealth() tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status, err := gateway.Health(ctx)
		healthy := err == nil && status.Status == "healthy"
		return healthMsg{healthy: healthy}
	}
}

func (m Model) scheduleHealthPoll() tea.Cmd {
	return tea.Tick(healthPollInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func healthIndicator(healthy bool) string {
	if healthy {
		return "  ● online"
	}
	return "  ○ offline"
}
