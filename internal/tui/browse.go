// internal/tui/browse.go

// Package tui provides the interactive endpoint browser.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/metrics"
	"github.com/tao-philip/server-mcp/internal/util"
	"github.com/tao-philip/server-mcp/mcp/tools"
)

// Router runs tools; *tools.Router satisfies it.
type Router interface {
	Route(ctx context.Context, name string, args map[string]any) apiclient.Response
}

// CredentialChecker reports whether an endpoint has a key; *apiclient.Dispatcher satisfies it.
type CredentialChecker interface {
	HasCredential(endpointKey string) bool
}

// viewState represents the current screen.
type viewState int

const (
	// viewEndpointList is the state where the user picks an endpoint.
	viewEndpointList viewState = iota
	// viewEndpointDetail shows one endpoint and its last probe result.
	viewEndpointDetail
)

// probe is the request sent when the user presses "p" on an endpoint.
type probe struct {
	path   string
	params map[string]any
}

var probes = map[string]probe{
	endpoints.OpenWeather:     {path: "/weather", params: map[string]any{"q": "London"}},
	endpoints.WeatherAPI:      {path: "/current.json", params: map[string]any{"q": "London"}},
	endpoints.HTTPBin:         {path: "/get"},
	endpoints.JSONPlaceholder: {path: "/posts/1"},
}

// model is the Bubble Tea model for the browser.
type model struct {
	ctx           context.Context
	registry      *endpoints.Registry
	creds         CredentialChecker
	router        Router
	stats         *metrics.Aggregator
	state         viewState
	endpointList  list.Model
	spinner       spinner.Model
	selected      endpoints.Endpoint
	probing       bool
	result        *apiclient.Response
	width, height int
}

// item represents a selectable endpoint in the list.
type item struct {
	key   string
	title string
	desc  string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the base URL and, for endpoints that need one, the key status.
func (i item) Description() string { return i.desc }

// FilterValue returns the endpoint key, used for filtering.
func (i item) FilterValue() string { return i.key }

// probeResultMsg carries the envelope returned by a probe.
type probeResultMsg struct {
	key  string
	resp apiclient.Response
}

func initialModel(ctx context.Context, reg *endpoints.Registry, creds CredentialChecker, router Router, stats *metrics.Aggregator) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	l := list.New(endpointItems(reg, creds), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select an Endpoint"

	return &model{
		ctx:          ctx,
		registry:     reg,
		creds:        creds,
		router:       router,
		stats:        stats,
		state:        viewEndpointList,
		endpointList: l,
		spinner:      s,
	}
}

func endpointItems(reg *endpoints.Registry, creds CredentialChecker) []list.Item {
	keys := reg.Keys()
	items := make([]list.Item, 0, len(keys))
	for _, key := range keys {
		ep, _ := reg.Lookup(key)
		desc := ep.BaseURL
		if ep.RequiresAuth && !creds.HasCredential(key) {
			desc += "  (key missing)"
		}
		items = append(items, item{key: key, title: fmt.Sprintf("%s (%s)", ep.Name, key), desc: desc})
	}
	return items
}

// probeCmd runs make_api_request for the endpoint's probe off the UI goroutine.
func probeCmd(ctx context.Context, router Router, key string) tea.Cmd {
	return func() tea.Msg {
		p, ok := probes[key]
		if !ok {
			p = probe{path: "/"}
		}
		args := map[string]any{"endpoint": key, "path": p.path}
		if len(p.params) > 0 {
			args["params"] = p.params
		}
		return probeResultMsg{key: key, resp: router.Route(ctx, tools.MakeAPIRequestName, args)}
	}
}

// Init starts the spinner.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, resizes and probe results.
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
			if m.state == viewEndpointDetail {
				m.state = viewEndpointList
				m.endpointList.SetItems(endpointItems(m.registry, m.creds))
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.endpointList.SetSize(msg.Width-2, msg.Height-4)

	case probeResultMsg:
		if msg.key == m.selected.Key {
			m.probing = false
			resp := msg.resp
			m.result = &resp
		}
		return m, nil
	}

	switch m.state {
	case viewEndpointList:
		m.endpointList, cmd = m.endpointList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.endpointList.SelectedItem().(item); ok {
				ep, _ := m.registry.Lookup(selected.key)
				m.selected = ep
				m.result = nil
				m.probing = false
				m.state = viewEndpointDetail
			}
		}

	case viewEndpointDetail:
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "p" && !m.probing {
			m.probing = true
			m.result = nil
			cmds = append(cmds, m.spinner.Tick, probeCmd(m.ctx, m.router, m.selected.Key))
		}
	}

	if m.probing {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current screen.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.state == viewEndpointList {
		return lipgloss.NewStyle().Margin(1, 2).Render(m.endpointList.View())
	}
	return m.detailView()
}

func (m *model) detailView() string {
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	ep := m.selected
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", ep.Name, ep.Key)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Description:"), ep.Description)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Base URL:"), ep.BaseURL)
	if ep.RequiresAuth {
		status := okStyle.Render("loaded")
		if !m.creds.HasCredential(ep.Key) {
			status = errorStyle.Render("missing")
		}
		fmt.Fprintf(&b, "%s %s via %s, key %s\n", labelStyle.Render("Auth:"), ep.AuthType, ep.AuthHeader, status)
	} else {
		fmt.Fprintf(&b, "%s none\n", labelStyle.Render("Auth:"))
	}
	if len(ep.DefaultParams) > 0 {
		data, _ := json.Marshal(ep.DefaultParams)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Default params:"), data)
	}
	if calls, ok := m.stats.Snapshot(ep.Key); ok {
		fmt.Fprintf(&b, "%s %d requests, %d failed, mean %.0fms\n", labelStyle.Render("Calls:"), calls.TotalRequests, calls.Failures, calls.LatencyMillis.Mean)
	}
	b.WriteString("\n")

	switch {
	case m.probing:
		fmt.Fprintf(&b, "%s Probing %s...\n", m.spinner.View(), ep.Key)
	case m.result != nil && m.result.Success:
		b.WriteString(okStyle.Render(fmt.Sprintf("Probe OK (status %d)", m.result.StatusCode)))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString(errorStyle.Render(util.Wrap("Probe failed: "+m.result.Error, m.width-6)))
		b.WriteString("\n")
	}

	b.WriteString("\n (p to probe, esc to go back, q to quit)")
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

// Browse runs the endpoint browser until the user quits. Stderr logging is
// paused while the UI owns the terminal.
func Browse(ctx context.Context, reg *endpoints.Registry, creds CredentialChecker, router Router, stats *metrics.Aggregator) error {
	restore := logging.Quiet()
	defer restore()

	p := tea.NewProgram(initialModel(ctx, reg, creds, router, stats), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
