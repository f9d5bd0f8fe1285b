package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spherical/flipbook-studio/internal/flipbook"
	"github.com/spherical/flipbook-studio/internal/reader"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pageStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3).Width(22).Align(lipgloss.Center)
	thumbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	thumbActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Padding(0, 1)
	fullscreenTag = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type readerKeyMap struct {
	Prev       key.Binding
	Next       key.Binding
	Jump       key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ResetZoom  key.Binding
	Fullscreen key.Binding
	Click      key.Binding
	Close      key.Binding
	Quit       key.Binding
}

func defaultReaderKeys() readerKeyMap {
	return readerKeyMap{
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Next:       key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→", "next")),
		Jump:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-0", "jump")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ResetZoom:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset zoom")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Click:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "click page")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k readerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.ZoomIn, k.ZoomOut, k.Fullscreen, k.Close}
}

func (k readerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump, k.Click},
		{k.ZoomIn, k.ZoomOut, k.ResetZoom, k.Fullscreen},
		{k.Close, k.Quit},
	}
}

// ReaderModel is the bubbletea model for browsing an open flipbook.
type ReaderModel struct {
	doc    *flipbook.Document
	state  *reader.State
	keys   readerKeyMap
	help   help.Model
	closed bool
	err    string
}

// NewReaderModel opens doc with the given zoom options.
func NewReaderModel(doc *flipbook.Document, opts reader.Options) ReaderModel {
	return ReaderModel{
		doc:   doc,
		state: reader.New(len(doc.Pages), opts),
		keys:  defaultReaderKeys(),
		help:  help.New(),
	}
}

// State exposes the underlying page state.
func (m ReaderModel) State() *reader.State { return m.state }

// Closed reports whether the reader was dismissed.
func (m ReaderModel) Closed() bool { return m.closed }

func (m ReaderModel) Init() tea.Cmd {
	return nil
}

func (m ReaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		m.err = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.closed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.state.HandleKey(reader.KeyLeft)
		case key.Matches(msg, m.keys.Next):
			m.state.HandleKey(reader.KeyRight)
		case key.Matches(msg, m.keys.Close):
			if m.state.HandleKey(reader.KeyEscape) == reader.ActionClose {
				m.closed = true
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.ZoomIn):
			m.state.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			m.state.ZoomOut()
		case key.Matches(msg, m.keys.ResetZoom):
			m.state.ResetZoom()
		case key.Matches(msg, m.keys.Fullscreen):
			m.state.ToggleFullscreen()
		case key.Matches(msg, m.keys.Click):
			if err := m.state.ClickPage(m.state.Current()); err != nil {
				m.err = err.Error()
			}
		case key.Matches(msg, m.keys.Jump):
			digit := msg.String()
			index := int(digit[0] - '1')
			if digit == "0" {
				index = reader.ThumbnailLimit - 1
			}
			if err := m.state.JumpTo(index); err != nil {
				m.err = err.Error()
			}
		}
	}
	return m, nil
}

func (m ReaderModel) View() string {
	var b strings.Builder

	header := titleStyle.Render(m.doc.Title)
	if m.state.Fullscreen() {
		header += " " + fullscreenTag.Render("[fullscreen]")
	}
	b.WriteString(header + "\n\n")

	if m.state.PageCount() == 0 {
		b.WriteString(statusStyle.Render("This flipbook has no pages.") + "\n")
		return b.String()
	}

	var spread []string
	for i := m.state.Current(); i < m.state.Current()+2 && i < m.state.PageCount(); i++ {
		page := m.doc.Pages[i]
		spread = append(spread, pageStyle.Render(fmt.Sprintf("Page %d\n%.0fx%.0f", page.PageNum, page.Width, page.Height)))
	}
	if len(spread) == 0 {
		spread = append(spread, pageStyle.Render("End"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, spread...) + "\n\n")

	first, last := m.state.Spread()
	status := fmt.Sprintf("Page %d-%d of %d  ·  Zoom %d%%", first, last, m.state.PageCount(), m.state.ZoomPercent())
	b.WriteString(statusStyle.Render(status) + "\n")

	var thumbs []string
	for _, i := range m.state.Thumbnails() {
		style := thumbStyle
		if m.state.InView(i) {
			style = thumbActive
		}
		thumbs = append(thumbs, style.Render(fmt.Sprintf("%d", i+1)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, thumbs...) + "\n")

	if m.err != "" {
		b.WriteString(errorColor.Sprint(m.err) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
