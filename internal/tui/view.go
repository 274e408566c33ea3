package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/player"
)

var (
	wine   = lipgloss.Color("#7f1d1d")
	lilac  = lipgloss.Color("#d8b4fe")
	faint  = lipgloss.Color("8")
	accent = lipgloss.Color("#fde68a")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(wine).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lilac).Padding(1, 2)
	nameStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(faint)
	stateStyle  = lipgloss.NewStyle().Foreground(accent)
	helpStyle   = lipgloss.NewStyle().Foreground(faint).Padding(1, 0, 0, 0)
	noticeStyle = lipgloss.NewStyle().Foreground(lilac)
)

const help = "↑/k anterior • ↓/j próximo • espaço pausar • enter abrir • r recarregar • q sair"

// View renders the active item.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Wine Locals · Shorts"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Carregando vídeos...")
	case len(m.items) == 0:
		b.WriteString(display.MsgNoVideos)
	default:
		b.WriteString(m.viewActive())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *Model) viewActive() string {
	i := m.Active()
	item := m.items[i]
	surface := m.frames[i].Update.Surface

	lines := []string{
		nameStyle.Render(item.DisplayName),
	}
	var meta []string
	if item.LocationLabel != "" {
		meta = append(meta, item.LocationLabel)
	}
	if item.PartnerName != "" {
		meta = append(meta, item.PartnerName)
	}
	if item.Price > 0 {
		meta = append(meta, "a partir de "+m.formatter.FormatPrice(item.Price))
	}
	if len(meta) > 0 {
		lines = append(lines, metaStyle.Render(strings.Join(meta, " • ")))
	}
	lines = append(lines, "")

	switch surface.Kind {
	case player.SurfacePlaceholder:
		lines = append(lines, stateStyle.Render(surface.Message))
	default:
		state := "⏸ pausado"
		if m.Playing() {
			state = "▶ tocando"
		}
		sound := "com som"
		if surface.Muted {
			sound = "sem som"
		}
		lines = append(lines, stateStyle.Render(state+" • "+sound))
		lines = append(lines, metaStyle.Render(surface.Src))
	}

	lines = append(lines, "", metaStyle.Render(fmt.Sprintf("%d/%d", i+1, len(m.items))))

	card := cardStyle
	if m.width > 4 {
		card = card.Width(min(m.width-4, 80))
	}
	return card.Render(strings.Join(lines, "\n"))
}
