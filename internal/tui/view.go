package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/pages"
)

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		titleStyle.Render(a.panel.Message("quickstart.top.panel.title")),
		a.renderButtons(),
	}

	var body string
	err := a.panel.View(func(_ model.PageID, page host.Page) {
		body = a.renderPage(page)
	})
	if err != nil {
		body = errorStyle.Render(describe(err))
	}
	if a.showHelp {
		body = a.renderHelp()
	}
	sections = append(sections, bodyStyle.Width(max(20, width-2)).Render(body))
	sections = append(sections, a.renderStatusLine(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderButtons() string {
	triggers := a.panel.Triggers()
	active := a.panel.Active()

	buttons := make([]string, 0, len(triggers))
	for i, t := range triggers {
		res := a.panel.Resource(t.Page)
		label := strings.TrimSpace(res.Icon + " " + res.Label)
		style := buttonStyle
		switch {
		case i == a.cursor:
			style = selectedButtonStyle
		case t.Page == active:
			style = activeButtonStyle
		}
		buttons = append(buttons, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)

	if a.cursor < len(triggers) {
		tip := a.panel.Resource(triggers[a.cursor].Page).Tooltip
		if tip != "" {
			row = lipgloss.JoinVertical(lipgloss.Left, row, mutedStyle.Render(tip))
		}
	}
	return row
}

// renderPage draws the body for one of the known page types. Unknown page
// types fall back to their resource label.
func (a *App) renderPage(page host.Page) string {
	msg := a.panel.Message
	var b strings.Builder

	switch p := page.(type) {
	case *pages.Home:
		for _, line := range p.Messages() {
			b.WriteString(line + "\n\n")
		}

	case *pages.Attack:
		b.WriteString(labelStyle.Render(msg("quickstart.attack.url")) + " ")
		if a.editing {
			b.WriteString(a.input.View())
		} else {
			b.WriteString(p.Target())
		}
		b.WriteString("\n")
		mode := string(p.Mode())
		if p.Mode().AllowsAttack() {
			mode = okStyle.Render(mode)
		} else {
			mode = warnStyle.Render(fmt.Sprintf(msg("quickstart.attack.denied"), mode))
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(msg("quickstart.attack.mode")), mode)
		fmt.Fprintf(&b, "%s %v\n", labelStyle.Render(msg("quickstart.attack.ajax")), p.Options().AjaxSpider)
		b.WriteString(labelStyle.Render(msg("quickstart.attack.spiders")) + "\n")
		b.WriteString(renderSpiders(p.Spiders(), msg("quickstart.attack.none")))
		if urls := p.URLs(); len(urls) > 0 {
			b.WriteString(labelStyle.Render(msg("quickstart.attack.history")) + "\n")
			for _, u := range urls {
				b.WriteString("  " + u + "\n")
			}
		}
		b.WriteString("\n" + mutedStyle.Render(msg("quickstart.attack.hint")))

	case *pages.Explore:
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(msg("quickstart.explore.proxy")), p.ProxyAddr())
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(msg("quickstart.explore.launch")), p.LaunchURL())
		b.WriteString(labelStyle.Render(msg("quickstart.explore.spiders")) + "\n")
		b.WriteString(renderSpiders(p.Spiders(), msg("quickstart.attack.none")))

	case *pages.LearnMore:
		b.WriteString(labelStyle.Render(msg("quickstart.learnmore.links")) + "\n")
		for _, l := range p.Links() {
			fmt.Fprintf(&b, "  %s  %s\n", l.Title, mutedStyle.Render(l.URL))
		}

	case *pages.Custom:
		b.WriteString(labelStyle.Render(p.Title()) + "\n")
		fmt.Fprintf(&b, "%s %s\n", msg("quickstart.custom.open"), p.URL())

	default:
		b.WriteString(page.Resource().Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSpiders(spiders []model.SpiderInfo, none string) string {
	if len(spiders) == 0 {
		return "  " + mutedStyle.Render(none) + "\n"
	}
	var b strings.Builder
	for _, s := range spiders {
		fmt.Fprintf(&b, "  • %s %s\n", s.Name(), mutedStyle.Render("("+s.ID()+")"))
	}
	return b.String()
}

func (a *App) renderHelp() string {
	var b strings.Builder
	for _, k := range a.keys.ShortHelp() {
		h := k.Help()
		fmt.Fprintf(&b, "%-10s %s\n", h.Key, h.Desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderStatusLine(width int) string {
	left := ""
	switch {
	case a.status == "":
		if ch, ok := a.panel.LastChange(); ok {
			left = fmt.Sprintf("%s → %s  %s", ch.From, ch.To, ch.At.Format("15:04:05"))
		}
	case a.statusOK:
		left = a.status
	default:
		left = errorStyle.Background(ColorNavy).Render(a.status)
	}
	right := "? help  q quit"
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return statusStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
