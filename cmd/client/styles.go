package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/go-exchange-client/app"
)

var (
	colorAccent  = lipgloss.Color("#3B82F6")
	colorDim     = lipgloss.Color("#6B7280")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")

	screenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1)

	noticeStyles = map[app.NoticeType]lipgloss.Style{
		app.NoticeDanger:  lipgloss.NewStyle().Bold(true).Foreground(colorError),
		app.NoticeWarning: lipgloss.NewStyle().Foreground(colorWarning),
		app.NoticeInfo:    lipgloss.NewStyle().Foreground(colorDim),
	}
)

func renderScreen(m app.Mode) string {
	return screenStyle.Render("== " + m.ScreenGroup() + " ==")
}

func renderNotice(n app.Notice) string {
	style, ok := noticeStyles[n.Type]
	if !ok {
		style = noticeStyles[app.NoticeInfo]
	}
	return style.Render("[" + n.ButtonText + "] " + n.Text)
}
