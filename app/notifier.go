package app

import "github.com/rs/zerolog/log"

// NoticeType is the severity of a user-visible notice.
type NoticeType string

const (
	NoticeDanger  NoticeType = "danger"
	NoticeWarning NoticeType = "warning"
	NoticeInfo    NoticeType = "info"
)

// Notice is a transient message shown on top of the current screen.
type Notice struct {
	Text       string
	Type       NoticeType
	ButtonText string
}

// SessionExpiredNotice is shown when the server rejects the stored session.
var SessionExpiredNotice = Notice{
	Text:       "Your token has expired, please login again.",
	Type:       NoticeDanger,
	ButtonText: "X",
}

// Notifier presents notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	log.Warn().Str("type", string(n.Type)).Msg(n.Text)
}
