package model

// Ключи inline кнопок. Привязаны к обработчикам в app.bootstrapHandlersTelegram,
// поэтому при изменении ключа нужно поменять и регистрацию обработчика.
const (
	MainMenuKey    = "main_menu"
	SpecKey        = "spec"
	DifficultyKey  = "diff"
	AnswerKey      = "ans"
	NextKey        = "next"
	PrevKey        = "prev"
	FinishKey      = "finish"
	ShowAnswersKey = "show_answers"
	CertificateKey = "cert"
	RepeatKey      = "repeat"
	MyStatsKey     = "my_stats"
	HelpKey        = "help"
	NoopKey        = "noop"
)
