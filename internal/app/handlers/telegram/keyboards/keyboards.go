package keyboards

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

var optionDigits = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣"}

const WelcomeText = "🧪 <b>Тест-бот</b>\n\nВыберите специализацию:"

const HelpText = "❓ <b>Помощь по боту</b>\n\n" +
	"<b>Как пройти тест:</b>\n" +
	"1️⃣ Выберите специализацию\n" +
	"2️⃣ Введите данные (ФИО, должность, подразделение)\n" +
	"3️⃣ Выберите уровень сложности\n" +
	"4️⃣ Отмечайте варианты ответа, их может быть несколько\n" +
	"5️⃣ Нажмите ➡️ Далее\n" +
	"6️⃣ Получите результат и сертификат\n\n" +
	"<b>Команды:</b>\n" +
	"/start - начать заново\n" +
	"/stats - статистика\n" +
	"/help - справка"

// MainMenu клавиатура со специализациями, статистикой и помощью
func MainMenu(specs []config.Specialization) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(specs)+1)
	for _, s := range specs {
		rows = append(rows, markup.Row(markup.Data("📘 "+s.Title, model.SpecKey, s.Key)))
	}
	rows = append(rows, markup.Row(
		markup.Data("📊 Моя статистика", model.MyStatsKey),
		markup.Data("❓ Помощь", model.HelpKey),
	))
	markup.Inline(rows...)
	return markup
}

// Difficulty клавиатура выбора уровня сложности
func Difficulty(levels model.Levels) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(model.Difficulties)+1)
	for _, d := range model.Difficulties {
		text := capitalize(d.Title())
		if level, err := levels.Lookup(d); err == nil {
			text = fmt.Sprintf("%s · %d вопр. · %d мин", text, level.Questions, int(level.Duration.Minutes()))
		}
		rows = append(rows, markup.Row(markup.Data(text, model.DifficultyKey, string(d))))
	}
	rows = append(rows, markup.Row(markup.Data("🏠 Главное меню", model.MainMenuKey)))
	markup.Inline(rows...)
	return markup
}

// QuestionText текст вопроса с вариантами ответа
func QuestionText(v model.QuestionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❓ <b>Вопрос %d из %d</b>\n\n%s\n\n", v.Number, v.Total, html.EscapeString(v.Prompt))
	for i, opt := range v.Options {
		fmt.Fprintf(&b, "%s %s\n", optionLabel(i+1), html.EscapeString(opt))
	}
	b.WriteString("\n<i>Отметьте все правильные варианты и нажмите «Далее»</i>")
	return b.String()
}

// Question клавиатура вопроса: варианты с отметками выбора и навигация
func Question(v model.QuestionView) *telebot.ReplyMarkup {
	selected := make(map[int]bool, len(v.Selected))
	for _, pos := range v.Selected {
		selected[pos] = true
	}

	markup := &telebot.ReplyMarkup{}
	options := make([]telebot.Btn, 0, len(v.Options))
	for pos := 1; pos <= len(v.Options); pos++ {
		text := optionLabel(pos)
		if selected[pos] {
			text = "✅ " + text
		}
		options = append(options, markup.Data(text, model.AnswerKey, strconv.Itoa(pos)))
	}

	nav := make([]telebot.Btn, 0, 2)
	if v.Number > 1 {
		nav = append(nav, markup.Data("⬅️ Назад", model.PrevKey))
	}
	if v.Number < v.Total {
		nav = append(nav, markup.Data("➡️ Далее", model.NextKey))
	} else {
		nav = append(nav, markup.Data("🏁 Завершить", model.FinishKey))
	}

	rows := markup.Split(3, options)
	rows = append(rows, markup.Row(nav...))
	markup.Inline(rows...)
	return markup
}

// Result клавиатура после завершения теста
func Result() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("📋 Правильные ответы", model.ShowAnswersKey)),
		markup.Row(markup.Data("🏆 Сертификат", model.CertificateKey)),
		markup.Row(
			markup.Data("🔁 Пройти еще раз", model.RepeatKey),
			markup.Data("📊 Статистика", model.MyStatsKey),
		),
		markup.Row(markup.Data("🏠 Главное меню", model.MainMenuKey)),
	)
	return markup
}

// ResultText итог теста
func ResultText(title string, r model.Result, timedOut bool) string {
	var b strings.Builder
	if timedOut {
		b.WriteString("⏰ <b>Время вышло!</b>\n\n")
	}
	fmt.Fprintf(&b, "🏁 <b>Тест завершен</b>\n\n")
	fmt.Fprintf(&b, "Специализация: %s\n", html.EscapeString(title))
	fmt.Fprintf(&b, "✅ Правильных ответов: %d из %d\n", r.CorrectCount, r.TotalQuestions)
	fmt.Fprintf(&b, "📈 Результат: %.1f%%\n", r.Percentage)
	fmt.Fprintf(&b, "🎓 Оценка: <b>%s</b>\n", strings.ToUpper(r.Grade.String()))
	fmt.Fprintf(&b, "⏱ Время: %s", r.ElapsedTime)
	return b.String()
}

// ReviewText список правильных ответов с отметками
func ReviewText(items []model.ReviewItem, ttlSeconds int) string {
	var b strings.Builder
	b.WriteString("📋 <b>Правильные ответы:</b>\n\n")
	for _, item := range items {
		mark := "❌"
		if item.Matched {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s <b>Вопрос %d:</b> %s\n", mark, item.Number, joinInts(item.Correct))
	}
	if ttlSeconds > 0 {
		fmt.Fprintf(&b, "\n⏱ <i>Это сообщение будет удалено через %d секунд</i>", ttlSeconds)
	}
	return b.String()
}

// StatsText статистика пользователя
func StatsText(s *model.UserStats, titles func(string) string) string {
	if s == nil || s.TotalTests == 0 {
		return "📊 <b>Ваша статистика</b>\n\nУ вас пока нет пройденных тестов.\nНачните тестирование прямо сейчас!"
	}

	var b strings.Builder
	b.WriteString("📊 <b>Ваша статистика</b>\n\n")
	fmt.Fprintf(&b, "📝 Всего тестов: %d\n", s.TotalTests)
	fmt.Fprintf(&b, "📈 Средний балл: %.1f%%\n", s.AvgPercentage)
	fmt.Fprintf(&b, "🏆 Лучший результат: %.1f%%\n", s.BestResult)
	fmt.Fprintf(&b, "📉 Худший результат: %.1f%%", s.WorstResult)

	if len(s.RecentTests) > 0 {
		b.WriteString("\n\n<b>Последние тесты:</b>\n")
		for _, r := range s.RecentTests {
			fmt.Fprintf(&b, "• %s (%s): %s - %.1f%%\n",
				html.EscapeString(titles(r.Specialization)), r.Difficulty.Title(), r.Grade, r.Percentage)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// TimerText текст сообщения с обратным отсчетом
func TimerText(remaining string) string {
	return "⏰ Осталось времени: " + remaining
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func optionLabel(pos int) string {
	if pos >= 1 && pos <= len(optionDigits) {
		return optionDigits[pos-1]
	}
	return strconv.Itoa(pos)
}

func joinInts(numbers []int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}
