package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"gopkg.in/telebot.v4"
)

// Logger логирует входящие обновления Telegram в формате JSON.
// Если логгер не передан, используется log.Default().
func Logger(logger ...*log.Logger) telebot.MiddlewareFunc {
	l := log.Default()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			data, _ := json.MarshalIndent(c.Update(), "", "  ")
			l.Println(string(data))
			return next(c)
		}
	}
}

// Recover перехватывает панику в обработчике и превращает ее в ошибку.
// onError вызывается с этой ошибкой; по умолчанию паника просто логируется.
func Recover(onError ...func(error, telebot.Context)) telebot.MiddlewareFunc {
	handleError := func(err error, c telebot.Context) {
		log.Printf("Recovered from panic: %v", err)
	}
	if len(onError) > 0 && onError[0] != nil {
		handleError = onError[0]
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var e error
					switch x := r.(type) {
					case error:
						e = x
					case string:
						e = errors.New(x)
					default:
						e = fmt.Errorf("unknown panic: %v", x)
					}
					handleError(e, c)
					err = e
				}
			}()
			return next(c)
		}
	}
}

// DebugUserActions пишет в лог пользователя, шаг диалога и действие.
// Включается флагом debug в конфигурации.
func DebugUserActions(store *state.Store, logger *log.Logger) telebot.MiddlewareFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			err := next(c)

			user := c.Sender()
			if user == nil {
				return err
			}
			st := store.Get(user.ID)

			action := "Unknown action"
			if cb := c.Callback(); cb != nil {
				action = "Callback: " + cb.Unique + "|" + cb.Data
			} else if msg := c.Message(); msg != nil {
				action = "Message: " + msg.Text
			}
			logger.Printf("DEBUG: User: %s (ID: %d), Step: %s, Spec: %s, Action: %s, Err: %v",
				user.FirstName, user.ID, st.Step, st.Specialization, action, err)
			return err
		}
	}
}
