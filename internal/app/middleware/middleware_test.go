package middleware

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

func newTestContext(t *testing.T) telebot.Context {
	t.Helper()
	bot, err := telebot.NewBot(telebot.Settings{Offline: true})
	require.NoError(t, err)
	return bot.NewContext(telebot.Update{
		ID: 1,
		Message: &telebot.Message{
			Text:   "/start",
			Sender: &telebot.User{ID: 10, FirstName: "Иван"},
			Chat:   &telebot.Chat{ID: 10},
		},
	})
}

func TestRecover(t *testing.T) {
	var recovered error
	h := Recover(func(err error, _ telebot.Context) { recovered = err })(func(telebot.Context) error {
		panic("boom")
	})

	err := h(newTestContext(t))
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, err, recovered)
}

func TestRecover_PassesErrors(t *testing.T) {
	want := errors.New("handler failed")
	h := Recover()(func(telebot.Context) error { return want })
	assert.Equal(t, want, h(newTestContext(t)))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	called := false
	h := Logger(log.New(&buf, "", 0))(func(telebot.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(newTestContext(t)))
	assert.True(t, called)
	assert.Contains(t, buf.String(), "/start")
}

func TestDebugUserActions(t *testing.T) {
	var buf bytes.Buffer
	store := state.NewStore()
	_ = store.Update(10, func(st *state.FlowState) error {
		st.Step = state.StepPosition
		return nil
	})

	h := DebugUserActions(store, log.New(&buf, "", 0))(func(telebot.Context) error { return nil })
	require.NoError(t, h(newTestContext(t)))
	assert.Contains(t, buf.String(), "Step: position")
	assert.Contains(t, buf.String(), "Message: /start")
}
