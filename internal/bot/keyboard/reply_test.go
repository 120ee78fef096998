package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyBuildsRows(t *testing.T) {
	markup := Reply([][]string{
		{"💰 Nova transação", "🎯 Nova meta"},
		{"📊 Resumo"},
	})
	require.NotNil(t, markup)
	assert.True(t, markup.ResizeKeyboard)

	require.Len(t, markup.ReplyKeyboard, 2)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	assert.Equal(t, "💰 Nova transação", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "📊 Resumo", markup.ReplyKeyboard[1][0].Text)
}

func TestReplySkipsEmptyRows(t *testing.T) {
	markup := Reply([][]string{{}, {"Pular"}})
	require.NotNil(t, markup)
	require.Len(t, markup.ReplyKeyboard, 1)
}

func TestReplyEmptyInputIsNil(t *testing.T) {
	assert.Nil(t, Reply(nil))
	assert.Nil(t, Reply([][]string{}))
}

func TestRemove(t *testing.T) {
	markup := Remove()
	require.NotNil(t, markup)
	assert.True(t, markup.RemoveKeyboard)
}
