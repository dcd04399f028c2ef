package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackTokens(kb *InlineKeyboardMarkup) []string {
	var tokens []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != "" {
				tokens = append(tokens, btn.CallbackData)
			}
		}
	}
	return tokens
}

func TestStudentMenuCarriesContactEntry(t *testing.T) {
	tokens := callbackTokens(StudentMenuKeyboard())
	assert.Contains(t, tokens, "menu:contact")
}

func TestAdminMenuCarriesVideoDeleteEntry(t *testing.T) {
	tokens := callbackTokens(AdminMenuKeyboard())
	assert.Contains(t, tokens, "admin:delvideo")
}

func TestContactKeyboardRouting(t *testing.T) {
	kb := ContactKeyboard("https://t.me/example")
	tokens := callbackTokens(kb)
	assert.Contains(t, tokens, "contact:phone")
	assert.Contains(t, tokens, "menu:main")

	require.NotEmpty(t, kb.InlineKeyboard)
	assert.Equal(t, "https://t.me/example", kb.InlineKeyboard[0][0].URL)
}

func TestQuickBlockKeyboardToken(t *testing.T) {
	tokens := callbackTokens(QuickBlockKeyboard(42))
	assert.Contains(t, tokens, "quickblock:42")
}
