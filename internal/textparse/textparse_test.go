package textparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "comma decimal", input: "150,50", want: 150.5},
		{name: "plain integer", input: "2500", want: 2500},
		{name: "dot decimal", input: "99.90", want: 99.9},
		{name: "currency symbol", input: "R$ 1200,00", want: 1200},
		{name: "uppercase symbol with spaces", input: " R$300 ", want: 300},
		{name: "letters", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "thousands separator commas", input: "1,234,56", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseAmountOrSkip(t *testing.T) {
	for _, token := range []string{"não", "nao", "n", "no", "0", "NÃO", "No"} {
		got, err := ParseAmountOrSkip(token)
		require.NoError(t, err, "token %q", token)
		assert.Zero(t, got, "token %q", token)
	}

	got, err := ParseAmountOrSkip("42,10")
	require.NoError(t, err)
	assert.InDelta(t, 42.1, got, 1e-9)

	_, err = ParseAmountOrSkip("talvez")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseDueDay(t *testing.T) {
	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "1", want: 1},
		{input: "15", want: 15},
		{input: "31", want: 31},
		{input: "0", wantErr: true},
		{input: "32", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDueDay(tc.input)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDay)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTargetDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("future slash date", func(t *testing.T) {
		got := ParseTargetDate("25/12/2026", now)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("future iso date", func(t *testing.T) {
		got := ParseTargetDate("2027-01-01", now)
		require.NotNil(t, got)
		assert.Equal(t, 2027, got.Year())
	})

	t.Run("past date coerces to nil", func(t *testing.T) {
		assert.Nil(t, ParseTargetDate("09/03/2026", now))
	})

	t.Run("garbage coerces to nil", func(t *testing.T) {
		assert.Nil(t, ParseTargetDate("quando der", now))
	})

	t.Run("no deadline tokens", func(t *testing.T) {
		for _, token := range []string{"não", "nao", "n", "no", "sem prazo", "sem data", "indefinido"} {
			assert.Nil(t, ParseTargetDate(token, now), "token %q", token)
		}
	})
}

func TestParseWeekday(t *testing.T) {
	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "domingo", want: 0},
		{input: "Segunda-feira", want: 1},
		{input: "terça", want: 2},
		{input: "terca", want: 2},
		{input: "QUARTA", want: 3},
		{input: "quinta-feira", want: 4},
		{input: "sexta", want: 5},
		{input: "sábado", want: 6},
		{input: "Sábado/Domingo", want: 6},
		{input: "ontem", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseWeekday(tc.input)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	yes, err := ParseYesNo("Sim, quero!")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := ParseYesNo("não")
	require.NoError(t, err)
	assert.False(t, no)

	no, err = ParseYesNo("nao obrigado")
	require.NoError(t, err)
	assert.False(t, no)

	_, err = ParseYesNo("talvez")
	assert.ErrorIs(t, err, ErrAmbiguousAnswer)
}

func TestClampDay(t *testing.T) {
	assert.Equal(t, 1, ClampDay(0, 1, 31))
	assert.Equal(t, 31, ClampDay(45, 1, 31))
	assert.Equal(t, 15, ClampDay(15, 1, 31))
	assert.Equal(t, 6, ClampDay(9, 0, 6))
}
