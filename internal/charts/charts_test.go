package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granabot/grana-bot/internal/domain"
)

func TestRenderer_MonthlyDashboardProducesPNG(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		{Kind: "income", Amount: 2500, Date: now.AddDate(0, 0, -9)},
		{Kind: "expense", Amount: 120, Date: now.AddDate(0, 0, -5)},
		{Kind: "expense", Amount: 80, Date: now.AddDate(0, 0, -2)},
	}

	png, err := NewRenderer().MonthlyDashboard(transactions, now)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic header.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderer_MonthlyDashboardNoDataReturnsNil(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	png, err := NewRenderer().MonthlyDashboard(nil, now)
	require.NoError(t, err)
	assert.Nil(t, png)

	// Transactions outside the window do not count either.
	old := []domain.Transaction{{Kind: "expense", Amount: 10, Date: now.AddDate(0, -6, 0)}}
	png, err = NewRenderer().MonthlyDashboard(old, now)
	require.NoError(t, err)
	assert.Nil(t, png)
}

func TestRenderer_CategoryBars(t *testing.T) {
	png, err := NewRenderer().CategoryBars(map[string]float64{
		"Moradia":     1200,
		"Alimentação": 600,
	})
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	empty, err := NewRenderer().CategoryBars(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
