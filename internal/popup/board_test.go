package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, b.OpenKinds())

	require.NoError(t, b.Open(LoanReminder))
	require.NoError(t, b.Open(BudgetAlert))
	require.NoError(t, b.Open(BudgetAlert))
	assert.True(t, b.IsOpen(BudgetAlert))
	assert.Equal(t, []Kind{BudgetAlert, LoanReminder}, b.OpenKinds())

	b.Close(BudgetAlert)
	b.Close(BudgetAlert)
	assert.False(t, b.IsOpen(BudgetAlert))
	assert.Equal(t, []Kind{LoanReminder}, b.OpenKinds())
}

func TestBoard_UnknownKind(t *testing.T) {
	b := NewBoard()
	assert.ErrorIs(t, b.Open("fireworks"), ErrUnknownKind)
	assert.Empty(t, b.OpenKinds())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Insights")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBoard_CloseAll(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Open(Insights))
	require.NoError(t, b.Open(GoalAchieved))

	b.CloseAll()
	assert.Empty(t, b.OpenKinds())
	assert.False(t, b.IsOpen(Insights))
}
