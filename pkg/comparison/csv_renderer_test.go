package comparison

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRendererImpl_Render(t *testing.T) {
	renderer := NewCsvRenderer()
	result := Result{
		Year:     2026,
		Month:    9,
		Currency: "EUR",
		Entries: []Entry{
			{CategoryName: "Groceries", TemplateLimit: money("400.00"), MonthLimit: money("450.00"), Difference: money("50.00"), PercentChange: money("12.50"), Status: StatusIncreased},
			{CategoryName: "Savings", TemplateLimit: money("200.00"), Difference: money("-200.00"), PercentChange: money("-100"), Status: StatusRemoved},
		},
		TotalTemplate:   money("600.00"),
		TotalMonth:      money("450.00"),
		TotalDifference: money("-150.00"),
	}

	csv, err := renderer.Render(result)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Category,Template,Month,Difference,Change %,Status", lines[0])
	assert.Equal(t, "Groceries,400.00,450.00,50.00,12.50,increased", lines[1])
	assert.Equal(t, "Savings,200.00,0.00,-200.00,-100.00,removed", lines[2])
	assert.Equal(t, "TOTAL,600.00,450.00,-150.00,,", lines[3])
}
