package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBill(t *testing.T) {
	t.Run("creates bill", func(t *testing.T) {
		bill, err := NewBill("/uploads/1700000000000-x1y2z3.jpg", "  Cursor Pro 1 tháng ")
		require.NoError(t, err)
		assert.NotEmpty(t, bill.ID)
		assert.Equal(t, "Cursor Pro 1 tháng", bill.Description)
		assert.False(t, bill.CreatedAt.IsZero())
	})

	t.Run("description is optional", func(t *testing.T) {
		bill, err := NewBill("https://cdn.example.com/bill.png", "")
		require.NoError(t, err)
		assert.Empty(t, bill.Description)
	})

	t.Run("requires image url", func(t *testing.T) {
		_, err := NewBill("", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("rejects non http scheme", func(t *testing.T) {
		_, err := NewBill("javascript:alert(1)", "")
		assert.Error(t, err)
	})
}
