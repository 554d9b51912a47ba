package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	t.Run("decimals travel as strings", func(t *testing.T) {
		b, err := c.Marshal(&RecordExpenseRequest{GroupID: "g1", Amount: decimal.RequireFromString("150.50"), Pool: "HAND"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"group_id":"g1","amount":"150.5","pool":"HAND"}`, string(b))

		var got RecordExpenseRequest
		require.NoError(t, c.Unmarshal(b, &got))
		assert.Equal(t, "150.50", got.Amount.StringFixed(2))
	})

	t.Run("empty body decodes to the zero message", func(t *testing.T) {
		var got ListGroupsRequest
		assert.NoError(t, c.Unmarshal(nil, &got))
	})

	t.Run("malformed body", func(t *testing.T) {
		var got GetGroupRequest
		assert.Error(t, c.Unmarshal([]byte(`{"group_id":`), &got))
	})
}
