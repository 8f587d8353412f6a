package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	res "github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

func TestParseTimeQuery(t *testing.T) {
	t.Run("空值", func(t *testing.T) {
		got, err := ParseTimeQuery("from", " ", false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RFC3339 转为 UTC", func(t *testing.T) {
		got, err := ParseTimeQuery("from", "2024-03-01T10:00:00+02:00", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), *got)
	})

	t.Run("纯日期", func(t *testing.T) {
		got, err := ParseTimeQuery("from", "2024-03-01", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("纯日期作为结束时间包含当天", func(t *testing.T) {
		got, err := ParseTimeQuery("to", "2024-03-01", true)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), *got)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := ParseTimeQuery("to", "01/03/2024", true)
		assert.True(t, res.IsCode(err, res.InvalidParameter))
	})
}

func TestParseTimeRange(t *testing.T) {
	from, to, err := ParseTimeRange("2024-03-01", "2024-03-01")
	require.NoError(t, err)
	assert.True(t, from.Before(*to))

	_, _, err = ParseTimeRange("2024-03-02", "2024-03-01")
	assert.True(t, res.IsCode(err, res.InvalidParameter))
}
