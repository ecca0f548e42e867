package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_MarshalJSON_UpdatedAt(t *testing.T) {
	t.Run("loading snapshot has no timestamp", func(t *testing.T) {
		data, err := json.Marshal(LoadingSnapshot("octocat"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "updated_at")
		assert.NotContains(t, string(data), "0001-01-01")
	})

	t.Run("completed cycle carries its timestamp", func(t *testing.T) {
		snap := Snapshot{UserID: "octocat", Status: StatusReady, UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
		data, err := json.Marshal(snap)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"updated_at":"2024-05-01T12:00:00Z"`)
	})
}
