package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutputCreatesMissingDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "notifications", "live")
	out := NewFileOutput(basePath)
	defer out.Close()

	require.NoError(t, out.WriteMessage("order_status_events", []byte(`{"to":"PLACED"}`)))
	require.NoError(t, out.WriteMessage("order_status_events", []byte(`{"to":"ARRIVED"}`)))

	data, err := os.ReadFile(filepath.Join(basePath, "order_status_events.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "{\"to\":\"PLACED\"}\n{\"to\":\"ARRIVED\"}\n", string(data))
}
