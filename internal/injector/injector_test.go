package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mesim/internal/config"
)

func TestInitializeAppWiresController(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	app := InitializeApp(cfg)

	require.NotNil(t, app.Controller)
	require.NoError(t, app.Controller.Err())
	require.NotNil(t, app.Controller.Controlled())
	assert.NotNil(t, app.Hub)

	require.NoError(t, app.Controller.Tick(1.0/60))
	assert.True(t, app.Controller.Snapshot().Floor.CurrentlyDetected, "the sandbox floor is visible at the viewport center")

	app.Floor.SetVisible(false)
	require.NoError(t, app.Controller.Tick(1.0/60))
	assert.False(t, app.Controller.Snapshot().Floor.CurrentlyDetected)
}
