package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/shared/config"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
