// SPDX-License-Identifier: EPL-2.0

package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/ik5/progsnd/internal/telemetry"
)

func TestSetup_NoopWhenDisabled(t *testing.T) {
	var buf bytes.Buffer

	shutdown, err := telemetry.Setup(context.Background(), false, &buf, "test-service")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestSetup_ExportsSpansOnShutdown(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer

	shutdown, err := telemetry.Setup(context.Background(), true, &buf, "progsnd-test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "resolve")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"resolve"`)
	assert.Contains(t, buf.String(), "progsnd-test")
}
