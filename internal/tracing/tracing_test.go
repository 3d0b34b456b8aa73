package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/rshade/loandash/internal/tracing"
)

func TestInitTracer_InProcess(t *testing.T) {
	ctx := context.Background()

	shutdown, err := tracing.InitTracer(ctx, "loandash-test", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := otel.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(ctx))
}
