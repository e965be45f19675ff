package qlog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestConnectionTracerProducesValidQlogDocument(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewConnectionTracer(nopWriteCloser{&buf}, protocol.PerspectiveClient, protocol.ConnectionID{1, 2, 3, 4})

	tracer.OnPacketSent("Initial", 0, 1200, "normal", true)
	tracer.OnPacketsCoalesced(2, 1350, 1200)
	tracer.OnPacketDropped("Handshake", "key_unavailable")
	tracer.OnMTUProbeSent(1400)

	require.NoError(t, tracer.Close())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "0.3", doc["qlog_version"])

	trace, ok := doc["trace"].(map[string]any)
	require.True(t, ok)
	vp, ok := trace["vantage_point"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "client", vp["type"])

	events, ok := trace["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 4)

	first, ok := events[0].([]any)
	require.True(t, ok)
	require.Equal(t, "transport", first[1])
	require.Equal(t, "packet_sent", first[2])
}

func TestConnectionTracerEmptyTraceIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewConnectionTracer(nopWriteCloser{&buf}, protocol.PerspectiveServer, protocol.ConnectionID{})
	require.NoError(t, tracer.Close())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	trace := doc["trace"].(map[string]any)
	require.Empty(t, trace["events"])
}
