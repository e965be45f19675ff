package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFateStringCoversEveryValue(t *testing.T) {
	cases := map[Fate]string{
		FateSend:        "send",
		FateBuffer:      "buffer",
		FateCoalesce:    "coalesce",
		FateEncapsulate: "encapsulate",
		FateDiscard:     "discard",
	}
	for fate, want := range cases {
		require.Equal(t, want, fate.String())
	}
}

func TestFateStringUnknownValue(t *testing.T) {
	require.Equal(t, "invalid fate", Fate(200).String())
}
