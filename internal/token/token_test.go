package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		require.Equal(t, val, LookupIdentifier(key))
		// Keywords are case sensitive
		require.Equal(t, Type(IDENT), LookupIdentifier(strings.ToUpper(key)))
	}
	require.Equal(t, Type(IDENT), LookupIdentifier("main"))
	require.True(t, IsKeyword("where"))
	require.False(t, IsKeyword("main"))
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
	require.Equal(t, 4, tok.StartPosition.Advance(3).ColumnNumber())
	require.False(t, NoPos.IsValid())
}
