package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for key, val := range keywords {
		require.Equal(t, val, LookupIdentifier(key), key)
		// Keywords are case sensitive.
		require.Equal(t, IDENT, LookupIdentifier(strings.ToUpper(key)), key)
	}
	require.Equal(t, IDENT, LookupIdentifier("mstore"))
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:          IDENT,
		Literal:       "foo",
		StartPosition: Position{Line: 2, Column: 0},
	}
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
}
