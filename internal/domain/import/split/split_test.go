package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for raw, want := range map[string]Type{
		"EQUAL":      Equal,
		"percentage": Percentage,
		" Shares ":   Shares,
		"exact":      Exact,
	} {
		got, ok := ParseType(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := ParseType("EVEN")
	assert.False(t, ok)
}

func TestParseParticipants_Equal(t *testing.T) {
	t.Run("bare identifiers accepted", func(t *testing.T) {
		res := ParseParticipants("alice@example.com, bob@example.com", Equal, decimal.Zero, false)
		require.True(t, res.Valid())
		require.Len(t, res.Participants, 2)
		assert.Equal(t, "alice@example.com", res.Participants[0].Email)
		assert.False(t, res.Participants[0].HasValue)
	})

	t.Run("numeric suffix rejected", func(t *testing.T) {
		res := ParseParticipants("alice@example.com:50", Equal, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "EQUAL")
	})
}

func TestParseParticipants_Percentage(t *testing.T) {
	t.Run("sum of 100 is valid", func(t *testing.T) {
		res := ParseParticipants("a:30,b:70", Percentage, decimal.Zero, false)
		assert.True(t, res.Valid())
	})

	t.Run("sum mismatch produces exactly one error", func(t *testing.T) {
		res := ParseParticipants("a:30,b:60", Percentage, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "sum to 100")
	})

	t.Run("decimal thirds sum exactly", func(t *testing.T) {
		// 33.33 + 33.33 + 33.34 = 100 with decimal arithmetic; no epsilon
		// is needed.
		res := ParseParticipants("a:33.33,b:33.33,c:33.34", Percentage, decimal.Zero, false)
		assert.True(t, res.Valid())
	})

	t.Run("short decimal thirds still fail", func(t *testing.T) {
		res := ParseParticipants("a:33.33,b:33.33,c:33.33", Percentage, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
	})
}

func TestParseParticipants_Exact(t *testing.T) {
	total := decimal.NewFromInt(100000)

	t.Run("conserved sum is valid", func(t *testing.T) {
		res := ParseParticipants("a:50000,b:50000", Exact, total, true)
		assert.True(t, res.Valid())
	})

	t.Run("short sum is invalid", func(t *testing.T) {
		res := ParseParticipants("a:50000,b:40000", Exact, total, true)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "sum to 100000")
	})

	t.Run("unknown total validates shape only", func(t *testing.T) {
		res := ParseParticipants("a:50000,b:40000", Exact, decimal.Zero, false)
		assert.True(t, res.Valid())
	})
}

func TestParseParticipants_Shares(t *testing.T) {
	t.Run("positive integers, no sum constraint", func(t *testing.T) {
		res := ParseParticipants("a:2,b:1,c:7", Shares, decimal.Zero, false)
		assert.True(t, res.Valid())
	})

	t.Run("fractional share rejected", func(t *testing.T) {
		res := ParseParticipants("a:1.5,b:1", Shares, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "positive whole number")
	})

	t.Run("zero and negative shares rejected", func(t *testing.T) {
		res := ParseParticipants("a:0,b:-2", Shares, decimal.Zero, false)
		assert.Len(t, res.Errors, 2)
	})
}

func TestParseParticipants_MalformedEntries(t *testing.T) {
	t.Run("entry without value in value mode", func(t *testing.T) {
		res := ParseParticipants("alice@example.com", Percentage, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "alice@example.com")
	})

	t.Run("entry with non-numeric value", func(t *testing.T) {
		res := ParseParticipants("a:lots", Exact, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], `"a:lots"`)
	})

	t.Run("entry missing identifier", func(t *testing.T) {
		res := ParseParticipants(":30,b:70", Percentage, decimal.Zero, false)
		require.Len(t, res.Errors, 1)
	})

	t.Run("empty entry between commas", func(t *testing.T) {
		res := ParseParticipants("a:50,,b:50", Exact, decimal.NewFromInt(100), true)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "empty entry")
	})

	t.Run("arithmetic checks skipped while entries fail to parse", func(t *testing.T) {
		res := ParseParticipants("a:nope,b:60", Percentage, decimal.Zero, false)
		require.Len(t, res.Errors, 1) // parse error only, no sum error
	})
}
