package idx

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = New().String()
	}

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	require.Equal(t, sorted, ids, "IDs minted in sequence should sort in issuance order")
}

func TestNewAt(t *testing.T) {
	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	a := NewAt(earlier)
	b := NewAt(later)

	require.Less(t, a.String(), b.String())
	require.WithinDuration(t, earlier, a.Time(), time.Millisecond)
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestIsZero(t *testing.T) {
	require.True(t, Zero.IsZero())
	require.False(t, New().IsZero())
}
