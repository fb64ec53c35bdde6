package ids

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockStrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	c := NewClock(func() time.Time { return frozen })

	var prev int64
	for i := 0; i < 100; i++ {
		id, err := strconv.ParseInt(c.NewID(), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, frozen.UnixMilli()+99, prev)
}

func TestClockFollowsTime(t *testing.T) {
	now := time.UnixMilli(1000)
	c := NewClock(func() time.Time { return now })
	assert.Equal(t, "1000", c.NewID())
	now = now.Add(5 * time.Second)
	assert.Equal(t, "6000", c.NewID())
	// Clock going backwards still yields a larger id
	now = time.UnixMilli(10)
	assert.Equal(t, "6001", c.NewID())
}

func TestClockConcurrentUnique(t *testing.T) {
	c := NewClock(nil)
	const workers, perWorker = 8, 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := c.NewID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestUUIDGenerator(t *testing.T) {
	g, err := New(UUIDStrategy)
	require.NoError(t, err)

	a, b := g.NewID(), g.NewID()
	assert.NotEqual(t, a, b)
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestNewStrategy(t *testing.T) {
	g, err := New(ClockStrategy)
	require.NoError(t, err)
	assert.IsType(t, &Clock{}, g)

	_, err = New("sequence")
	assert.Error(t, err)
	assert.False(t, Strategy("sequence").IsValid())
	assert.ElementsMatch(t, []string{"clock", "uuid"}, Strategies())
}
