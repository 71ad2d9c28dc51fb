package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	start := time.Date(2026, 6, 15, 5, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	m := NewManual(start)

	assert.Equal(t, time.UTC, m.Now().Location())
	assert.True(t, m.Now().Equal(start))

	assert.True(t, m.Advance(time.Hour).Equal(start.Add(time.Hour)))
	assert.True(t, m.Now().Equal(start.Add(time.Hour)))

	m.Set(start.AddDate(0, 1, 0))
	assert.Equal(t, time.July, m.Now().Month())
}

func TestManual_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Advance(time.Second)
			_ = m.Now()
		}()
	}
	wg.Wait()

	assert.True(t, m.Now().Equal(start.Add(50*time.Second)))
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}
