package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncEventBus_DeliversEvents(t *testing.T) {
	bus := NewAsyncEventBus(2, nil)
	bus.Start()
	defer bus.Stop()

	var mu sync.Mutex
	var got []Event
	require.NoError(t, bus.Subscribe(EventLanguageChanged, func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}))

	for i := 0; i < 5; i++ {
		assert.True(t, bus.Emit(NewEvent(EventLanguageChanged, "42", LanguageChangedData{Language: "en"})))
	}
	bus.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 5)
	assert.Equal(t, "42", got[0].UserID)
	assert.Equal(t, EventLanguageChanged, got[0].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, LanguageChangedData{Language: "en"}, got[0].Data)
}

func TestAsyncEventBus_RecoversPanics(t *testing.T) {
	bus := NewAsyncEventBus(1, nil)
	bus.Start()
	defer bus.Stop()

	calls := 0
	require.NoError(t, bus.Subscribe(EventHealthAssessed, func(Event) {
		calls++
		panic("boom")
	}))
	bus.Emit(NewEvent(EventHealthAssessed, "1", nil))
	bus.Emit(NewEvent(EventHealthAssessed, "1", nil))
	bus.Flush()
	assert.Equal(t, 2, calls, "worker survives a panicking handler")
}

func TestAsyncEventBus_StopDrainsAndDropsLater(t *testing.T) {
	bus := NewAsyncEventBus(1, nil)
	var mu sync.Mutex
	handled := 0
	require.NoError(t, bus.Subscribe(EventPlantIdentified, func(Event) {
		mu.Lock()
		handled++
		mu.Unlock()
	}))

	// queued before the workers start
	for i := 0; i < 3; i++ {
		bus.Emit(NewEvent(EventPlantIdentified, "1", nil))
	}
	bus.Start()
	bus.Stop()
	bus.Stop()

	mu.Lock()
	assert.Equal(t, 3, handled)
	mu.Unlock()

	assert.False(t, bus.Emit(NewEvent(EventPlantIdentified, "1", nil)))
	assert.Equal(t, int64(1), bus.Dropped())
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(EventLocationShared, "1", LocationSharedData{})
	b := NewEvent(EventLocationShared, "1", LocationSharedData{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}
