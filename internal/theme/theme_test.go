package theme

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultsToDark(t *testing.T) {
	s := NewStore(NewMemoryKV())

	got, err := s.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, got)
}

func TestToggleFlipsAndPersists(t *testing.T) {
	kv := NewMemoryKV()
	s := NewStore(kv)
	ctx := context.Background()

	got, err := s.Toggle(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, Light, got)

	raw, err := kv.Get(ctx, "woven-africa-theme:v1")
	require.NoError(t, err)
	assert.Equal(t, "light", raw)

	got, err = s.Toggle(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	cur, err := s.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, cur)
}

func TestVisitorsAreIndependent(t *testing.T) {
	s := NewStore(NewMemoryKV())
	ctx := context.Background()

	_, err := s.Toggle(ctx, "a")
	require.NoError(t, err)

	a, _ := s.Get(ctx, "a")
	b, _ := s.Get(ctx, "b")
	assert.Equal(t, Light, a)
	assert.Equal(t, Dark, b)
}

func TestInvalidStoredValueFallsBack(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), "woven-africa-theme:v1", "sepia"))
	s := NewStore(kv)

	got, err := s.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	got, err = s.Toggle(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, Light, got)
}

type brokenKV struct{}

var errDown = errors.New("down")

func (brokenKV) Get(context.Context, string) (string, error) { return "", errDown }
func (brokenKV) Set(context.Context, string, string) error   { return errDown }

func TestBackendErrorsSurface(t *testing.T) {
	s := NewStore(brokenKV{})

	got, err := s.Get(context.Background(), "v1")
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, Dark, got)

	_, err = s.Toggle(context.Background(), "v1")
	assert.ErrorIs(t, err, errDown)
}

func TestConcurrentTogglesAreSerialized(t *testing.T) {
	s := NewStore(NewMemoryKV())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Toggle(ctx, "v1")
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, got)
}
