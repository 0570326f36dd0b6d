package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryBackend struct {
	data    []byte
	saveErr error
	loadErr error
	saves   int
}

func (m *memoryBackend) Load(context.Context) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, ErrNotFound
	}
	return m.data, nil
}

func (m *memoryBackend) Save(_ context.Context, data []byte) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = data
	return nil
}

func TestPersistentStartsEmptyWhenNothingStored(t *testing.T) {
	p := NewPersistent[string](&memoryBackend{}, zap.NewNop())
	assert.Empty(t, p.Get())
}

func TestPersistentRoundTrip(t *testing.T) {
	backend := &memoryBackend{}

	p := NewPersistent[string](backend, zap.NewNop())
	p.SetKey("a", "x")
	p.SetKey("b", "y")
	p.DeleteKey("a")

	reloaded := NewPersistent[string](backend, zap.NewNop())
	assert.Equal(t, map[string]string{"b": "y"}, reloaded.Get())
}

func TestPersistentCorruptPayloadFailsOpen(t *testing.T) {
	backend := &memoryBackend{data: []byte("{not json")}

	var p *Persistent[string]
	assert.NotPanics(t, func() {
		p = NewPersistent[string](backend, zap.NewNop())
	})
	assert.Empty(t, p.Get())
}

func TestPersistentLoadErrorFailsOpen(t *testing.T) {
	backend := &memoryBackend{loadErr: errors.New("disk on fire")}
	p := NewPersistent[string](backend, zap.NewNop())
	assert.Empty(t, p.Get())
}

func TestPersistentSaveErrorDoesNotLoseInMemoryWrite(t *testing.T) {
	backend := &memoryBackend{saveErr: errors.New("disk full")}
	p := NewPersistent[string](backend, zap.NewNop())

	p.SetKey("a", "x")

	v, ok := p.GetKey("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestPersistentPersistsBeforeNotifying(t *testing.T) {
	backend := &memoryBackend{}
	p := NewPersistent[string](backend, zap.NewNop())

	var savesAtNotify int
	p.Subscribe(func(map[string]string) {
		savesAtNotify = backend.saves
	})

	p.SetKey("a", "x")
	assert.Equal(t, 1, savesAtNotify)
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	backend := NewFileBackend(path)

	_, err := backend.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Save(context.Background(), []byte(`{"a":1}`)))

	data, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	// No torn temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
