package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDictionaryStore(t *testing.T) {
	store, err := NewDictionaryStore(nil, "", "degrees")
	require.NoError(t, err)
	assert.Equal(t, "postgres:canonical_dictionaries/degrees", store.Name())

	store, err = NewDictionaryStore(nil, "hr.dictionaries", "eligibilities")
	require.NoError(t, err)
	assert.Equal(t, "postgres:hr.dictionaries/eligibilities", store.Name())

	_, err = NewDictionaryStore(nil, "dictionaries; DROP TABLE x", "degrees")
	assert.Error(t, err)

	_, err = NewDictionaryStore(nil, "", "")
	assert.Error(t, err)
}

func TestDictionaryStore_NotConnected(t *testing.T) {
	store, err := NewDictionaryStore(&DB{}, "", "degrees")
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}
