package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	offset, take, err := window(3, 5)
	require.NoError(t, err)
	require.Equal(t, 10, offset)
	require.Equal(t, 5, take)

	_, _, err = window(0, 5)
	require.Error(t, err)

	_, _, err = window(1, 0)
	require.Error(t, err)

	_, _, err = window(1, -3)
	require.Error(t, err)
}

func TestNewMeta(t *testing.T) {
	meta := newMeta(11, 3, 5)
	require.Equal(t, int64(11), meta.Total)
	require.Equal(t, 3, meta.Page)
	require.Equal(t, 3, meta.LastPage)

	require.Equal(t, 0, newMeta(0, 1, 10).LastPage)
	require.Equal(t, 1, newMeta(10, 1, 10).LastPage)
	require.Equal(t, 2, newMeta(11, 1, 10).LastPage)
}
