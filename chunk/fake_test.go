package chunk

import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func TestFakeAcquireRelease(t *testing.T) {
	f := NewFake()
	ptr, err := f.Acquire(Size)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	acquired, released := f.Counts()
	require.Equal(t, int64(1), acquired)
	require.Equal(t, int64(0), released)

	f.Release(ptr, Size)
	acquired, released = f.Counts()
	require.Equal(t, int64(1), acquired)
	require.Equal(t, int64(1), released)
}

func TestFakeFailAfter(t *testing.T) {
	f := NewFake()
	f.FailAfter(1)

	_, err := f.Acquire(Size)
	require.NoError(t, err)

	_, err = f.Acquire(Size)
	require.Error(t, err)
}

func TestFakeReleaseUnknown(t *testing.T) {
	f := NewFake()
	defer func() {
		require.NotNil(t, recover())
	}()
	f.Release(unsafe.Pointer(&struct{}{}), Size)
}

func TestFakeWritable(t *testing.T) {
	f := NewFake()
	ptr, err := f.Acquire(Size)
	require.NoError(t, err)

	b := unsafe.Slice((*byte)(ptr), Size)
	for i := range b {
		require.Equal(t, byte(0), b[i])
	}
	b[0] = 0xAB
	require.Equal(t, byte(0xAB), b[0])
}
