package circular

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	seq := []byte("ACGTNACG")
	qual := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	left, right, err := Partition(seq, qual, 5, false)
	assert.NoError(t, err)
	assert.Equal(t, "ACGTN", string(left.Seq))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, left.Qual)
	assert.Equal(t, "ACG", string(right.Seq))
	assert.Equal(t, []byte{6, 7, 8}, right.Qual)
	assert.Equal(t, 5, left.Len())
	assert.Equal(t, 3, right.Len())

	// Appending to the left half must not clobber the right half.
	_ = append(left.Seq, 'X')
	assert.Equal(t, "ACG", string(right.Seq))

	left, right, err = Partition(seq, qual, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, left.Len())
	assert.Equal(t, 8, right.Len())

	left, right, err = Partition(seq, qual, 8, false)
	assert.NoError(t, err)
	assert.Equal(t, 8, left.Len())
	assert.Equal(t, 0, right.Len())
}

func TestPartitionSecondaryWithoutPayload(t *testing.T) {
	left, right, err := Partition(nil, nil, 40, true)
	assert.NoError(t, err)
	assert.Equal(t, 0, left.Len())
	assert.Equal(t, 0, right.Len())
	assert.Empty(t, left.Qual)
	assert.Empty(t, right.Qual)
}

func TestPartitionErrors(t *testing.T) {
	for _, test := range []struct {
		name      string
		seq, qual []byte
		cut       int
		secondary bool
	}{
		{"empty primary", nil, nil, 0, false},
		{"qualities without sequence", nil, []byte{1, 2}, 1, true},
		{"sequence without qualities", []byte("AC"), nil, 1, false},
		{"length mismatch", []byte("ACG"), []byte{1, 2}, 1, false},
		{"cut past end", []byte("AC"), []byte{1, 2}, 3, false},
		{"negative cut", []byte("AC"), []byte{1, 2}, -1, false},
	} {
		_, _, err := Partition(test.seq, test.qual, test.cut, test.secondary)
		assert.Error(t, err, test.name)
		assert.True(t, errors.Is(errors.Precondition, err), test.name)
	}
}
