package cursor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestCursorRoundTripKeepsMillisecondPosition(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)
	id := bson.NewObjectID()

	gotT, gotID, err := DecodeCursor(EncodeCursor(now, id))
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Millisecond), gotT)
	assert.Equal(t, id, gotID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, _, err := DecodeCursor("not-base64!!")
	assert.Error(t, err)
}

func TestBefore(t *testing.T) {
	t0 := time.Now().UTC()
	a, b := bson.NewObjectID(), bson.NewObjectID() // b was generated later, sorts higher

	assert.True(t, Before(t0.Add(-time.Second), b, t0, a))
	assert.False(t, Before(t0.Add(time.Second), a, t0, b))
	assert.True(t, Before(t0, a, t0, b))
	assert.False(t, Before(t0, b, t0, b))
}
