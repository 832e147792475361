package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	conn := &recordingConn{}
	p := NewPublisher(conn, zap.NewNop())

	p.Publish(SubjectMovieRated, "movie_rated", "user-1", map[string]any{"value": 4})

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, SubjectMovieRated, conn.subjects[0])

	var ev Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "movie_rated", ev.EventName)
	assert.Equal(t, "user-1", ev.UserID)
	assert.EqualValues(t, 4, ev.Properties["value"])
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish(SubjectWishlistAdded, "wishlist_added", "", nil)
	})

	assert.NotPanics(t, func() {
		NewPublisher(nil, nil).Publish(SubjectWishlistAdded, "wishlist_added", "", nil)
	})
}

func TestPublisher_FailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewPublisher(&recordingConn{err: errors.New("connection closed")}, zap.New(core))

	p.Publish(SubjectReviewUpserted, "review_upserted", "user-1", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "events: publish failed", logs.All()[0].Message)
}

func TestFanout_PublishesToEveryConn(t *testing.T) {
	failing := &recordingConn{err: errors.New("nats down")}
	healthy := &recordingConn{}

	err := Fanout{failing, healthy}.Publish(SubjectReviewUpserted, []byte("{}"))

	assert.ErrorContains(t, err, "nats down")
	assert.Equal(t, []string{SubjectReviewUpserted}, healthy.subjects)
	assert.NoError(t, Fanout{}.Publish(SubjectReviewUpserted, nil))
}
