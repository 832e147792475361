package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"moviehub/internal/events"
)

// Message protocol pushed to live feed subscribers. The server only writes;
// anything a client sends is discarded.

type MessageType string

const (
	TypeMovieRated     MessageType = "movie_rated"
	TypeReviewUpserted MessageType = "review_upserted"
)

// public fields copied from event properties, per message type
var publicProps = map[MessageType][]string{
	TypeMovieRated:     {"rating_count", "average_rating"},
	TypeReviewUpserted: {"is_spoiler"},
}

type Message struct {
	Type      MessageType    `json:"type"`
	MovieID   string         `json:"movieId"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// MessageFromEvent turns a published event envelope into a feed message.
// It returns nil for events the feed does not carry.
func MessageFromEvent(data []byte) (*Message, error) {
	var ev events.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	msgType := MessageType(ev.EventName)
	keys, ok := publicProps[msgType]
	if !ok {
		return nil, nil
	}
	movieID, _ := ev.Properties["movie_id"].(string)
	if movieID == "" {
		return nil, nil
	}

	msg := &Message{
		Type:      msgType,
		MovieID:   movieID,
		Data:      make(map[string]any, len(keys)),
		Timestamp: ev.OccurredAt,
	}
	// ratings stay anonymous, reviews are signed anyway
	if msgType == TypeReviewUpserted {
		msg.UserID = ev.UserID
	}
	for _, k := range keys {
		if v, ok := ev.Properties[k]; ok {
			msg.Data[k] = v
		}
	}
	return msg, nil
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
