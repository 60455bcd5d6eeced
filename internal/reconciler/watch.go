package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const leaveTimeout = 2 * time.Second

// WatchQuestion keeps a QuestionView current until ctx is done, calling
// onChange after the bootstrap and after every event that changed the view.
// It joins before fetching so nothing published in between is lost; events
// that the snapshot already contains are absorbed by Apply. The topic is left
// before returning.
func (c *Client) WatchQuestion(ctx context.Context, questionID bson.ObjectID, onChange func(*QuestionView)) error {
	topic := realtime.QuestionTopic(questionID.Hex())
	if err := c.Join(ctx, topic); err != nil {
		return err
	}
	defer c.leave(topic)

	snap, err := c.FetchQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	view := NewQuestionView(*snap)
	onChange(view)

	return c.pump(ctx, func(f Frame) (bool, error) {
		return view.Apply(f.Event, f.Data)
	}, func() { onChange(view) })
}

// WatchCollege is WatchQuestion for a college feed.
func (c *Client) WatchCollege(ctx context.Context, collegeID bson.ObjectID, limit int, onChange func(*CollegeFeed)) error {
	topic := realtime.CollegeTopic(collegeID.Hex())
	if err := c.Join(ctx, topic); err != nil {
		return err
	}
	defer c.leave(topic)

	qs, err := c.FetchCollege(ctx, collegeID, limit)
	if err != nil {
		return err
	}
	feed := NewCollegeFeed(collegeID, qs)
	onChange(feed)

	return c.pump(ctx, func(f Frame) (bool, error) {
		return feed.Apply(f.Event, f.Data)
	}, func() { onChange(feed) })
}

func (c *Client) pump(ctx context.Context, apply func(Frame) (bool, error), changed func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-c.events:
			if !ok {
				return errors.New("socket closed")
			}
			updated, err := apply(f)
			if err != nil {
				log.Warnf("reconciler: %v", err)
				continue
			}
			if updated {
				changed()
			}
		}
	}
}

func (c *Client) leave(topic realtime.Topic) {
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := c.Leave(ctx, topic); err != nil {
		log.Debugf("reconciler: leave %s: %v", topic, err)
	}
}
