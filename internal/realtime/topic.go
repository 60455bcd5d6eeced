package realtime

import "strings"

// Topic is an opaque room key. Two namespaces exist, told apart only by prefix.
type Topic string

const (
	collegePrefix  = "college-"
	questionPrefix = "question-"
)

func CollegeTopic(collegeID string) Topic   { return Topic(collegePrefix + collegeID) }
func QuestionTopic(questionID string) Topic { return Topic(questionPrefix + questionID) }

func (t Topic) IsCollege() bool  { return strings.HasPrefix(string(t), collegePrefix) }
func (t Topic) IsQuestion() bool { return strings.HasPrefix(string(t), questionPrefix) }

// Server -> client events.
const (
	EventNewAnswer          = "new-answer"
	EventAnswerUpdated      = "answer-updated"
	EventAnswerDeleted      = "answer-deleted"
	EventAnswerLikesUpdated = "answer-likes-updated"
	EventAnswerAccepted     = "answer-accepted"
	EventNewComment         = "new-comment"
	EventLikesUpdated       = "likes-updated"

	EventNewQuestion     = "new-question"
	EventQuestionUpdated = "question-updated"
	EventQuestionDeleted = "question-deleted"

	// control frames, sent to one connection only
	EventJoined = "joined"
	EventLeft   = "left"
	EventError  = "error"
)

// Client -> server events.
const (
	EventJoinCollege   = "join-college"
	EventLeaveCollege  = "leave-college"
	EventJoinQuestion  = "join-question"
	EventLeaveQuestion = "leave-question"
)

// Envelope is the wire frame in both directions.
type Envelope[T any] struct {
	Event string `json:"event"`
	Data  T      `json:"data"`
}
