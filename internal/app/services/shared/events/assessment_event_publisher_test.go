package events

import (
	"context"
	"errors"
	"supervision-service/internal/app/models"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	declared   string
	published  []amqp.Publishing
	confirms   chan amqp.Confirmation
	ack        bool
	publishErr error
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = name
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) Confirm(noWait bool) error {
	return nil
}

func (c *fakeChannel) NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation {
	c.confirms = confirm
	return confirm
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, msg)
	c.confirms <- amqp.Confirmation{DeliveryTag: uint64(len(c.published)), Ack: c.ack}
	return nil
}

func submittedEvent() *models.AssessmentSubmittedEvent {
	return &models.AssessmentSubmittedEvent{
		EventType:           "assessment.submitted",
		SessionID:           "session-1",
		SubjectID:           "subject-1",
		AssessmentType:      "ORAS",
		TotalScore:          12,
		CalculatedRiskLevel: "Medium",
		FinalRiskLevel:      "High",
		Overridden:          true,
		OverrideReason:      "recent violation",
		SubmittedAt:         time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublishAssessmentSubmitted(t *testing.T) {
	t.Run("Publishes Persistent JSON", func(t *testing.T) {
		channel := &fakeChannel{ack: true}
		publisher, err := NewPublisher(channel, zap.NewNop(), "assessment_submitted_queue")
		require.NoError(t, err)
		assert.Equal(t, "assessment_submitted_queue", channel.declared)

		require.NoError(t, publisher.PublishAssessmentSubmitted(context.Background(), submittedEvent()))

		require.Len(t, channel.published, 1)
		msg := channel.published[0]
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "assessment.submitted", msg.Type)

		var decoded models.AssessmentSubmittedEvent
		require.NoError(t, json.Unmarshal(msg.Body, &decoded))
		assert.Equal(t, "High", decoded.FinalRiskLevel)
		assert.True(t, decoded.Overridden)
	})

	t.Run("Nack Is An Error", func(t *testing.T) {
		channel := &fakeChannel{ack: false}
		publisher, err := NewPublisher(channel, zap.NewNop(), "assessment_submitted_queue")
		require.NoError(t, err)

		assert.Error(t, publisher.PublishAssessmentSubmitted(context.Background(), submittedEvent()))
	})

	t.Run("Publish Failure", func(t *testing.T) {
		channel := &fakeChannel{publishErr: errors.New("channel closed")}
		publisher, err := NewPublisher(channel, zap.NewNop(), "assessment_submitted_queue")
		require.NoError(t, err)

		assert.Error(t, publisher.PublishAssessmentSubmitted(context.Background(), submittedEvent()))
	})
}
