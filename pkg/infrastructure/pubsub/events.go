package pubsub

import (
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// NewCloudEvent builds a JSON CloudEvent v1.0. subject names the run the
// event is about and is omitted when empty.
func NewCloudEvent(source, eventType, subject string, data interface{}) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSpecVersion(cloudevents.VersionV1)
	e.SetType(eventType)
	e.SetSource(source)
	if subject != "" {
		e.SetSubject(subject)
	}

	if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return e, err
	}

	return e, nil
}
