package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/threat-notify/pkg/models/domain"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, msg domain.NotificationMessage) domain.DispatchResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(domain.DispatchResult)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, f domain.Finding) domain.Finding {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Finding)
}

func exampleEvent() events.CloudWatchEvent {
	return events.CloudWatchEvent{
		Version:    "0",
		DetailType: "GuardDuty Finding",
		Source:     "aws.guardduty",
		AccountID:  "123456789012",
		Region:     "us-east-1",
		Time:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Detail: json.RawMessage(`{
			"severity": 8,
			"type": "Backdoor:EC2/C&CActivity.B!DNS",
			"description": "EC2 instance communicating with a known command-and-control server.",
			"resource": {"resourceType": "Instance"}
		}`),
	}
}

func TestHandle_EndToEnd(t *testing.T) {
	dispatcher := new(mockDispatcher)

	var dispatched domain.NotificationMessage
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).(domain.NotificationMessage)
		}).
		Return(domain.DispatchResult{Delivered: true})

	h := NewHandler(Dependencies{Dispatcher: dispatcher}, 0)
	outcome, err := h.Handle(context.Background(), exampleEvent())

	require.NoError(t, err)
	assert.Equal(t, domain.InvocationOutcome{StatusCode: http.StatusOK}, outcome)
	assert.Contains(t, dispatched.Subject, "High")
	assert.Contains(t, dispatched.Body, "Backdoor:EC2/C&CActivity.B!DNS")
	assert.Contains(t, dispatched.Body, "123456789012")
}

func TestHandle_MalformedFindingNeverDispatches(t *testing.T) {
	dispatcher := new(mockDispatcher)

	event := exampleEvent()
	event.Detail = json.RawMessage(`{"type": "Backdoor:EC2/C&CActivity.B!DNS"}`)

	h := NewHandler(Dependencies{Dispatcher: dispatcher}, 0)
	outcome, err := h.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, outcome.StatusCode)
	assert.Contains(t, outcome.Detail, "detail.severity")
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandle_DispatchFailurePropagates(t *testing.T) {
	dispatcher := new(mockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).
		Return(domain.DispatchResult{
			Delivered:   false,
			ErrorDetail: "channel unavailable: topic does not exist",
		})

	h := NewHandler(Dependencies{Dispatcher: dispatcher}, 0)
	outcome, err := h.Handle(context.Background(), exampleEvent())

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, outcome.StatusCode)
	assert.Contains(t, outcome.Detail, "topic does not exist")
}

func TestHandle_SeverityThresholdSkips(t *testing.T) {
	dispatcher := new(mockDispatcher)

	event := exampleEvent()
	event.Detail = json.RawMessage(`{"severity": 2.5}`)

	h := NewHandler(Dependencies{Dispatcher: dispatcher}, 4)
	outcome, err := h.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Contains(t, outcome.Detail, "skipped")
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandle_EnricherRuns(t *testing.T) {
	dispatcher := new(mockDispatcher)
	enricher := new(mockEnricher)

	enricher.On("Enrich", mock.Anything, mock.Anything).
		Return(domain.Finding{
			Severity:     8,
			Type:         "Backdoor:EC2/C&CActivity.B!DNS",
			Description:  "EC2 instance communicating with a known command-and-control server.",
			ResourceID:   "i-0123456789abcdef0",
			ResourceName: "payments-api",
			AccountID:    "123456789012",
			Region:       "us-east-1",
			Timestamp:    "2024-01-01T00:00:00Z",
		})

	var dispatched domain.NotificationMessage
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).(domain.NotificationMessage)
		}).
		Return(domain.DispatchResult{Delivered: true})

	h := NewHandler(Dependencies{Dispatcher: dispatcher, Enricher: enricher}, 0)
	outcome, err := h.Handle(context.Background(), exampleEvent())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	enricher.AssertNumberOfCalls(t, "Enrich", 1)
	assert.Contains(t, dispatched.Body, "payments-api")
}
