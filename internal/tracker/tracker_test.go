package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Netobs/internal/domain"
	"github.com/shaiso/Netobs/internal/mq"
)

type fakeJobs struct {
	status map[uuid.UUID]domain.JobStatus
	notes  map[uuid.UUID]string
	err    error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		status: make(map[uuid.UUID]domain.JobStatus),
		notes:  make(map[uuid.UUID]string),
	}
}

func (f *fakeJobs) UpdateStatus(_ context.Context, id uuid.UUID, s domain.JobStatus) error {
	if f.err != nil {
		return f.err
	}
	f.status[id] = s
	return nil
}

func (f *fakeJobs) UpdateNotes(_ context.Context, id uuid.UUID, n string) error {
	if f.err != nil {
		return f.err
	}
	f.notes[id] = n
	return nil
}

type fakeEvents struct {
	stored []domain.EventMetaData
}

func (f *fakeEvents) InsertEventMetaData(_ context.Context, ev *domain.EventMetaData) (int64, error) {
	f.stored = append(f.stored, *ev)
	return int64(len(f.stored)), nil
}

func newService(t *testing.T) (*Service, *fakeJobs, *fakeEvents) {
	t.Helper()
	jobs := newFakeJobs()
	events := &fakeEvents{}
	s, err := New(Config{Jobs: jobs, Events: events})
	if err != nil {
		t.Fatal(err)
	}
	return s, jobs, events
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		state mq.ProcessingState
		want  domain.JobStatus
		ok    bool
	}{
		{mq.StateIngested, domain.JobStatusInProgress, true},
		{mq.StateValidated, domain.JobStatusInProgress, true},
		{mq.StateProcessing, domain.JobStatusInProgress, true},
		{mq.StatePcapProcessed, domain.JobStatusInProgress, true},
		{mq.StateEventProcessed, domain.JobStatusInProgress, true},
		{mq.StateNOStatsCreated, domain.JobStatusCompleted, true},
		{mq.ProcessingState(99), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			got, ok := StatusFor(tt.state)
			if got != tt.want || ok != tt.ok {
				t.Errorf("expected %s/%v, got %s/%v", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestHandleState(t *testing.T) {
	s, jobs, _ := newService(t)
	id := uuid.New()

	err := s.HandleState(context.Background(), &mq.RabbitMQMessage{JobID: id.String(), State: mq.StateNOStatsCreated})
	if err != nil {
		t.Fatalf("HandleState: %v", err)
	}
	if jobs.status[id] != domain.JobStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", jobs.status[id])
	}
	if _, ok := jobs.notes[id]; ok {
		t.Error("notes should not change")
	}
}

func TestHandleState_UnknownState(t *testing.T) {
	s, jobs, _ := newService(t)
	id := uuid.New()

	err := s.HandleState(context.Background(), &mq.RabbitMQMessage{JobID: id.String(), State: mq.ProcessingState(42)})
	if err != nil {
		t.Fatalf("HandleState: %v", err)
	}
	if jobs.status[id] != domain.JobStatusFailed {
		t.Errorf("expected FAILED, got %s", jobs.status[id])
	}
	if jobs.notes[id] == "" {
		t.Error("notes should explain the failure")
	}
}

func TestHandleState_Errors(t *testing.T) {
	s, jobs, _ := newService(t)

	if err := s.HandleState(context.Background(), &mq.RabbitMQMessage{JobID: "not-a-uuid"}); err == nil {
		t.Error("expected error for bad job id")
	}
	if err := s.HandleState(context.Background(), nil); err != nil {
		t.Errorf("nil message should be ignored, got %v", err)
	}

	jobs.err = errors.New("db down")
	if err := s.HandleState(context.Background(), &mq.RabbitMQMessage{JobID: uuid.NewString()}); !errors.Is(err, jobs.err) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestHandleEventMetaData(t *testing.T) {
	s, _, events := newService(t)
	ctx := context.Background()

	err := s.HandleEventMetaData(ctx, &mq.EventMetaDataMessage{
		JulianDay: "45", Ready: "true", ReProcess: "false", IntervalInSeconds: "900",
	})
	if err != nil {
		t.Fatalf("HandleEventMetaData: %v", err)
	}

	// Некорректное сообщение пропускается без ошибки
	err = s.HandleEventMetaData(ctx, &mq.EventMetaDataMessage{JulianDay: "x"})
	if err != nil {
		t.Errorf("invalid message should be skipped, got %v", err)
	}

	if len(events.stored) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(events.stored))
	}
	if ev := events.stored[0]; ev.JulianDay != 45 || !ev.Ready || ev.Reprocess || ev.IntervalInSeconds != 900 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestNew_Defaults(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without job store")
	}

	s, _, _ := newService(t)
	if s.stateQueue != mq.DefaultJobStateQueue || s.eventQueue != mq.DefaultEventDataProcessQueue {
		t.Errorf("unexpected queues %s, %s", s.stateQueue, s.eventQueue)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start without messenger should fail")
	}
}
