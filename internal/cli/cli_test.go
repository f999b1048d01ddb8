package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/shaiso/Netobs/internal/mq"
)

const testJobID = "7f1d3b8e-7c55-4d8e-9a5a-1f2e3d4c5b6a"

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[{"job_id":"` + testJobID + `","original_file_name":"a.pcap","file_size":10,"status":"IN_PROGRESS"}],"total":1}`))
	})
	mux.HandleFunc("GET /api/v1/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != testJobID {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"job not found"}}`))
			return
		}
		w.Write([]byte(`{"data":{"job_id":"` + testJobID + `","status":"FAILED","notes":"bad header"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestClient(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient(srv.URL)

	jobs, err := c.ListJobs(5)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobID != testJobID || jobs[0].FileSize != 10 {
		t.Errorf("unexpected jobs %+v", jobs)
	}

	job, err := c.GetJob(testJobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != "FAILED" {
		t.Errorf("unexpected job %+v", job)
	}

	_, err = c.GetJob("other")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND error, got %v", err)
	}
}

func TestJobCommands(t *testing.T) {
	srv := newAPIServer(t)
	var stdout, stderr bytes.Buffer

	clientFn := func() *Client { return NewClient(srv.URL) }
	outputFn := func() *Output { return NewOutputTo(&stdout, &stderr, false) }

	if err := run(t, NewJobCmd(clientFn, outputFn), "list", "--limit", "5"); err != nil {
		t.Fatalf("job list: %v", err)
	}
	if !strings.Contains(stdout.String(), "JOB_ID") || !strings.Contains(stdout.String(), "a.pcap") {
		t.Errorf("unexpected table:\n%s", stdout.String())
	}

	stdout.Reset()
	if err := run(t, NewJobCmd(clientFn, outputFn), "show", testJobID); err != nil {
		t.Fatalf("job show: %v", err)
	}
	if !strings.Contains(stdout.String(), "FAILED") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "bad header") {
		t.Errorf("notes should be printed, got %q", stderr.String())
	}
}

func TestJobShow_JSON(t *testing.T) {
	srv := newAPIServer(t)
	var stdout bytes.Buffer

	cmd := NewJobCmd(
		func() *Client { return NewClient(srv.URL) },
		func() *Output { return NewOutputTo(&stdout, &bytes.Buffer{}, true) },
	)
	if err := run(t, cmd, "show", testJobID); err != nil {
		t.Fatal(err)
	}

	var job JobResponse
	if err := json.Unmarshal(stdout.Bytes(), &job); err != nil {
		t.Fatalf("output should be JSON: %v\n%s", err, stdout.String())
	}
	if job.JobID != testJobID {
		t.Errorf("unexpected job %+v", job)
	}
}

func TestQueuePush_Validation(t *testing.T) {
	dialed := false
	messengerFn := func() (*mq.Messenger, error) {
		dialed = true
		return nil, errors.New("no broker")
	}
	outputFn := func() *Output { return NewOutputTo(&bytes.Buffer{}, &bytes.Buffer{}, false) }

	tests := []struct {
		name string
		args []string
	}{
		{"unknown state", []string{"push", "q", "--state", "Exploded"}},
		{"state out of range", []string{"push", "q", "--state", "17"}},
		{"bad job id", []string{"push", "q", "--job-id", "nope"}},
		{"no queue", []string{"push"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, NewQueueCmd(messengerFn, outputFn), tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
	if dialed {
		t.Error("invalid input should fail before connecting")
	}
}

func TestQueueCommands_MessengerError(t *testing.T) {
	brokerErr := errors.New("no broker")
	messengerFn := func() (*mq.Messenger, error) { return nil, brokerErr }
	outputFn := func() *Output { return NewOutputTo(&bytes.Buffer{}, &bytes.Buffer{}, false) }

	if err := run(t, NewQueueCmd(messengerFn, outputFn), "push", "q", "--state", "Validated"); !errors.Is(err, brokerErr) {
		t.Errorf("push: expected broker error, got %v", err)
	}
	if err := run(t, NewQueueCmd(messengerFn, outputFn), "read", "q"); !errors.Is(err, brokerErr) {
		t.Errorf("read: expected broker error, got %v", err)
	}
}
