package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/noah-vh/masterlist/internal/llm"
	"github.com/noah-vh/masterlist/internal/models"
)

var testNow = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestService(responses ...string) (*Service, *llm.Static) {
	client := llm.NewStatic(responses...)
	svc := New(client)
	svc.SetClock(func() time.Time { return testNow })
	return svc, client
}

func TestCaptureSingleTask(t *testing.T) {
	svc, _ := newTestService(`{"intent":"CAPTURE_TASK","task":{"title":"Call the bank","tags":["admin"]}}`)

	cmd, err := svc.Capture(context.Background(), "call the bank tomorrow", models.ScreenList)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	ct, ok := cmd.(models.CaptureTask)
	if !ok {
		t.Fatalf("Expected CaptureTask, got %T", cmd)
	}
	if ct.Title != "Call the bank" {
		t.Errorf("Expected title 'Call the bank', got %q", ct.Title)
	}
}

func TestCaptureUpstreamFailure(t *testing.T) {
	client := llm.NewStatic().Fail(0, errors.New("connection refused"))
	svc := New(client)

	cmd, err := svc.Capture(context.Background(), "anything", models.ScreenList)
	if cmd != nil {
		t.Error("no command may be produced on upstream failure")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestCaptureEmptyResponseIsUnavailable(t *testing.T) {
	svc, _ := newTestService("   \n")

	_, err := svc.Capture(context.Background(), "anything", models.ScreenList)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for empty content, got %v", err)
	}
}

func TestCaptureMalformedOutput(t *testing.T) {
	svc, _ := newTestService("I could not produce JSON today, sorry.")

	_, err := svc.Capture(context.Background(), "anything", models.ScreenList)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("malformed output must be distinguishable from unavailable")
	}
}

func TestCaptureMissingFieldsAreNotErrors(t *testing.T) {
	// Valid JSON with nothing useful in it still normalizes.
	svc, _ := newTestService(`{}`)

	cmd, err := svc.Capture(context.Background(), "ping sarah about demo", models.ScreenList)
	if err != nil {
		t.Fatalf("shape anomalies must be repaired, not rejected: %v", err)
	}
	ct := cmd.(models.CaptureTask)
	if ct.Title != "ping sarah about demo" {
		t.Errorf("Expected free-text fallback title, got %q", ct.Title)
	}
}

func TestCaptureFencedResponse(t *testing.T) {
	svc, _ := newTestService("```json\n{\"task\":{\"title\":\"Fenced\"}}\n```")

	cmd, err := svc.Capture(context.Background(), "", models.ScreenList)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if cmd.(models.CaptureTask).Title != "Fenced" {
		t.Errorf("fenced JSON not parsed: %+v", cmd)
	}
}

func TestCaptureTopLevelArray(t *testing.T) {
	svc, _ := newTestService(`[{"title":"One"},{"title":"Two"}]`)

	cmd, err := svc.Capture(context.Background(), "", models.ScreenList)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	batch, ok := cmd.(models.CaptureTaskBatch)
	if !ok {
		t.Fatalf("Expected CaptureTaskBatch, got %T", cmd)
	}
	if len(batch.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(batch.Items))
	}
}

func TestCaptureUsesServiceClock(t *testing.T) {
	svc, _ := newTestService(`{"task":{"title":"Stretch"}}`)

	cmd, err := svc.Capture(context.Background(), "", models.ScreenToday)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	ct := cmd.(models.CaptureTask)
	if ct.ActionDate == nil || ct.ActionDate.Format("2006-01-02") != "2024-03-14" {
		t.Errorf("today-screen default must use the injected clock, got %v", ct.ActionDate)
	}
}

func TestCaptureSingleOutstandingRequest(t *testing.T) {
	svc, client := newTestService(`{"task":{"title":"x"}}`)

	if _, err := svc.Capture(context.Background(), "x", models.ScreenList); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if client.Calls() != 1 {
		t.Errorf("Expected exactly one upstream call, got %d", client.Calls())
	}
}
