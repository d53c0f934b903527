package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func decodeInput(t *testing.T, body string) NewTaskInput {
	t.Helper()
	var in NewTaskInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return in
}

func decodePatch(t *testing.T, body string) TaskPatch {
	t.Helper()
	var p TaskPatch
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return p
}

func TestBuild_ScalarAssigneeIsWrapped(t *testing.T) {
	in := decodeInput(t, `{"title":"A","status":"to-do","assignedTo":"u1"}`)
	task, err := in.Build("id1", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(task.AssignedTo) != 1 || task.AssignedTo[0] != "u1" {
		t.Fatalf("assignedTo = %v; want [u1]", task.AssignedTo)
	}
	if task.FinishedAt != nil {
		t.Fatalf("finishedAt = %v; want nil", task.FinishedAt)
	}
}

func TestBuild_DoneSetsFinishedAt(t *testing.T) {
	in := decodeInput(t, `{"title":"A","status":"done","assignedTo":["u1","u2"]}`)
	task, err := in.Build("id1", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if task.FinishedAt == nil || !task.FinishedAt.Equal(now) {
		t.Fatalf("finishedAt = %v; want %v", task.FinishedAt, now)
	}
}

func TestBuild_DoneKeepsSuppliedFinishedAt(t *testing.T) {
	in := decodeInput(t, `{"title":"A","status":"done","assignedTo":["u1"],"finishedAt":"2025-01-02T03:04:05Z"}`)
	task, err := in.Build("id1", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if task.FinishedAt == nil || !task.FinishedAt.Equal(want) {
		t.Fatalf("finishedAt = %v; want %v", task.FinishedAt, want)
	}
}

func TestBuild_NotDoneDropsSuppliedFinishedAt(t *testing.T) {
	in := decodeInput(t, `{"title":"A","status":"blocked","assignedTo":["u1"],"finishedAt":"2025-01-02T03:04:05Z"}`)
	task, err := in.Build("id1", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if task.FinishedAt != nil {
		t.Fatalf("finishedAt = %v; want nil", task.FinishedAt)
	}
}

func TestBuild_EmptyFinishedAtStrings(t *testing.T) {
	for _, raw := range []string{`""`, `"null"`, `null`} {
		in := decodeInput(t, `{"title":"A","status":"to-do","assignedTo":["u1"],"finishedAt":`+raw+`}`)
		if in.FinishedAt.Time != nil {
			t.Fatalf("finishedAt %s decoded as %v", raw, in.FinishedAt.Time)
		}
	}
}

func TestBuild_MissingFields(t *testing.T) {
	in := decodeInput(t, `{"description":"d"}`)
	_, err := in.Build("id1", now)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v; want validation error", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %T; want *ValidationError", err)
	}
	for _, f := range []string{"title", "status", "assignedTo"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("missing field %q not reported in %v", f, ve.Fields)
		}
	}
}

func TestBuild_InvalidStatus(t *testing.T) {
	in := decodeInput(t, `{"title":"A","status":"later","assignedTo":["u1"]}`)
	if _, err := in.Build("id1", now); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v; want validation error", err)
	}
}

func TestResolve_StatusDrivesFinishedAt(t *testing.T) {
	task := &Task{Title: "A", Status: StatusToDo, AssignedTo: AssigneeList{"u1"}}

	upd, err := decodePatch(t, `{"status":"done"}`).Resolve(now)
	if err != nil {
		t.Fatalf("resolve done: %v", err)
	}
	upd.Apply(task)
	if task.FinishedAt == nil {
		t.Fatalf("finishedAt nil after done")
	}

	later := now.Add(time.Hour)
	upd, err = decodePatch(t, `{"status":"blocked","finishedAt":"2025-01-02T03:04:05Z"}`).Resolve(later)
	if err != nil {
		t.Fatalf("resolve blocked: %v", err)
	}
	upd.Apply(task)
	if task.FinishedAt != nil {
		t.Fatalf("finishedAt = %v after blocked; want nil", task.FinishedAt)
	}
	if !task.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt = %v; want %v", task.UpdatedAt, later)
	}
}

func TestResolve_LeavesUnspecifiedFields(t *testing.T) {
	finished := now.Add(-time.Hour)
	task := &Task{Title: "A", Description: "d", Status: StatusDone, AssignedTo: AssigneeList{"u1"}, FinishedAt: &finished}

	upd, err := decodePatch(t, `{"title":"B","assignedTo":"u2"}`).Resolve(now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if upd.SetFinishedAt {
		t.Fatalf("finishedAt recomputed without status")
	}
	upd.Apply(task)
	if task.Title != "B" || task.Description != "d" || task.Status != StatusDone {
		t.Fatalf("unexpected merge result %+v", task)
	}
	if len(task.AssignedTo) != 1 || task.AssignedTo[0] != "u2" {
		t.Fatalf("assignedTo = %v; want [u2]", task.AssignedTo)
	}
	if task.FinishedAt == nil || !task.FinishedAt.Equal(finished) {
		t.Fatalf("finishedAt changed to %v", task.FinishedAt)
	}
}

func TestResolve_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty title":               `{"title":"  "}`,
		"bad status":                `{"status":"in progress"}`,
		"empty assignees":           `{"assignedTo":[]}`,
		"finishedAt without status": `{"finishedAt":"2025-01-02T03:04:05Z"}`,
	}
	for name, body := range cases {
		if _, err := decodePatch(t, body).Resolve(now); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: err = %v; want validation error", name, err)
		}
	}
}

func TestResolve_NullFinishedAtWithoutStatusIsIgnored(t *testing.T) {
	upd, err := decodePatch(t, `{"description":"x","finishedAt":null}`).Resolve(now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if upd.SetFinishedAt {
		t.Fatalf("finishedAt should not be written")
	}
}

func TestAssigneeList_MarshalsAsArray(t *testing.T) {
	b, err := json.Marshal(Task{AssignedTo: nil})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["assignedTo"].([]any); !ok {
		t.Fatalf("assignedTo = %#v; want array", out["assignedTo"])
	}
	if out["finishedAt"] != nil {
		t.Fatalf("finishedAt = %#v; want null", out["finishedAt"])
	}
}
