package errmodel

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewAndFrom(t *testing.T) {
	e := Validation("missing_fields", "required fields missing", map[string]any{"fields": []string{"from_location"}})
	if e.Category != CategoryValidation || e.Code != "missing_fields" {
		t.Fatalf("unexpected: %#v", e)
	}
	if got := From(e); got != e {
		t.Fatalf("From should return same error instance")
	}
	if got := From(errors.New("boom")); got.Category != CategorySystem || got.Code != "internal" {
		t.Fatalf("unknown errors should map to system/internal, got %#v", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	if got := HTTPStatus(Validation("bad_json", "oops", nil)); got != 400 {
		t.Fatalf("validation status=%d want 400", got)
	}
	if got := HTTPStatus(Validation("method_not_allowed", "nope", nil)); got != 405 {
		t.Fatalf("method_not_allowed status=%d want 405", got)
	}
	if got := HTTPStatus(Planner("plan_failed", "loop failed", nil, nil)); got != 502 {
		t.Fatalf("planner status=%d want 502", got)
	}
	if got := HTTPStatus(Provider("upstream", "weather api down", nil, nil)); got != 502 {
		t.Fatalf("provider status=%d want 502", got)
	}
	if got := HTTPStatus(From(errors.New("x"))); got != 500 {
		t.Fatalf("system status=%d want 500", got)
	}
}

func TestWriteHTTP_StatusAndEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	WriteHTTP(rr, req, Validation("bad_json", "oops", nil))
	if rr.Code != 400 {
		t.Fatalf("status=%d want 400", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "\"category\":\"validation\"") {
		t.Fatalf("body missing category: %s", body)
	}
	if !strings.Contains(body, "\"code\":\"bad_json\"") {
		t.Fatalf("body missing code: %s", body)
	}
}

func TestIsCategory(t *testing.T) {
	if !IsCategory(Tool("invoke_failed", "x", nil), CategoryTool) {
		t.Fatal("expected tool category")
	}
	if IsCategory(nil, CategoryTool) {
		t.Fatal("nil error has no category")
	}
}
