package http

import (
	"errors"
	"strings"
	"testing"
)

func TestAccountIDValidation(t *testing.T) {
	type P struct {
		EmployeeID string `validate:"accountid"`
	}
	cv := NewValidator()

	for _, s := range []string{"emp-1", "E.100_a", strings.Repeat("a", 64)} {
		if err := cv.Validate(P{EmployeeID: s}); err != nil {
			t.Fatalf("expected valid accountid %q, got err: %v", s, err)
		}
	}

	for _, s := range []string{
		"",                      // empty
		"emp 1",                 // space
		"emp/1",                 // slash
		strings.Repeat("a", 65), // too long
		"émp",                   // non-ascii
	} {
		err := cv.Validate(P{EmployeeID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "EmployeeID", "1-64 chars") {
			t.Fatalf("expected accountid message for %q, got: %+v", s, fe)
		}
	}
}

func TestExitKindValidation(t *testing.T) {
	type P struct {
		Kind string `validate:"exitkind"`
	}
	cv := NewValidator()

	for _, s := range []string{"clearance", "interview"} {
		if err := cv.Validate(P{Kind: s}); err != nil {
			t.Fatalf("expected exitkind OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "Clearance", "exit", "termination"} {
		err := cv.Validate(P{Kind: s})
		if err == nil {
			t.Fatalf("expected exitkind error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Kind", "clearance or interview") {
			t.Fatalf("expected exitkind message for %q", s)
		}
	}
}

func TestRFC3339Validation(t *testing.T) {
	type P struct {
		Before string `validate:"omitempty,rfc3339"`
	}
	cv := NewValidator()

	for _, s := range []string{"", "2025-10-01T08:00:00Z", "2025-10-01T15:00:00+07:00"} {
		if err := cv.Validate(P{Before: s}); err != nil {
			t.Fatalf("expected rfc3339 OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"2025-10-01", "2025-10-01T08:00:00", "yesterday"} {
		err := cv.Validate(P{Before: s})
		if err == nil {
			t.Fatalf("expected rfc3339 error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Before", "RFC3339") {
			t.Fatalf("expected rfc3339 message for %q", s)
		}
	}
}

func TestRangeAndChoiceMessages(t *testing.T) {
	type P struct {
		Status string `validate:"omitempty,oneof=none submitted validated"`
		Done   string `validate:"omitempty,boolean"`
		Limit  int    `validate:"gte=0,lte=200"`
		Offset int    `validate:"gte=0"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Status: "submitted", Done: "true", Limit: 200}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	err := cv.Validate(P{Status: "pending", Done: "maybe", Limit: 201, Offset: -1})
	if err == nil {
		t.Fatal("expected errors")
	}
	fe := ToFieldErrors(err)
	for _, want := range []struct{ field, msg string }{
		{"Status", "one of: none submitted validated"},
		{"Done", "true or false"},
		{"Limit", "less than or equal to 200"},
		{"Offset", "greater than or equal to 0"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %s message %q in %+v", want.field, want.msg, fe)
		}
	}
}

func TestRequiredMessage(t *testing.T) {
	type P struct {
		EmployeeID string `validate:"required"`
	}
	fe := ToFieldErrors(NewValidator().Validate(P{}))
	if !containsFieldMsg(fe, "EmployeeID", "is required") {
		t.Fatalf("got %+v", fe)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("got %+v", fe)
	}
}
