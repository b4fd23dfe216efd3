package models

import (
	"strings"
	"testing"
)

func expectErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %s but got nil", code)
	}
	resp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", err)
	}
	if resp.Code != code {
		t.Fatalf("expected error code %s, got %s", code, resp.Code)
	}
}

func TestErrorResponse_Error(t *testing.T) {
	err := &ErrorResponse{Message: "failed"}
	if err.Error() != "failed" {
		t.Fatalf("expected message to be returned, got %s", err.Error())
	}
}

func TestSupportedRoundTypesList(t *testing.T) {
	if got := strings.Join(SupportedRoundTypesList(), ","); got != "Technical,HR,System Design" {
		t.Fatalf("unexpected round types: %s", got)
	}
}

func TestStartInterviewRequestValidate(t *testing.T) {
	t.Run("missing company", func(t *testing.T) {
		req := &StartInterviewRequest{Role: "Backend Engineer", RoundType: "Technical"}
		expectErrCode(t, req.Validate(), "invalid_configuration")
	})

	t.Run("blank role", func(t *testing.T) {
		req := &StartInterviewRequest{Company: "Acme", Role: "   ", RoundType: "Technical"}
		expectErrCode(t, req.Validate(), "invalid_configuration")
	})

	t.Run("unsupported round type", func(t *testing.T) {
		req := &StartInterviewRequest{Company: "Acme", Role: "SRE", RoundType: "Coffee Chat"}
		expectErrCode(t, req.Validate(), "invalid_configuration")
	})

	t.Run("valid request is trimmed", func(t *testing.T) {
		req := &StartInterviewRequest{Company: " Acme ", Role: "SRE", RoundType: " System Design ", Skills: " go, k8s "}
		if err := req.Validate(); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		setup := req.Setup()
		if setup.Company != "Acme" || setup.RoundType != RoundSystemDesign || setup.Skills != "go, k8s" {
			t.Fatalf("unexpected setup: %+v", setup)
		}
	})
}

func TestSubmitAnswerRequestValidate(t *testing.T) {
	expectErrCode(t, (&SubmitAnswerRequest{Answer: "hi"}).Validate(), "missing_fields")
	expectErrCode(t, (&SubmitAnswerRequest{SessionID: "s1", Answer: "  "}).Validate(), "missing_fields")

	req := &SubmitAnswerRequest{SessionID: " s1 ", Answer: " I would shard by tenant. "}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if req.SessionID != "s1" || req.Answer != "I would shard by tenant." {
		t.Fatalf("request not normalized: %+v", req)
	}
}
