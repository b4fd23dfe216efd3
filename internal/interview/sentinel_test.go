package interview

import "testing"

func TestIsCompletionSignal(t *testing.T) {
	cases := map[string]bool{
		"INTERVIEW_COMPLETE":                               true,
		"  INTERVIEW_COMPLETE\n":                           true,
		"Thank you for your time. INTERVIEW_COMPLETE":      true,
		"INTERVIEW_COMPLETE. Good luck!":                   true,
		"What is INTERVIEW_COMPLETE about? (it is a test)": true,
		"INTERVIEW_COMPLETED":                              false,
		"PRE_INTERVIEW_COMPLETE":                           false,
		"interview_complete":                               false,
		"INTERVIEW COMPLETE":                               false,
		"How would you design a URL shortener?":            false,
		"":                                                 false,
	}
	for text, expect := range cases {
		if got := IsCompletionSignal(text); got != expect {
			t.Fatalf("IsCompletionSignal(%q) = %v, expected %v", text, got, expect)
		}
	}
}
