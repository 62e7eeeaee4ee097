package logger

import "testing"

func TestSanitizedToken(t *testing.T) {
	if got := SanitizedToken("hJx3kQ9fLongOpaqueToken"); got != "hJx3****" {
		t.Errorf("got %q", got)
	}
	if got := SanitizedToken("short"); got != "[redacted]" {
		t.Errorf("short tokens should be fully redacted, got %q", got)
	}
	if got := SanitizedToken(""); got != "[redacted]" {
		t.Errorf("empty token should be redacted, got %q", got)
	}
}

func TestSanitizeQueryString(t *testing.T) {
	sensitive := []string{
		"password=hunter2",
		"TOKEN=abc",
		"api_secret=xyz",
		"private_key=5Kb8...",
		"auth=bearer",
	}
	for _, q := range sensitive {
		if !SanitizeQueryString(q) {
			t.Errorf("%q should be flagged as sensitive", q)
		}
	}

	harmless := []string{
		"limit=100",
		"cid=QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"",
	}
	for _, q := range harmless {
		if SanitizeQueryString(q) {
			t.Errorf("%q should not be flagged", q)
		}
	}
}
