package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"user_id", 7, "jwt_token", "abc", "Password", "hunter22", "dangling"})
	want := []interface{}{"user_id", 7, "jwt_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len: want=%d got=%d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kv[%d]: want=%v got=%v", i, want[i], got[i])
		}
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	log := Nop().With("service", "test")
	log.Info("hello", "k", "v")
	log.Sync()
}
