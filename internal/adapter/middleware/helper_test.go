package middleware

import (
	"testing"

	"agrifund-ledger/pkg/id"

	"github.com/google/uuid"
)

func TestValidReqID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{uuid.NewString(), true},
		{id.NewID32(), true},
		// trimmed and lowercased before matching
		{"  " + id.NewID32() + "  ", true},
		{"DEADBEEFDEADBEEFDEADBEEFDEADBEEF", true},
		{"", false},
		{"not-an-id", false},
		{"abc123", false},
	}
	for _, tc := range cases {
		if got := validReqID(tc.in); got != tc.want {
			t.Errorf("validReqID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	got := buildKey("POST", "/api/loans/fund", "acct1", "req1")
	want := "idemp:ax:post:/api/loans/fund:acct1:req1"
	if got != want {
		t.Errorf("buildKey = %q, want %q", got, want)
	}
}

func TestBodyHash_Stable(t *testing.T) {
	a := bodyHash([]byte(`{"amount":100}`))
	b := bodyHash([]byte(`{"amount":100}`))
	c := bodyHash([]byte(`{"amount":101}`))
	if a != b {
		t.Error("identical bodies hash differently")
	}
	if a == c {
		t.Error("different bodies collide")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
