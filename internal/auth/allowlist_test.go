package auth

import "testing"

func TestGate_Allowed(t *testing.T) {
	gate := NewGate([]string{"owner@books.pk", "Partner@books.pk"}, "11111111-1111-1111-1111-111111111111")

	cases := []struct {
		email string
		want  bool
	}{
		{"owner@books.pk", true},
		{"OWNER@books.pk", true},
		{" partner@books.pk ", true},
		{"stranger@books.pk", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := gate.Allowed(tc.email); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestGate_OrgFor(t *testing.T) {
	shared := "11111111-1111-1111-1111-111111111111"
	gate := NewGate([]string{"owner@books.pk", "partner@books.pk"}, shared)

	// Both admins share one org.
	if gate.OrgFor("owner@books.pk") != shared {
		t.Error("allow-listed admin should map to the shared org")
	}
	if gate.OrgFor("PARTNER@books.pk") != shared {
		t.Error("allow-list lookup should be case-insensitive")
	}

	// Everyone else gets a stable private org.
	a := gate.OrgFor("other@books.pk")
	b := gate.OrgFor("other@books.pk")
	if a != b {
		t.Errorf("per-identity org should be deterministic: %s != %s", a, b)
	}
	if a == shared {
		t.Error("non-allow-listed identity must not land in the shared org")
	}
	if a == gate.OrgFor("another@books.pk") {
		t.Error("distinct identities should get distinct fallback orgs")
	}
}
