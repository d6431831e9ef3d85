package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParticipants(t *testing.T) {
	tests := []struct {
		name  string
		group Group
		want  []string
	}{
		{
			name:  "creator first",
			group: Group{Creator: "mina", Members: []string{"jun", "mina", "seo"}},
			want:  []string{"mina", "jun", "seo"},
		},
		{
			name:  "duplicates dropped",
			group: Group{Creator: "mina", Members: []string{"jun", "jun"}},
			want:  []string{"mina", "jun"},
		},
		{
			name:  "no members",
			group: Group{Creator: "mina"},
			want:  []string{"mina"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.group.Participants()); diff != "" {
				t.Errorf("Participants() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMembership(t *testing.T) {
	g := Group{Creator: "mina", Members: []string{"mina", "jun"}, AcceptedMembers: []string{"mina"}}

	if !g.IsMember("jun") || g.IsMember("seo") {
		t.Error("IsMember mismatch")
	}
	if g.HasAccepted("jun") || !g.HasAccepted("mina") {
		t.Error("HasAccepted mismatch")
	}
}
