package utils

import (
	"strings"
	"testing"
)

func TestNicknameToID(t *testing.T) {
	tests := []struct {
		nickname string
		want     int64
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"hello", 99162322},
		{"철수", 1673592},
		{"모임장", 47554889},
		{"chooinsik", 1026172843},
		{"alice-and-bob-meet", 1872606526},
		{"zzzzzzzzzz", 1580979136},
		{"schedule-owner", 3332115453},
		{"ZZZZZZZZZZZZZZZZ", 4530005504},
		{"group-creator-nickname", 75228547},
	}
	for _, tt := range tests {
		t.Run(tt.nickname, func(t *testing.T) {
			if got := NicknameToID(tt.nickname); got != tt.want {
				t.Errorf("NicknameToID(%q) = %d, want %d", tt.nickname, got, tt.want)
			}
		})
	}
}

func TestNicknameToIDIsStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		if NicknameToID("stable") != NicknameToID("stable") {
			t.Fatal("NicknameToID is not deterministic")
		}
	}
}

func TestNormalizeNickname(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"alice", "alice", true},
		{"  bob \n", "bob", true},
		{"", "", false},
		{"   ", "", false},
		{strings.Repeat("가", 32), strings.Repeat("가", 32), true},
		{strings.Repeat("가", 33), "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeNickname(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeNickname(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
