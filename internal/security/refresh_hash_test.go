package security

import "testing"

func TestHashRefreshToken(t *testing.T) {
	a := HashRefreshToken("token-1")
	if a != HashRefreshToken("token-1") {
		t.Error("HashRefreshToken is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 (SHA-256 hex)", len(a))
	}
	if a == HashRefreshToken("token-2") {
		t.Error("different tokens produced the same hash")
	}
}

func TestRefreshTokenMatches(t *testing.T) {
	stored := HashRefreshToken("correct-token")
	tests := []struct {
		name  string
		token string
		hash  string
		want  bool
	}{
		{"match", "correct-token", stored, true},
		{"wrong token", "wrong-token", stored, false},
		{"longer hash", "correct-token", "a" + stored, false},
		{"same length different content", "correct-token", "0" + stored[1:], stored[0] == '0'},
		{"empty token", "", stored, false},
		{"empty inputs", "", "", false},
		{"empty hash", "correct-token", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RefreshTokenMatches(tt.token, tt.hash); got != tt.want {
				t.Errorf("RefreshTokenMatches = %v, want %v", got, tt.want)
			}
		})
	}
}
