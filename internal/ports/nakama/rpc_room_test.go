package nakama

import (
	"strings"
	"testing"
)

func TestRandomRoomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := randomRoomCode(5)
		if len(code) != 5 {
			t.Fatalf("code %q has length %d, want 5", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(roomCodeChars, r) {
				t.Fatalf("code %q contains %q outside the allowed charset", code, r)
			}
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not uppercase", code)
		}
	}
}
