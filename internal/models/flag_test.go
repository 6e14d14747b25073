package models

import (
	"errors"
	"testing"
)

func TestFlagEmoji(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"US", "\U0001F1FA\U0001F1F8"},
		{"us", "\U0001F1FA\U0001F1F8"},
		{"FR", "🇫🇷"},
		{"Pt", "🇵🇹"},
		{"JP", "🇯🇵"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := FlagEmoji(tt.code)
			if err != nil {
				t.Fatalf("FlagEmoji(%q) error = %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("FlagEmoji(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestFlagEmoji_RegionalIndicatorRange(t *testing.T) {
	for _, code := range []string{"US", "FR", "DE", "BR", "NZ", "ZA"} {
		got, err := FlagEmoji(code)
		if err != nil {
			t.Fatalf("FlagEmoji(%q) error = %v", code, err)
		}
		runes := []rune(got)
		if len(runes) != 2 {
			t.Fatalf("FlagEmoji(%q) has %d code points, want 2", code, len(runes))
		}
		for i, r := range runes {
			if r < 0x1F1E6 || r > 0x1F1FF {
				t.Errorf("FlagEmoji(%q) rune %d = %U, outside regional indicator block", code, i, r)
			}
			if want := rune(code[i]) + regionalIndicatorOffset; r != want {
				t.Errorf("FlagEmoji(%q) rune %d = %U, want %U", code, i, r, want)
			}
		}

		again, _ := FlagEmoji(code)
		if again != got {
			t.Errorf("FlagEmoji(%q) not deterministic: %q then %q", code, got, again)
		}
	}
}

func TestFlagEmoji_Invalid(t *testing.T) {
	for _, code := range []string{"", "U", "USA", "1A", "U-", "ÅÅ"} {
		t.Run(code, func(t *testing.T) {
			_, err := FlagEmoji(code)
			if !errors.Is(err, ErrInvalidCountryCode) {
				t.Errorf("FlagEmoji(%q) error = %v, want ErrInvalidCountryCode", code, err)
			}
		})
	}
}
