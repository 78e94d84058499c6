package telegram

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name   string
		update *Update
		want   Inbound
		ok     bool
	}{
		{
			name:   "direct message",
			update: &Update{Message: &Message{Chat: Chat{ID: 42}, Text: " /stock aapl "}},
			want:   Inbound{ChatID: 42, Text: "/stock aapl"},
			ok:     true,
		},
		{
			name:   "channel post",
			update: &Update{ChannelPost: &Message{Chat: Chat{ID: -100}, Text: "TSLA"}},
			want:   Inbound{ChatID: -100, Text: "TSLA"},
			ok:     true,
		},
		{
			name:   "no message",
			update: &Update{},
			ok:     false,
		},
		{
			name:   "blank text",
			update: &Update{Message: &Message{Chat: Chat{ID: 1}, Text: "   "}},
			ok:     false,
		},
		{
			name: "nil update",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.update)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestExtractSymbol(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/stock aapl", "AAPL"},
		{"/stock TSLA extra words", "TSLA"},
		{"msft", "MSFT"},
		{"  nvda  ", "NVDA"},
		{"/stock", ""},
		{"/start", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := ExtractSymbol(tc.text); got != tc.want {
			t.Errorf("ExtractSymbol(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
