package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Script Draft", "script_draft"},
		{"  client-review ", "client_review"},
		{"TX", "tx"},
		{"edit__lock!!", "edit_lock"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"script_draft", "Script Draft"},
		{"CLIENT_APPROVAL", "Client Approval"},
		{"final-edit", "Final Edit"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HumanizeIdentifier(tt.in); got != tt.want {
			t.Errorf("HumanizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markup", "<p>Council <b>approves</b> flood plan</p><script>alert(1)</script>", "Council approves flood plan"},
		{"plain", "plain   summary\ntext", "plain summary text"},
		{"entity", "Fish &amp; chips", "Fish & chips"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
