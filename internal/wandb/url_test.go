package wandb

import "testing"

func TestCompareURL(t *testing.T) {
	got := CompareURL("https://wandb.ai", "acme", "proj", "abc123", "xyz789")
	want := "https://wandb.ai/acme/proj/compare?run=abc123&run=xyz789"
	if got != want {
		t.Errorf("CompareURL = %q, want %q", got, want)
	}
}

func TestCompareURLTrimsTrailingSlash(t *testing.T) {
	got := CompareURL("https://wandb.corp.example.com/", "team", "vision", "a1", "b2")
	want := "https://wandb.corp.example.com/team/vision/compare?run=a1&run=b2"
	if got != want {
		t.Errorf("CompareURL = %q, want %q", got, want)
	}
}

func TestAppURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"hosted API host maps to UI host", "https://api.wandb.ai", "https://wandb.ai"},
		{"trailing slash ignored", "https://api.wandb.ai/", "https://wandb.ai"},
		{"empty falls back to hosted UI", "", "https://wandb.ai"},
		{"self-hosted serves both", "https://wandb.corp.example.com", "https://wandb.corp.example.com"},
		{"self-hosted trailing slash trimmed", "https://wandb.corp.example.com/", "https://wandb.corp.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppURL(tt.baseURL); got != tt.want {
				t.Errorf("AppURL(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}
