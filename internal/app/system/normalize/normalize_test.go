package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"User@Example.Com", "user@example.com"},
		{"  user@example.com  ", "user@example.com"},
		{"\tuser@example.com\n", "user@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompany(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Corp", "acme corp"},
		{"  ACME   corp ", "acme corp"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Company(tt.input); got != tt.want {
				t.Errorf("Company(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProfileURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "https://www.linkedin.com/in/jane-doe"},
		{"linkedin.com/in/jane-doe", "https://linkedin.com/in/jane-doe"},
		{"  https://WWW.LinkedIn.com/in/Jane?utm_source=x#top ", "https://www.linkedin.com/in/Jane"},
		{"http://localhost:8080/in/a", "http://localhost:8080/in/a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ProfileURL(tt.input); got != tt.want {
				t.Errorf("ProfileURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
