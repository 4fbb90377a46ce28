package scraper

import "testing"

func TestProfilePatternMatches(t *testing.T) {
	pattern := newProfilePattern("https://www.doctoralia.com.br/", []string{"/agenda"})

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "profile page",
			url:  "https://www.doctoralia.com.br/medico/ana-silva/clinico-geral/sao-paulo",
			want: true,
		},
		{
			name: "bare site root",
			url:  "https://www.doctoralia.com.br/",
			want: false,
		},
		{
			name: "different site",
			url:  "https://example.com/medico/ana-silva",
			want: false,
		},
		{
			name: "booking sub-flow",
			url:  "https://www.doctoralia.com.br/medico/ana-silva/agenda",
			want: false,
		},
		{
			name: "empty url",
			url:  "",
			want: false,
		},
		{
			name: "http scheme only",
			url:  "http://www.doctoralia.com.br/medico/ana-silva",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pattern.Matches(tt.url); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestProfilePatternEmptyBookingSegments(t *testing.T) {
	pattern := newProfilePattern("https://www.doctoralia.com.br/", nil)
	if !pattern.Matches("https://www.doctoralia.com.br/medico/ana-silva/agenda") {
		t.Fatal("without booking segments the sub-flow URL should match the prefix")
	}
}
