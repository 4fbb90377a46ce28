package responder

import (
	"strings"
	"testing"

	"github.com/aluiziolira/go-scrape-reviews/models"
)

func strPtr(s string) *string { return &s }

func TestExtractFirstName(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   string
	}{
		{"full name", "Maria Souza", "Maria"},
		{"single name", "Carlos", "Carlos"},
		{"accented name", "José Carlos", "José"},
		{"too short", "Jo", ""},
		{"short first name", "Li Wang", ""},
		{"all caps initials", "MS Silva", ""},
		{"all caps name", "MARIA", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractFirstName(tt.author); got != tt.want {
				t.Fatalf("extractFirstName(%q) = %q, want %q", tt.author, got, tt.want)
			}
		})
	}
}

func TestMentionedQualities(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{
			name:    "single quality",
			comment: "Médica muito atenciosa durante toda a consulta.",
			want:    []string{"atenciosa"},
		},
		{
			name:    "multiple qualities",
			comment: "Excelente profissional, explicou todos os detalhes com atenção.",
			want:    []string{"atenciosa", "explicar_detalhes", "profissional", "eficiente"},
		},
		{
			name:    "case insensitive",
			comment: "ATENDIMENTO PONTUAL e GENTIL",
			want:    []string{"educada", "pontual"},
		},
		{
			name:    "no qualities",
			comment: "Consulta realizada.",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mentionedQualities(tt.comment)
			if len(got) != len(tt.want) {
				t.Fatalf("mentionedQualities(%q) = %v, want %v", tt.comment, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("quality %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateWithAuthor(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	review := models.ReviewRecord{
		ID:      1,
		Author:  strPtr("Maria Souza"),
		Comment: "Médica muito atenciosa, explicou todos os detalhes.",
	}

	reply := g.Generate(review)
	if !strings.Contains(reply, "Maria") {
		t.Fatalf("reply should greet the patient by name: %q", reply)
	}
	if !strings.Contains(reply, "Atenciosamente,\nDra. Bruna Gomes") {
		t.Fatalf("reply should end with the signature: %q", reply)
	}
	if !strings.Contains(reply, "satisfeita") {
		t.Fatalf("reply should carry the satisfaction line: %q", reply)
	}
}

func TestGenerateWithoutUsableAuthor(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	for _, author := range []*string{nil, strPtr("MS")} {
		reply := g.Generate(models.ReviewRecord{ID: 1, Author: author, Comment: "Ótima consulta."})
		if !strings.HasPrefix(reply, "Olá!") {
			t.Fatalf("expected the impersonal greeting, got %q", reply)
		}
	}
}

func TestGenerateAllSkipsRepliedAndProcessed(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, nil)

	result := &models.ScrapeResult{
		Reviews: []models.ReviewRecord{
			{ID: 1, Author: strPtr("Maria Souza"), Comment: "Excelente."},
			{ID: 2, Author: strPtr("Carlos Lima"), Comment: "Muito bom.", DoctorReply: strPtr("Obrigada!")},
			{ID: 3, Comment: "Atendimento gentil."},
		},
	}

	drafts, err := g.GenerateAll(result)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected drafts for reviews 1 and 3, got %d", len(drafts))
	}
	if _, ok := drafts[2]; ok {
		t.Fatal("review 2 already has a reply and must be skipped")
	}

	// A rerun over the same result drafts nothing new.
	again, err := g.GenerateAll(result)
	if err != nil {
		t.Fatalf("GenerateAll rerun: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("rerun should skip processed reviews, drafted %d", len(again))
	}
}

func TestGenerateAllEmptyResult(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	drafts, err := g.GenerateAll(nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("expected no drafts, got %d", len(drafts))
	}
}
