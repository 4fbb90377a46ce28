package probe

import (
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-scrape-reviews/config"
)

const probedURL = "https://www.doctoralia.com.br/medico/ana-silva/clinico-geral/sao-paulo"

const profilePage = `<html><body>
	<div data-test-id="doctor-header-fullname"><span itemprop="name">Dra. Ana Silva</span></div>
	<div id="profile-reviews">
		<div data-test-id="opinion-block">
			<div class="opinion-header"><span itemprop="name">João</span></div>
			<p data-test-id="opinion-comment">Excelente atendimento.</p>
			<div data-score="5"></div>
		</div>
		<div data-test-id="opinion-block">
			<div class="opinion-header"><span itemprop="name">Maria</span></div>
			<p data-test-id="opinion-comment">Muito atenciosa.</p>
			<div data-score="4"></div>
		</div>
		<div class="card-footer text-center">
			<button data-id="load-more-opinions">Veja mais</button>
		</div>
	</div>
</body></html>`

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return httpmock.ResponderFromResponse(resp)
}

func newTestProber(t *testing.T, transport http.RoundTripper) *Prober {
	t.Helper()
	p, err := New(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithTransport(transport)
	return p
}

func TestCheckReportsStaticState(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", probedURL, htmlResponder(profilePage))

	p := newTestProber(t, transport)
	result, err := p.Check(probedURL)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", result.StatusCode)
	}
	if result.DoctorName != "Dra. Ana Silva" {
		t.Fatalf("doctor name = %q", result.DoctorName)
	}
	if result.VisibleReviews != 2 {
		t.Fatalf("visible reviews = %d, want 2", result.VisibleReviews)
	}
	if !result.HasLoadMore {
		t.Fatal("expected the load-more control to be detected")
	}
}

func TestCheckWithoutLoadMore(t *testing.T) {
	page := `<html><body><div id="profile-reviews">
		<div data-test-id="opinion-block">
			<p data-test-id="opinion-comment">Ótima consulta.</p>
		</div>
	</div></body></html>`

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", probedURL, htmlResponder(page))

	p := newTestProber(t, transport)
	result, err := p.Check(probedURL)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.HasLoadMore {
		t.Fatal("no load-more control should be detected")
	}
	if result.VisibleReviews != 1 {
		t.Fatalf("visible reviews = %d, want 1", result.VisibleReviews)
	}
}

func TestCheckRejectsForeignURL(t *testing.T) {
	p := newTestProber(t, httpmock.NewMockTransport())
	if _, err := p.Check("https://example.com/medico/ana-silva"); err == nil {
		t.Fatal("expected rejection for an URL outside the expected site")
	}
}

func TestCheckSurfacesHTTPFailure(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", probedURL, httpmock.NewStringResponder(503, ""))

	p := newTestProber(t, transport)
	_, err := p.Check(probedURL)
	if err == nil {
		t.Fatal("expected an error for a 503 response")
	}
	if !strings.Contains(err.Error(), "probe") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConsecutiveChecksAreIndependent(t *testing.T) {
	secondURL := "https://www.doctoralia.com.br/medico/joao-souza/cardiologista/rio"
	emptyPage := `<html><body><div id="profile-reviews"></div></body></html>`

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", probedURL, htmlResponder(profilePage))
	transport.RegisterResponder("GET", secondURL, htmlResponder(emptyPage))

	p := newTestProber(t, transport)
	first, err := p.Check(probedURL)
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := p.Check(secondURL)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if first.VisibleReviews != 2 || second.VisibleReviews != 0 {
		t.Fatalf("checks leaked state: first %d, second %d",
			first.VisibleReviews, second.VisibleReviews)
	}
	if second.DoctorName != "" {
		t.Fatalf("second check inherited doctor name %q", second.DoctorName)
	}
}
