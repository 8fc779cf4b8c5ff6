package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfolio/cardfolio/internal/models"
)

func TestExtractSimpleCard(t *testing.T) {
	card := Extract("John Smith\nAcme Corp\njohn@acme.com\n(555) 123-4567")

	assert.Equal(t, "John Smith", card.Name)
	assert.Equal(t, "Acme Corp", card.Company)
	assert.Equal(t, "john@acme.com", card.Email)
	assert.Equal(t, []string{"(555) 123-4567"}, card.Phones)
	assert.Contains(t, card.Tags, models.TagScanned)
}

func TestExtractNameFromEmailLocalPart(t *testing.T) {
	card := Extract("jane.doe@firm.com")

	assert.Equal(t, "Jane Doe", card.Name)
	assert.Equal(t, "jane.doe@firm.com", card.Email)
}

func TestExtractLongCompanyOverLogo(t *testing.T) {
	card := Extract("MAM\nTHE INJURY ASSISTANCE LAW FIRM\nDirector\n555-000-1111")

	assert.Equal(t, "THE INJURY ASSISTANCE LAW FIRM", card.Company)
	assert.Equal(t, "Director", card.Title)
	assert.Equal(t, []string{"555-000-1111"}, card.Phones)
	// Five capitalized words exceed every name shape, and nothing else
	// on the card looks like a person.
	assert.Empty(t, card.Name)
}

func TestExtractCamelCaseEmailName(t *testing.T) {
	card := Extract("janeDoe@firm.com")
	assert.Equal(t, "Jane Doe", card.Name)
}

func TestExtractPhoneLimitAndDeduplication(t *testing.T) {
	card := Extract("Tel: 555-111-2222\nFax: 555-111-2222\nCell: 555-333-4444\nOffice: 555-555-6666\nHome: 555-777-8888")

	assert.Equal(t, []string{"555-111-2222", "555-333-4444", "555-555-6666"}, card.Phones)
}

func TestExtractAddressAndWebsite(t *testing.T) {
	card := Extract("John Smith\n123 Main Street, Suite 400\nwww.acme.example.com")

	require.Len(t, card.Addresses, 1)
	assert.Equal(t, "123 Main Street, Suite 400", card.Addresses[0])
	assert.Equal(t, "www.acme.example.com", card.Website)
}

func TestExtractEmailLineNotWebsite(t *testing.T) {
	// The email's domain must not double as the website.
	card := Extract("john@www.acme.com")

	assert.Equal(t, "john@www.acme.com", card.Email)
	assert.Empty(t, card.Website)
}

func TestExtractTitleLineNotName(t *testing.T) {
	card := Extract("Senior Software Engineer\nJohn Smith")

	assert.Equal(t, "John Smith", card.Name)
	assert.Equal(t, "Senior Software Engineer", card.Title)
}

func TestExtractEmptyInput(t *testing.T) {
	card := Extract("")

	assert.Empty(t, card.Name)
	assert.Empty(t, card.Company)
	assert.Empty(t, card.Phones)
	assert.Contains(t, card.Tags, models.TagScanned)
}

func TestExtractNameBeyondPrimaryWindow(t *testing.T) {
	// The person is printed below the contact block; the secondary pass
	// over the whole card still finds them.
	card := Extract("Acme Holdings Incorporated Group Ltd\n555-111-2222\n555-333-4444\n123 Main St\nJohn Smith")

	assert.Equal(t, "John Smith", card.Name)
}

func TestRecognizerScanFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"text":"John Smith\nAcme Corp\njohn@acme.com"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "card.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake image"), 0o600))

	rec := NewRecognizer(srv.URL, srv.Client())
	card, err := rec.ScanFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "John Smith", card.Name)
	assert.Equal(t, "Acme Corp", card.Company)
}

func TestRecognizerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rec := NewRecognizer(srv.URL, srv.Client())
	_, err := rec.Recognize(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
