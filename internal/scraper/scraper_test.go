package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func TestParseArticleClarin(t *testing.T) {
	html := `<html><head>
<meta name="description" content="El río creció durante la noche">
<meta name="date" content="2026-08-30T10:00:00">
</head><body>
<h1>Inundación en el barrio ribereño</h1>
<div id="cuerpo"><p>El agua entró a las casas cerca del puente viejo.</p><p>Los vecinos fueron evacuados por la madrugada con ayuda de bomberos locales.</p></div>
</body></html>`

	site := Sites()["clarin"]
	a := ParseArticle(site, docFrom(t, html), "https://www.clarin.com/sociedad/inundacion")

	assert.Equal(t, "Inundación en el barrio ribereño", a.Title)
	assert.Equal(t, "El río creció durante la noche", a.Subtitle)
	assert.Equal(t, "2026-08-30T10:00:00", a.Date)
	assert.Contains(t, a.FullText, "El agua entró a las casas")
	assert.Contains(t, a.FullText, "bomberos locales")
	assert.Equal(t, "clarin.com", a.Source)
	assert.Equal(t, "ar", a.CountryCode)
	assert.NotEmpty(t, a.ID)
}

func TestParseArticleLaNacionDateFromURL(t *testing.T) {
	html := `<html><body><h1>Protesta frente al congreso</h1><h2>Corte de calles previsto</h2>
<section class="cuerpo__nota"><p>Organizaciones sociales marchan esta tarde hacia el centro de la ciudad.</p></section>
</body></html>`

	site := Sites()["lanacion"]
	a := ParseArticle(site, docFrom(t, html), "https://www.lanacion.com.ar/politica/protesta-nid30082026/")

	assert.Equal(t, "Protesta frente al congreso", a.Title)
	assert.Equal(t, "Corte de calles previsto", a.Subtitle)
	assert.Equal(t, "2026-08-30", a.Date)
	assert.Contains(t, a.FullText, "marchan esta tarde")
}

func TestLinkPatterns(t *testing.T) {
	sites := Sites()
	assert.True(t, sites["lanacion"].linkPattern.MatchString("https://www.lanacion.com.ar/politica/una-nota-nid30082026/"))
	assert.False(t, sites["lanacion"].linkPattern.MatchString("https://www.lanacion.com.ar/politica/"))
	assert.True(t, sites["clarin"].linkPattern.MatchString("https://www.clarin.com/sociedad/nota"))
	assert.False(t, sites["clarin"].linkPattern.MatchString("https://www.otrodiario.com/nota"))
	assert.True(t, sites["lapoliticaonline"].linkPattern.MatchString("https://www.lapoliticaonline.com/politica/una-nota-123/"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hola mundo", cleanText("hola\x00   mundo\x1F"))
	assert.Equal(t, "", cleanText("  \n\t "))
}
