package flipbook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/flipbook-studio/internal/domain"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 123_000_000, time.UTC)

func samplePages() []domain.PageImage {
	return []domain.PageImage{
		{PageNum: 1, ImageData: "data:image/jpeg;base64,AAAA", Width: 918, Height: 1188},
		{PageNum: 3, ImageData: "data:image/jpeg;base64,BBBB", Width: 918, Height: 1188},
	}
}

func TestSerializeFields(t *testing.T) {
	blob, err := Serialize("Spring Catalog", samplePages(), fixedNow)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(blob, &raw))

	assert.Equal(t, "Spring Catalog", raw["title"])
	assert.Equal(t, "1.0", raw["version"])
	assert.Equal(t, "2024-03-09T14:30:00.123Z", raw["createdAt"])
	assert.Equal(t, "FLIPBOOK_STUDIO_1709994600123", raw["signature"])

	pages := raw["pages"].([]interface{})
	first := pages[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["pageNum"])
	assert.Equal(t, "data:image/jpeg;base64,AAAA", first["imageData"])
	assert.Equal(t, float64(918), first["width"])
	assert.Equal(t, float64(1188), first["height"])
}

func TestValidateRoundTrip(t *testing.T) {
	blob, err := Serialize("Spring Catalog", samplePages(), fixedNow)
	require.NoError(t, err)

	doc, err := Validate(blob)
	require.NoError(t, err)
	assert.Equal(t, "Spring Catalog", doc.Title)
	assert.Equal(t, samplePages(), doc.Pages)
	assert.Equal(t, FormatVersion, doc.Version)

	summary := doc.Summary()
	assert.Equal(t, 2, summary.PageCount)
	assert.Equal(t, "2024-03-09T14:30:00.123Z", summary.CreatedAt)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		blob   string
		reason Reason
	}{
		{"garbage", `not json`, ReasonMalformedJSON},
		{"truncated", `{"title": "x", "pages": [`, ReasonMalformedJSON},
		{"array", `[1,2]`, ReasonNotObject},
		{"missing title", `{"pages": [], "signature": "FLIPBOOK_STUDIO_1"}`, ReasonMissingTitle},
		{"numeric title", `{"title": 4, "pages": [], "signature": "FLIPBOOK_STUDIO_1"}`, ReasonMissingTitle},
		{"null title", `{"title": null, "pages": [], "signature": "FLIPBOOK_STUDIO_1"}`, ReasonMissingTitle},
		{"pages object", `{"title": "x", "pages": {}, "signature": "FLIPBOOK_STUDIO_1"}`, ReasonMissingPages},
		{"page not object", `{"title": "x", "pages": [7], "signature": "FLIPBOOK_STUDIO_1"}`, ReasonBadPage},
		{"missing signature", `{"title": "x", "pages": []}`, ReasonMissingSignature},
		{"numeric signature", `{"title": "x", "pages": [], "signature": 12}`, ReasonMissingSignature},
		{"foreign signature", `{"title": "x", "pages": [], "signature": "OTHER_TOOL_1"}`, ReasonBadSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Validate([]byte(tt.blob))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, domain.IsType(err, domain.ErrorTypeValidationFailed))
			assert.Equal(t, tt.reason, ReasonOf(err))
		})
	}
}

func TestValidateFractionalPageSize(t *testing.T) {
	blob := `{"title": "a4", "pages": [{"pageNum": 1, "imageData": "data:image/jpeg;base64,AAAA", "width": 892.92, "height": 1262.835}], "createdAt": "2023-11-14T22:13:20.000Z", "version": "1.0", "signature": "FLIPBOOK_STUDIO_1700000000000"}`

	doc, err := Validate([]byte(blob))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.InDelta(t, 892.92, doc.Pages[0].Width, 1e-9)
	assert.InDelta(t, 1262.835, doc.Pages[0].Height, 1e-9)

	again, err := Serialize(doc.Title, doc.Pages, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, string(again), `"width":892.92`)
}

func TestValidateAcceptsEmptyPages(t *testing.T) {
	doc, err := Validate([]byte(`{"title": "Empty", "pages": [], "signature": "FLIPBOOK_STUDIO_42", "version": 1}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Pages)
	assert.Empty(t, doc.Version, "non-string optional fields are ignored")
}

func TestLoadRequiresExtension(t *testing.T) {
	blob, err := Serialize("Deck", samplePages(), fixedNow)
	require.NoError(t, err)

	_, err = Load("deck.json", blob)
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeInputRejected))
	assert.Equal(t, ReasonWrongExtension, ReasonOf(err))

	_, err = Load("deck.json", []byte("not json at all"))
	assert.Equal(t, ReasonWrongExtension, ReasonOf(err), "extension is checked before parsing")

	doc, err := Load("deck.flipbook", blob)
	require.NoError(t, err)
	assert.Equal(t, "Deck", doc.Title)
}

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report",
		"annual.report.pdf":   "annual.report",
		"/tmp/uploads/a.PDF":  "a",
		"noext":               "noext",
		".pdf":                "Untitled",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleFromFilename(in), in)
	}
	assert.Equal(t, "report.flipbook", FileName("report"))
}

func TestSignatureIsTimeBased(t *testing.T) {
	a := NewSignature(fixedNow)
	b := NewSignature(fixedNow.Add(time.Millisecond))
	assert.NotEqual(t, a, b)
	assert.Equal(t, SignaturePrefix+"1709994600123", a)
}
