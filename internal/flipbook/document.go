package flipbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spherical/flipbook-studio/internal/domain"
)

const (
	// SignaturePrefix marks a document as produced by this tool. It is a
	// naming convention, not a cryptographic signature.
	SignaturePrefix = "FLIPBOOK_STUDIO_"
	FormatVersion   = "1.0"
	FileExtension   = ".flipbook"

	createdAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Document is the .flipbook container.
type Document struct {
	Title     string             `json:"title"`
	Pages     []domain.PageImage `json:"pages"`
	CreatedAt string             `json:"createdAt"`
	Version   string             `json:"version"`
	Signature string             `json:"signature"`
}

// Summary describes a document without its page payloads.
type Summary struct {
	Title     string `json:"title"`
	PageCount int    `json:"pageCount"`
	CreatedAt string `json:"createdAt"`
	Version   string `json:"version"`
}

// Summary returns the document header.
func (d *Document) Summary() Summary {
	return Summary{
		Title:     d.Title,
		PageCount: len(d.Pages),
		CreatedAt: d.CreatedAt,
		Version:   d.Version,
	}
}

// NewDocument stamps pages with creation time, version and signature.
func NewDocument(title string, pages []domain.PageImage, now time.Time) *Document {
	if pages == nil {
		pages = []domain.PageImage{}
	}
	return &Document{
		Title:     title,
		Pages:     pages,
		CreatedAt: now.UTC().Format(createdAtLayout),
		Version:   FormatVersion,
		Signature: NewSignature(now),
	}
}

// NewSignature returns SignaturePrefix followed by the unix time in milliseconds.
func NewSignature(now time.Time) string {
	return SignaturePrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// Serialize encodes a new document for title and pages.
func Serialize(title string, pages []domain.PageImage, now time.Time) ([]byte, error) {
	return json.Marshal(NewDocument(title, pages, now))
}

// TitleFromFilename strips the final extension from a file name.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "Untitled"
	}
	return base
}

// FileName returns the download name for a document title.
func FileName(title string) string {
	return title + FileExtension
}

// Reason identifies why a blob is not a flipbook.
type Reason string

const (
	ReasonWrongExtension   Reason = "wrong_extension"
	ReasonMalformedJSON    Reason = "malformed_json"
	ReasonNotObject        Reason = "not_object"
	ReasonMissingTitle     Reason = "missing_title"
	ReasonMissingPages     Reason = "missing_pages"
	ReasonBadPage          Reason = "bad_page"
	ReasonMissingSignature Reason = "missing_signature"
	ReasonBadSignature     Reason = "bad_signature"
)

// ValidationError carries the rejection reason.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return string(e.Reason)
}

// ReasonOf extracts the rejection reason from err, or "".
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

func invalid(reason Reason, detail string) error {
	return domain.ValidationFailedError("invalid flipbook file", &ValidationError{Reason: reason, Detail: detail})
}

// Validate checks the shape of blob and decodes it. Documents failing any
// check are rejected wholesale.
func Validate(blob []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, invalid(ReasonMalformedJSON, "")
		}
		return nil, invalid(ReasonNotObject, "")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, invalid(ReasonMalformedJSON, err.Error())
	}

	doc := &Document{}

	if !decodeString(raw["title"], &doc.Title) {
		return nil, invalid(ReasonMissingTitle, "")
	}

	pagesRaw := bytes.TrimSpace(raw["pages"])
	if len(pagesRaw) == 0 || pagesRaw[0] != '[' {
		return nil, invalid(ReasonMissingPages, "")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(pagesRaw, &items); err != nil {
		return nil, invalid(ReasonMissingPages, err.Error())
	}
	doc.Pages = make([]domain.PageImage, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		var page domain.PageImage
		if len(item) == 0 || item[0] != '{' {
			return nil, invalid(ReasonBadPage, fmt.Sprintf("page %d is not an object", i))
		}
		if err := json.Unmarshal(item, &page); err != nil {
			return nil, invalid(ReasonBadPage, fmt.Sprintf("page %d: %v", i, err))
		}
		doc.Pages = append(doc.Pages, page)
	}

	if !decodeString(raw["signature"], &doc.Signature) {
		return nil, invalid(ReasonMissingSignature, "")
	}
	if !strings.HasPrefix(doc.Signature, SignaturePrefix) {
		return nil, invalid(ReasonBadSignature, "")
	}

	// optional header fields
	decodeString(raw["createdAt"], &doc.CreatedAt)
	decodeString(raw["version"], &doc.Version)

	return doc, nil
}

// Load applies the extension pre-filter before Validate. No JSON is parsed
// for files without the .flipbook extension.
func Load(name string, blob []byte) (*Document, error) {
	if !strings.HasSuffix(name, FileExtension) {
		return nil, domain.InputRejectedError(
			fmt.Sprintf("%s is not a %s file", filepath.Base(name), FileExtension),
			&ValidationError{Reason: ReasonWrongExtension})
	}
	return Validate(blob)
}

// decodeString reports whether msg holds a JSON string, storing it in dst.
func decodeString(msg json.RawMessage, dst *string) bool {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '"' {
		return false
	}
	return json.Unmarshal(msg, dst) == nil
}
