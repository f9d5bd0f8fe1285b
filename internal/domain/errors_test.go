package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorWrapping(t *testing.T) {
	base := DocumentOpenError("failed to open brochure.pdf", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("convert: %w", base)

	assert.Equal(t, "[document_open_failed] failed to open brochure.pdf: unexpected EOF", base.Error())
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.True(t, IsType(wrapped, ErrorTypeDocumentOpenFailed))
	assert.False(t, IsType(wrapped, ErrorTypeInputRejected))
	assert.False(t, IsType(nil, ErrorTypeDocumentOpenFailed))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		err  error
		want Severity
	}{
		{AdapterTransientError("network", nil), SeverityWarning},
		{ResolutionUnavailableError("down", nil), SeverityInfo},
		{PermissionDeniedError("not-allowed", nil), SeverityError},
		{ValidationFailedError("bad", nil), SeverityError},
		{errors.New("plain"), SeverityError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFor(tt.err), tt.err.Error())
	}
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, Progress{}.Percent())
	assert.Equal(t, 50.0, Progress{Processed: 2, Total: 4}.Percent())
	assert.Equal(t, 100.0, Progress{Processed: 3, Total: 3}.Percent())
}
