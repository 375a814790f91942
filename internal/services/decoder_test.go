package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func newTestDecoder() *decoderService {
	return &decoderService{logger: zap.NewNop()}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	decoder := newTestDecoder()

	_, err := decoder.Decode([]byte("content"), "txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecode_EmptyContent(t *testing.T) {
	decoder := newTestDecoder()

	_, err := decoder.Decode(nil, FormatPDF)
	if !errors.Is(err, ErrFileUnreadable) {
		t.Fatalf("Decode() error = %v, want ErrFileUnreadable", err)
	}
}

func TestDecode_GarbageBytesUnreadable(t *testing.T) {
	decoder := newTestDecoder()

	for _, format := range []string{FormatPDF, FormatDocx} {
		_, err := decoder.Decode([]byte("definitely not a document"), format)
		if !errors.Is(err, ErrFileUnreadable) && !errors.Is(err, ErrEmptyExtraction) {
			t.Errorf("Decode(%s) error = %v, want unreadable or empty", format, err)
		}
	}
}

func TestDecodeWithFallback_FirstDecoderWins(t *testing.T) {
	decoder := newTestDecoder()

	text, err := decoder.decodeWithFallback(nil, []namedDecoder{
		{"primary", func([]byte) (string, error) { return "primary text", nil }},
		{"fallback", func([]byte) (string, error) {
			t.Fatal("fallback must not run when the primary succeeds")
			return "", nil
		}},
	})
	if err != nil {
		t.Fatalf("decodeWithFallback() error = %v", err)
	}
	if text != "primary text" {
		t.Errorf("text = %q, want %q", text, "primary text")
	}
}

func TestDecodeWithFallback_FallsThroughOnError(t *testing.T) {
	decoder := newTestDecoder()

	text, err := decoder.decodeWithFallback(nil, []namedDecoder{
		{"primary", func([]byte) (string, error) { return "", errors.New("corrupt stream") }},
		{"fallback", func([]byte) (string, error) { return "recovered text", nil }},
	})
	if err != nil {
		t.Fatalf("decodeWithFallback() error = %v", err)
	}
	if text != "recovered text" {
		t.Errorf("text = %q, want %q", text, "recovered text")
	}
}

func TestDecodeWithFallback_FallsThroughOnEmptyText(t *testing.T) {
	decoder := newTestDecoder()

	text, err := decoder.decodeWithFallback(nil, []namedDecoder{
		{"primary", func([]byte) (string, error) { return "   \n\t ", nil }},
		{"fallback", func([]byte) (string, error) { return "actual text", nil }},
	})
	if err != nil {
		t.Fatalf("decodeWithFallback() error = %v", err)
	}
	if text != "actual text" {
		t.Errorf("text = %q, want %q", text, "actual text")
	}
}

func TestDecodeWithFallback_AllEmptyIsEmptyExtraction(t *testing.T) {
	decoder := newTestDecoder()

	_, err := decoder.decodeWithFallback(nil, []namedDecoder{
		{"primary", func([]byte) (string, error) { return "", nil }},
		{"fallback", func([]byte) (string, error) { return "", nil }},
	})
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("decodeWithFallback() error = %v, want ErrEmptyExtraction", err)
	}
}

func TestDecodeWithFallback_AllFailedIsUnreadable(t *testing.T) {
	decoder := newTestDecoder()

	_, err := decoder.decodeWithFallback(nil, []namedDecoder{
		{"primary", func([]byte) (string, error) { return "", errors.New("bad xref") }},
		{"fallback", func([]byte) (string, error) { return "", errors.New("bad trailer") }},
	})
	if !errors.Is(err, ErrFileUnreadable) {
		t.Fatalf("decodeWithFallback() error = %v, want ErrFileUnreadable", err)
	}
}

func TestRunDecoder_PanicBecomesError(t *testing.T) {
	_, err := runDecoder(func([]byte) (string, error) {
		panic("malformed object stream")
	}, nil)
	if err == nil {
		t.Fatal("runDecoder() error = nil, want panic converted to error")
	}
}

func TestParseDocumentXML_ParagraphsThenTables(t *testing.T) {
	content := `<w:document>
		<w:body>
			<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
			<w:tbl>
				<w:tr>
					<w:tc><w:p><w:r><w:t>Cell one</w:t></w:r></w:p></w:tc>
					<w:tc><w:p><w:r><w:t>Cell two</w:t></w:r></w:p></w:tc>
				</w:tr>
			</w:tbl>
			<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
			<w:p></w:p>
		</w:body>
	</w:document>`

	text, err := parseDocumentXML(content)
	if err != nil {
		t.Fatalf("parseDocumentXML() error = %v", err)
	}

	// Paragraph text comes first in document order, then table cells; the
	// empty paragraph is dropped.
	want := "First paragraph\nSecond paragraph\nCell one\nCell two"
	if text != want {
		t.Errorf("parseDocumentXML() = %q, want %q", text, want)
	}
}

func TestParseDocumentXML_MalformedXML(t *testing.T) {
	_, err := parseDocumentXML("<w:document><w:p>unclosed")
	if err == nil {
		t.Fatal("parseDocumentXML() error = nil, want parse failure")
	}
}

func TestCollectTextRuns(t *testing.T) {
	content := `<w:p><w:r><w:t xml:space="preserve">Hello</w:t></w:r>` +
		`<w:r><w:t>world</w:t></w:r><w:r><w:t>  </w:t></w:r></w:p>`

	if got, want := collectTextRuns(content), "Hello\nworld"; got != want {
		t.Errorf("collectTextRuns() = %q, want %q", got, want)
	}
}
