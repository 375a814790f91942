package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

const (
	FormatPDF  = "pdf"
	FormatDoc  = "doc"
	FormatDocx = "docx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrFileUnreadable    = errors.New("document is empty or unreadable")
	ErrEmptyExtraction   = errors.New("no text content found in document")
)

// DecoderService converts raw document bytes into plain text. A decode
// failure is always one of ErrUnsupportedFormat, ErrFileUnreadable or
// ErrEmptyExtraction; successful decodes never return empty text.
type DecoderService interface {
	Decode(content []byte, format string) (string, error)
}

type decoderService struct {
	logger *zap.Logger
}

func NewDecoderService(logger *zap.Logger) DecoderService {
	return &decoderService{logger: logger}
}

func (d *decoderService) Decode(content []byte, format string) (string, error) {
	if len(content) == 0 {
		return "", ErrFileUnreadable
	}

	var text string
	var err error

	switch strings.ToLower(format) {
	case FormatPDF:
		text, err = d.decodeWithFallback(content, []namedDecoder{
			{"pdf-pages", d.decodePDFPages},
			{"pdf-document", d.decodePDFDocument},
		})
	case FormatDoc, FormatDocx:
		text, err = d.decodeWithFallback(content, []namedDecoder{
			{"docx-xml", d.decodeDocx},
			{"docx-runs", d.decodeDocxRuns},
		})
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

type decodeFn func([]byte) (string, error)

type namedDecoder struct {
	name string
	fn   decodeFn
}

// decodeWithFallback runs each decoder in order until one yields non-empty
// text. A decoder that fails or comes back empty is logged and the next one
// is tried; only when the whole chain is exhausted does the decode fail.
func (d *decoderService) decodeWithFallback(content []byte, chain []namedDecoder) (string, error) {
	var lastErr error

	for _, dec := range chain {
		text, err := runDecoder(dec.fn, content)
		if err != nil {
			d.logger.Warn("document decoder failed, trying next",
				zap.String("decoder", dec.name),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			d.logger.Warn("document decoder produced no text, trying next",
				zap.String("decoder", dec.name),
			)
			lastErr = ErrEmptyExtraction
			continue
		}
		return text, nil
	}

	if lastErr == nil || errors.Is(lastErr, ErrEmptyExtraction) {
		return "", ErrEmptyExtraction
	}
	return "", fmt.Errorf("%w: %v", ErrFileUnreadable, lastErr)
}

// runDecoder isolates a single decode attempt. The PDF library can panic on
// malformed input; a panic counts as a failed attempt, not a crash.
func runDecoder(fn decodeFn, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return fn(content)
}

// decodePDFPages extracts text page by page. A single unreadable page is
// skipped so the rest of the document still decodes.
func (d *decoderService) decodePDFPages(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil {
			d.logger.Warn("skipping unreadable PDF page",
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page extraction panic: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// decodePDFDocument is the fallback path: a whole-document plain text read
// that works on some files the per-page extractor cannot handle.
func (d *decoderService) decodePDFDocument(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var textBuilder strings.Builder
	if _, err := io.Copy(&textBuilder, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text stream: %w", err)
	}

	return textBuilder.String(), nil
}

// decodeDocx reads the word document from memory and walks its XML,
// concatenating paragraph text in document order followed by table cell
// text in row-major, table order.
func (d *decoderService) decodeDocx(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	return parseDocumentXML(doc.Editable().GetContent())
}

// decodeDocxRuns is the fallback path when the document XML does not parse
// cleanly: it collects every text run in raw document order instead.
func (d *decoderService) decodeDocxRuns(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	return collectTextRuns(doc.Editable().GetContent()), nil
}

// parseDocumentXML walks WordprocessingML and returns paragraph text in
// document order, then table cell text in row-major order, skipping empty
// paragraphs and cells.
func parseDocumentXML(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var paragraphs []string
	var cells []string
	var current strings.Builder
	tableDepth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "tbl" {
				tableDepth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "p":
				if tableDepth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					current.Reset()
				}
			case "tc":
				if text := strings.TrimSpace(current.String()); text != "" {
					cells = append(cells, text)
				}
				current.Reset()
			}
		case xml.CharData:
			current.Write(t)
		}
	}

	parts := make([]string, 0, len(paragraphs)+len(cells))
	parts = append(parts, paragraphs...)
	parts = append(parts, cells...)
	return strings.Join(parts, "\n"), nil
}

var textRunPattern = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

func collectTextRuns(content string) string {
	matches := textRunPattern.FindAllStringSubmatch(content, -1)
	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		if text := strings.TrimSpace(match[1]); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
