package services

import (
	"errors"
	"testing"
)

func TestFormatForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"resume.pdf", FormatPDF, false},
		{"Resume.PDF", FormatPDF, false},
		{"resume.docx", FormatDocx, false},
		{"resume.doc", FormatDoc, false},
		{"resume.txt", "", true},
		{"resume", "", true},
		{"archive.tar.gz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := FormatForFilename(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("FormatForFilename(%q) error = %v, want ErrUnsupportedFormat", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatForFilename(%q) error = %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("FormatForFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
