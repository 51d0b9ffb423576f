// ABOUTME: Tests for the error chunker that splits log text at "!" marker lines.
// ABOUTME: Covers message extraction, l.N line attribution, ordering, and no-dedup semantics.

package texlog

import (
	"reflect"
	"testing"
)

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Record
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "no marker lines",
			text: "This is pdfTeX\nOutput written on doc.pdf\n",
			want: nil,
		},
		{
			name: "single error with source line",
			text: "! Undefined control sequence.\nl.20 \\foo\n",
			want: []Record{
				{Message: "! Undefined control sequence.", Ref: SingleLine(20)},
			},
		},
		{
			name: "error without source line",
			text: "! Emergency stop.\n<*> doc.tex\n",
			want: []Record{
				{Message: "! Emergency stop."},
			},
		},
		{
			name: "two errors keep document order",
			text: "preamble noise\n" +
				"! Missing $ inserted.\nl.25 x_2\n" +
				"more text\n" +
				"! Undefined control sequence.\nl.30 \\bar\n",
			want: []Record{
				{Message: "! Missing $ inserted.", Ref: SingleLine(25)},
				{Message: "! Undefined control sequence.", Ref: SingleLine(30)},
			},
		},
		{
			name: "identical errors are not deduplicated",
			text: "! Missing $ inserted.\nl.5 a\n! Missing $ inserted.\nl.5 a\n",
			want: []Record{
				{Message: "! Missing $ inserted.", Ref: SingleLine(5)},
				{Message: "! Missing $ inserted.", Ref: SingleLine(5)},
			},
		},
		{
			name: "marker mid-line does not start a chunk",
			text: "watch out! this is fine\n",
			want: nil,
		},
		{
			name: "first line trimmed of whitespace",
			text: "! Undefined control sequence.   \nl.7 \\baz\n",
			want: []Record{
				{Message: "! Undefined control sequence.", Ref: SingleLine(7)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractErrors(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractErrors(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractErrorsUsesFirstLineNumberInChunk(t *testing.T) {
	text := "! Undefined control sequence.\nsome context l.8 then l.9\n"
	got := ExtractErrors(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got))
	}
	if got[0].Ref != SingleLine(8) {
		t.Errorf("Ref = %v, want line 8", got[0].Ref)
	}
}
