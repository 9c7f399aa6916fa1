package snippet

import (
	"errors"
	"testing"

	"github.com/dshills/copyline/internal/engine/buffer"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		tpl   string
		text  string
		stops []Stop
	}{
		{
			name: "literal only",
			tpl:  "plain text",
			text: "plain text",
		},
		{
			name: "two stops",
			tpl:  "\nfoo ${0:BAR} baz ${1:QUX} end",
			text: "\nfoo BAR baz QUX end",
			stops: []Stop{
				{Index: 0, Range: buffer.NewRange(5, 8)},
				{Index: 1, Range: buffer.NewRange(13, 16)},
			},
		},
		{
			name: "mirror shows stop default",
			tpl:  "${0:a} $0 $0",
			text: "a a a",
			stops: []Stop{
				{Index: 0, Range: buffer.NewRange(0, 1)},
				{Index: 0, Range: buffer.NewRange(2, 3), Mirror: true},
				{Index: 0, Range: buffer.NewRange(4, 5), Mirror: true},
			},
		},
		{
			name:  "empty stop",
			tpl:   "x${2}y",
			text:  "xy",
			stops: []Stop{{Index: 2, Range: buffer.NewRange(1, 1)}},
		},
		{
			name: "escapes",
			tpl:  `cost \$5 ${0:a\}b} \\`,
			text: `cost $5 a}b \`,
			stops: []Stop{
				{Index: 0, Range: buffer.NewRange(8, 11)},
			},
		},
		{
			name: "dollar without index is literal",
			tpl:  "$x $",
			text: "$x $",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.tpl)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if got.Text != tt.text {
				t.Errorf("Expand().Text = %q, want %q", got.Text, tt.text)
			}
			if len(got.Stops) != len(tt.stops) {
				t.Fatalf("Expand().Stops = %v, want %v", got.Stops, tt.stops)
			}
			for i := range tt.stops {
				if got.Stops[i] != tt.stops[i] {
					t.Errorf("Stops[%d] = %+v, want %+v", i, got.Stops[i], tt.stops[i])
				}
			}
		})
	}
}

func TestExpandErrors(t *testing.T) {
	tests := []struct {
		tpl  string
		want error
	}{
		{"${0:open", ErrUnterminated},
		{"${0", ErrUnterminated},
		{"${x:y}", ErrBadIndex},
		{"${0-y}", ErrBadIndex},
	}

	for _, tt := range tests {
		if _, err := Expand(tt.tpl); !errors.Is(err, tt.want) {
			t.Errorf("Expand(%q) error = %v, want %v", tt.tpl, err, tt.want)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `a$b}c\d`, "${0:x}", `\`} {
		got, err := Expand(Escape(s))
		if err != nil {
			t.Fatalf("Expand(Escape(%q)) error = %v", s, err)
		}
		if got.Text != s || len(got.Stops) != 0 {
			t.Errorf("Expand(Escape(%q)) = %q with %d stops", s, got.Text, len(got.Stops))
		}
	}
}

func TestStopsFor(t *testing.T) {
	exp, err := Expand("${0:a}${1:b}$0")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(exp.StopsFor(0)); got != 2 {
		t.Errorf("StopsFor(0) returned %d stops, want 2", got)
	}
	if got := len(exp.StopsFor(3)); got != 0 {
		t.Errorf("StopsFor(3) returned %d stops, want 0", got)
	}
}
