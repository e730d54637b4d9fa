package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeReply(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "A short answer.",
			want: "A short answer.",
		},
		{
			name: "windows line endings",
			in:   "first\r\nsecond\rthird",
			want: "first\nsecond\nthird",
		},
		{
			name: "collapses runs of spaces",
			in:   "too   many\t\tspaces",
			want: "too many spaces",
		},
		{
			name: "trims each line",
			in:   "  indented  \n  again  ",
			want: "indented\nagain",
		},
		{
			name: "caps blank lines at one",
			in:   "para one\n\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "strips control characters",
			in:   "safe\x00\x07text",
			want: "safe text",
		},
		{
			name: "drops invisible unicode marks",
			in:   "\uFEFFclean\u00ADtext\u200E",
			want: "cleantext",
		},
		{
			name: "normalizes unicode spaces and separators",
			in:   "left\u00A0right\u2028next line",
			want: "left right\nnext line",
		},
		{
			name: "whitespace only becomes empty",
			in:   "  \n\t \u200B ",
			want: "",
		},
		{
			name: "empty input stays empty",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, sanitizeReply(tc.in))
		})
	}
}
