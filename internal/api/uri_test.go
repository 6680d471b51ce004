// Copyright Redwood Labs, 2026. All rights reserved.

package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		from    string
		to      string
		params  url.Values
		want    string
		wantErr bool
	}{
		{
			name: "plain endpoint without query",
			base: "https://api.example",
			from: "docx",
			to:   "pdf",
			want: "https://api.example/convert/docx/to/pdf",
		},
		{
			name: "trailing slash on base is trimmed",
			base: "https://api.example/",
			from: "pdf",
			to:   "merge",
			want: "https://api.example/convert/pdf/to/merge",
		},
		{
			name:   "query parameters are percent-encoded",
			base:   "https://api.example",
			from:   "web",
			to:     "pdf",
			params: url.Values{"Url": {"https://example.com/a b"}},
			want:   "https://api.example/convert/web/to/pdf?Url=https%3A%2F%2Fexample.com%2Fa+b",
		},
		{
			name:   "empty params omit the query string",
			base:   "https://api.example",
			from:   "docx",
			to:     "pdf",
			params: url.Values{},
			want:   "https://api.example/convert/docx/to/pdf",
		},
		{
			name: "hyphen and underscore allowed in format tags",
			base: "https://api.example",
			from: "dwg_template",
			to:   "pdf-a",
			want: "https://api.example/convert/dwg_template/to/pdf-a",
		},
		{
			name:    "slash in source format rejected",
			base:    "https://api.example",
			from:    "docx/evil",
			to:      "pdf",
			wantErr: true,
		},
		{
			name:    "empty target format rejected",
			base:    "https://api.example",
			from:    "docx",
			to:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.base, tt.from, tt.to, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildURL_DefaultBase(t *testing.T) {
	got, err := BuildURL("", "docx", "pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/convert/docx/to/pdf", got)
}
