package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRequest_NormalizeDefaults(t *testing.T) {
	req := &QueryRequest{Query: "  What is diabetes?  "}

	req.Normalize()

	assert.Equal(t, "What is diabetes?", req.Query)
	require.NotNil(t, req.IncludeSources)
	assert.True(t, *req.IncludeSources)
	assert.Equal(t, DefaultMaxSources, req.MaxSources)
}

func TestQueryRequest_NormalizeKeepsExplicitValues(t *testing.T) {
	f := false
	req := &QueryRequest{Query: "What is diabetes?", IncludeSources: &f, MaxSources: 7}

	req.Normalize()

	assert.False(t, *req.IncludeSources)
	assert.Equal(t, 7, req.MaxSources)
}

func TestQueryRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     QueryRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  QueryRequest{Query: "What is diabetes?", MaxSources: 3},
		},
		{
			name:    "empty query",
			req:     QueryRequest{Query: "", MaxSources: 3},
			wantErr: "must not be empty",
		},
		{
			name:    "too short",
			req:     QueryRequest{Query: "hi", MaxSources: 3},
			wantErr: "at least 3 characters",
		},
		{
			name: "minimum length accepted",
			req:  QueryRequest{Query: "flu", MaxSources: 3},
		},
		{
			name:    "too long",
			req:     QueryRequest{Query: strings.Repeat("a", MaxQueryLength+1), MaxSources: 3},
			wantErr: "at most 1000 characters",
		},
		{
			name: "maximum length accepted",
			req:  QueryRequest{Query: strings.Repeat("a", MaxQueryLength), MaxSources: 3},
		},
		{
			name:    "two multibyte characters below minimum",
			req:     QueryRequest{Query: "你好", MaxSources: 3},
			wantErr: "at least 3 characters",
		},
		{
			name: "three multibyte characters accepted",
			req:  QueryRequest{Query: "头痛吗", MaxSources: 3},
		},
		{
			name: "multibyte query counted in characters not bytes",
			req:  QueryRequest{Query: strings.Repeat("痛", 400), MaxSources: 3},
		},
		{
			name:    "multibyte query over maximum",
			req:     QueryRequest{Query: strings.Repeat("痛", MaxQueryLength+1), MaxSources: 3},
			wantErr: "at most 1000 characters",
		},
		{
			name:    "max_sources below minimum",
			req:     QueryRequest{Query: "What is diabetes?", MaxSources: 0},
			wantErr: "max_sources must be between",
		},
		{
			name:    "max_sources above maximum",
			req:     QueryRequest{Query: "What is diabetes?", MaxSources: 11},
			wantErr: "max_sources must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestQueryRequest_WantsSources(t *testing.T) {
	yes, no := true, false

	assert.True(t, (&QueryRequest{}).WantsSources())
	assert.True(t, (&QueryRequest{IncludeSources: &yes}).WantsSources())
	assert.False(t, (&QueryRequest{IncludeSources: &no}).WantsSources())
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("Validation Error", "query too short", map[string]interface{}{"field": "query"})

	assert.Equal(t, "Validation Error", resp.Error)
	assert.Equal(t, "query too short", resp.Message)
	assert.Equal(t, "query", resp.Details["field"])
	assert.NotEmpty(t, resp.Timestamp)
}
