package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkillID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "simple", raw: "code-review"},
		{name: "with underscore", raw: "pdf_tools"},
		{name: "with digits", raw: "skill2"},
		{name: "single char", raw: "a"},
		{name: "max length", raw: strings.Repeat("a", 64)},
		{name: "empty", raw: "", wantErr: true},
		{name: "too long", raw: strings.Repeat("a", 65), wantErr: true},
		{name: "uppercase", raw: "CodeReview", wantErr: true},
		{name: "leading dash", raw: "-skill", wantErr: true},
		{name: "leading underscore", raw: "_skill", wantErr: true},
		{name: "path separator", raw: "a/b", wantErr: true},
		{name: "dot segment", raw: "..", wantErr: true},
		{name: "space", raw: "my skill", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSkillID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.raw, id.String())
		})
	}
}
