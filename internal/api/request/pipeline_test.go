package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineForm_Trim(t *testing.T) {
	f := PipelineForm{Name: " nightly ", SourceType: " connection ", SourceConnectionID: " 42 "}.Trim()
	assert.Equal(t, "nightly", f.Name)
	assert.Equal(t, "connection", f.SourceType)
	assert.Equal(t, "42", f.SourceConnectionID)
}

func TestPipelineForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    PipelineForm
		message string
	}{
		{"missing name", PipelineForm{SourceType: "connection", TargetType: "connection"}, "Pipeline name is required"},
		{"missing source", PipelineForm{Name: "p", TargetType: "connection"}, "Source type is required"},
		{"missing target", PipelineForm{Name: "p", SourceType: "connection"}, "Target type is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	assert.NoError(t, PipelineForm{Name: "p", SourceType: "s3", TargetType: "connection"}.Validate())
}
