package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "Recibido", want: StatusReceived},
		{in: "entrevistado", want: StatusInterviewed},
		{in: "  AVANZADO ", want: StatusAdvanced},
		{in: "completado", want: StatusCompleted},
		{in: "Rechazado", want: StatusRejected},
		{in: "Hired", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Stage(t *testing.T) {
	for i, st := range Statuses {
		assert.Equal(t, i, st.Stage())
	}
	assert.Equal(t, -1, Status("Contratado").Stage())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusReceived.IsTerminal())
	assert.False(t, StatusAdvanced.IsTerminal())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("empresa")
	require.NoError(t, err)
	assert.Equal(t, RoleCompany, r)

	r, err = ParseRole("usuario")
	require.NoError(t, err)
	assert.Equal(t, RoleSeeker, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}
