package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type limitRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

type selfValidating struct {
	ok bool
}

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		want      int
		wantErr   bool
		wantEmpty bool
	}{
		{name: "valid", body: `{"limit": 7}`, want: 7},
		{name: "empty body", body: "", wantErr: true, wantEmpty: true},
		{name: "malformed", body: `{"limit": 7,}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got limitRequest
			err := DecodeJSON(r, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantEmpty, errors.Is(err, ErrEmptyBody))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(limitRequest{Limit: 1}))
	assert.Error(t, ValidateRequest(limitRequest{Limit: -1}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}
