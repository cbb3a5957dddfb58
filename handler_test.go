package barter

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := Options{
		"escrow": json.RawMessage(`{"fee": 5}`),
		"vault":  json.RawMessage(`{"fee": "five"}`),
	}
	type conf struct {
		Fee int `json:"fee"`
	}

	cases := map[string]struct {
		key     string
		want    conf
		wantErr *errors.Error
	}{
		"present":      {key: "escrow", want: conf{Fee: 5}},
		"missing":      {key: "token", want: conf{Fee: 1}},
		"wrong format": {key: "vault", want: conf{Fee: 1}, wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := conf{Fee: 1}
			err := opts.ReadOptions(tc.key, &got)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
