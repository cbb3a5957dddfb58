package gconf

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myconfig struct {
	Owner barter.Address
	Num   int64
	Str   string
}

func (c *myconfig) GetOwner() barter.Address {
	return c.Owner
}

func (c *myconfig) Validate() error {
	if c.Owner != nil {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "num must not be negative")
	}
	return nil
}

func (c *myconfig) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, c.Owner).
		Int64(2, c.Num).
		String(3, c.Str).
		Result()
}

func (c *myconfig) Unmarshal(raw []byte) error {
	*c = myconfig{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var b []byte
			b, err = d.Bytes()
			c.Owner = b
		case 2:
			c.Num, err = d.Int64()
		case 3:
			c.Str, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		conf        *myconfig
		wantSaveErr *errors.Error
	}{
		"all fields": {
			conf: &myconfig{Owner: bartertest.RandomAddr(t), Num: 852151421, Str: "foobar"},
		},
		"empty": {
			conf: &myconfig{},
		},
		"invalid address cannot be saved": {
			conf:        &myconfig{Owner: barter.Address("too short")},
			wantSaveErr: errors.ErrInput,
		},
		"negative number cannot be saved": {
			conf:        &myconfig{Num: -1},
			wantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.conf); !tc.wantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.wantSaveErr != nil {
				return
			}

			var got myconfig
			require.NoError(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.conf, got)

			var other myconfig
			err := Load(db, "otherpkg", &other)
			assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
		})
	}
}

func TestSaveEmptyOnCommitStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "gconf-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	commit := iavl.NewCommitStore(dir, "conf")
	require.NoError(t, Save(commit.Adapter(), "escrow", &myconfig{}))
	_, err = commit.Commit()
	require.NoError(t, err)

	raw, err := commit.Get([]byte("_c:escrow"))
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Empty(t, raw)

	got := myconfig{Num: 99}
	require.NoError(t, Load(commit, "escrow", &got))
	assert.Equal(t, myconfig{}, got)
}

func TestInitEmptyConfig(t *testing.T) {
	var opts barter.Options
	require.NoError(t, json.Unmarshal([]byte(`{"conf": {"mypkg": {}}}`), &opts))

	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, myconfig{}, got)
}

func TestInitConfig(t *testing.T) {
	owner := bartertest.RandomAddr(t)
	genesis := `{"conf": {"mypkg": {"Owner": "` + owner.String() + `", "Num": 7, "Str": "seven"}}}`

	var opts barter.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, myconfig{Owner: owner, Num: 7, Str: "seven"}, got)

	err := InitConfig(db, opts, "nopkg", &myconfig{})
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	var broken barter.Options
	require.NoError(t, json.Unmarshal([]byte(`{"conf": {"mypkg": {"Num": "x"}}}`), &broken))
	err = InitConfig(db, broken, "mypkg", &myconfig{})
	assert.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}

func TestQuery(t *testing.T) {
	db := store.MemStore()
	conf := &myconfig{Num: 3}
	require.NoError(t, Save(db, "mypkg", conf))

	qr := barter.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/gconf")
	require.NotNil(t, h)

	res, err := h.Query(db, "", []byte("mypkg"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	var got myconfig
	require.NoError(t, got.Unmarshal(res[0].Value))
	assert.Equal(t, *conf, got)

	res, err = h.Query(db, "", []byte("missing"))
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = h.Query(db, "prefix", []byte("my"))
	assert.True(t, errors.ErrInput.Is(err))
}
