package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Owner  crowdsale.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Limit  int64             `protobuf:"varint,2,opt,name=limit,proto3" json:"limit,omitempty"`
	Enable bool              `protobuf:"varint,3,opt,name=enable,proto3" json:"enable,omitempty"`
}

type testConfigPB testConfig

func (m *testConfigPB) Reset()         { *m = testConfigPB{} }
func (m *testConfigPB) String() string { return proto.CompactTextString(m) }
func (*testConfigPB) ProtoMessage()    {}

func (c *testConfig) Marshal() ([]byte, error)    { return proto.Marshal((*testConfigPB)(c)) }
func (c *testConfig) Unmarshal(raw []byte) error  { return proto.Unmarshal(raw, (*testConfigPB)(c)) }
func (c *testConfig) GetOwner() crowdsale.Address { return c.Owner }

func (c *testConfig) Validate() error {
	if c.Limit < 0 {
		return errors.Wrap(errors.ErrInput, "negative limit")
	}
	return nil
}

type updateMsg struct {
	Patch *testConfig
}

func (*updateMsg) Path() string             { return "test/update_config" }
func (*updateMsg) Marshal() ([]byte, error) { return nil, nil }
func (*updateMsg) Unmarshal([]byte) error   { return nil }
func (m *updateMsg) Validate() error        { return nil }

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var c testConfig
	err := Load(db, "test", &c)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = Save(db, "test", &testConfig{Limit: -1})
	assert.True(t, errors.ErrInput.Is(err))

	owner := weavetest.NewCondition().Address()
	require.NoError(t, Save(db, "test", &testConfig{Owner: owner, Limit: 7}))
	require.NoError(t, Load(db, "test", &c))
	assert.Equal(t, int64(7), c.Limit)
	assert.Equal(t, owner, c.Owner)
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := crowdsale.Options{
		"conf": json.RawMessage(`{"test": {"limit": 12, "enable": true}}`),
	}

	var c testConfig
	require.NoError(t, InitConfig(db, opts, "test", &c))
	var loaded testConfig
	require.NoError(t, Load(db, "test", &loaded))
	assert.Equal(t, testConfig{Limit: 12, Enable: true}, loaded)

	err := InitConfig(db, opts, "other", &c)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestUpdateConfigurationHandler(t *testing.T) {
	owner := weavetest.NewCondition()
	stranger := weavetest.NewCondition()
	newOwner := weavetest.NewCondition()

	cases := map[string]struct {
		signer  crowdsale.Condition
		patch   *testConfig
		wantErr *errors.Error
		want    testConfig
	}{
		"owner replaces the configuration": {
			signer: owner,
			patch:  &testConfig{Limit: 3},
			want:   testConfig{Owner: owner.Address(), Limit: 3},
		},
		"owner can hand the configuration over": {
			signer: owner,
			patch:  &testConfig{Owner: newOwner.Address(), Enable: true},
			want:   testConfig{Owner: newOwner.Address(), Enable: true},
		},
		"stranger is rejected": {
			signer:  stranger,
			patch:   &testConfig{Limit: 3},
			wantErr: errors.ErrUnauthorized,
		},
		"invalid configuration": {
			signer:  owner,
			patch:   &testConfig{Limit: -5},
			wantErr: errors.ErrInput,
		},
		"missing patch": {
			signer:  owner,
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			require.NoError(t, Save(db, "test", &testConfig{Owner: owner.Address(), Limit: 1, Enable: true}))

			h := NewUpdateConfigurationHandler("test", &testConfig{}, &weavetest.Auth{Signer: tc.signer})
			tx := &weavetest.Tx{Msg: &updateMsg{Patch: tc.patch}}

			_, err := h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			var got testConfig
			require.NoError(t, Load(db, "test", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
