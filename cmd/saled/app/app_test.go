package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/crypto"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/mixbytes/crowdsale/x/funds"
	"github.com/mixbytes/crowdsale/x/multiowned"
	"github.com/mixbytes/crowdsale/x/sale"
	"github.com/mixbytes/crowdsale/x/sigs"
	"github.com/mixbytes/crowdsale/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "sale-test-chain"

var genesisTime = time.Date(2019, 3, 1, 10, 30, 0, 0, time.UTC)

type chain struct {
	t         *testing.T
	runner    *weavetest.ChainRunner
	clock     clockwork.FakeClock
	owners    []*crypto.PrivateKey
	investors []*crypto.PrivateKey
}

// newChain starts the application with the dev genesis, two investors
// holding 100 ether each and a gate of three derived owner keys.
func newChain(t *testing.T) *chain {
	t.Helper()
	application, err := Application("saled-test", Stack(), TxDecoder, "", false)
	require.NoError(t, err)
	application.WithLogger(log.NewNopLogger())

	c := &chain{t: t, clock: clockwork.NewFakeClockAt(genesisTime)}
	c.runner = weavetest.NewChainRunner(t, application, chainID, c.clock)

	seed := make([]byte, 32)
	gate := multiowned.Gate{Name: DevGate, Required: 2}
	for i := uint32(0); i < DevOwners; i++ {
		key, err := crypto.DeriveKey(seed, crypto.KeyPath(i))
		require.NoError(t, err)
		c.owners = append(c.owners, key)
		gate.Owners = append(gate.Owners, key.PublicKey().Address())
	}
	var wallets []cash.GenesisAccount
	for i := 0; i < 2; i++ {
		key := crypto.GenPrivKeyEd25519()
		c.investors = append(c.investors, key)
		wallets = append(wallets, cash.GenesisAccount{
			Address: key.PublicKey().Address(),
			Balance: coin.MustParse("100ether"),
		})
	}

	raw, err := DevGenesis(gate, wallets, genesisTime)
	require.NoError(t, err)
	c.runner.InitChain(raw)
	return c
}

// deliver signs the message with given keys and delivers it in a new block.
func (c *chain) deliver(msg crowdsale.Msg, signers ...*crypto.PrivateKey) (*crowdsale.DeliverResult, error) {
	c.t.Helper()
	tx, err := NewTx(msg)
	require.NoError(c.t, err)
	for _, key := range signers {
		seq, err := sigs.NextSequence(c.runner, key.PublicKey())
		require.NoError(c.t, err)
		sig, err := sigs.SignTx(key, tx, chainID, seq)
		require.NoError(c.t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}

	var (
		res   *crowdsale.DeliverResult
		txErr error
	)
	c.runner.InBlock(func(app weavetest.ChainApp) error {
		resp, err := app.DeliverTx(tx)
		if err != nil {
			txErr = err
			return nil
		}
		res = &crowdsale.DeliverResult{Data: resp.Data, Log: resp.Log}
		return nil
	})
	return res, txErr
}

// confirm runs the action through the gate with the first two owners.
func (c *chain) confirm(action crowdsale.Msg) {
	c.t.Helper()
	propose, err := multiowned.NewProposeMsg(DevGate, action)
	require.NoError(c.t, err)
	_, err = c.deliver(propose, c.owners[0])
	require.NoError(c.t, err)
	_, err = c.deliver(propose, c.owners[1])
	require.NoError(c.t, err)
}

func (c *chain) contribute(investor *crypto.PrivateKey, amount string, channel uint32) *sale.Receipt {
	c.t.Helper()
	msg := &sale.ContributeMsg{
		Contributor: investor.PublicKey().Address(),
		Amount:      coin.MustParse(amount),
		Channel:     channel,
	}
	res, err := c.deliver(msg, investor)
	require.NoError(c.t, err)
	var receipt sale.Receipt
	require.NoError(c.t, receipt.Unmarshal(res.Data))
	return &receipt
}

func (c *chain) cash(addr crowdsale.Address) *coin.Amount {
	c.t.Helper()
	amount, err := cash.NewController().Balance(c.runner, addr)
	require.NoError(c.t, err)
	return amount
}

func (c *chain) tokens(addr crowdsale.Address) *coin.Amount {
	c.t.Helper()
	amount, err := token.NewKeeper(nil).Balance(c.runner, addr)
	require.NoError(c.t, err)
	return amount
}

func (c *chain) escrow() *funds.Registry {
	c.t.Helper()
	reg, err := funds.NewKeeper(nil, cash.NewController()).Registry(c.runner)
	require.NoError(c.t, err)
	return reg
}

func TestSuccessfulSale(t *testing.T) {
	c := newChain(t)
	alice, bob := c.investors[0], c.investors[1]

	// The sale starts at the next full hour.
	_, err := c.deliver(&sale.ContributeMsg{
		Contributor: alice.PublicKey().Address(),
		Amount:      coin.MustParse("1ether"),
	}, alice)
	require.Error(t, err)
	assert.True(t, err.(*weavetest.TxError).Is(errors.ErrNotActive), "%+v", err)

	c.clock.Advance(time.Hour)

	// A single owner is not enough to provision channels.
	propose, err := multiowned.NewProposeMsg(DevGate, &sale.ProvisionChannelsMsg{Count: 2})
	require.NoError(t, err)
	_, err = c.deliver(propose, c.owners[0])
	require.NoError(t, err)
	_, err = c.deliver(&sale.ContributeMsg{
		Contributor: alice.PublicKey().Address(),
		Amount:      coin.MustParse("1ether"),
		Channel:     1,
	}, alice)
	require.Error(t, err)

	_, err = c.deliver(propose, c.owners[2])
	require.NoError(t, err)

	first := c.contribute(alice, "60ether", 1)
	assert.Equal(t, coin.MustParse("60ether"), first.Accepted)
	assert.True(t, first.Change.IsZero())
	assert.NotZero(t, first.Bonus)

	// After the first day the time bonus is over.
	c.clock.Advance(48 * time.Hour)
	second := c.contribute(bob, "50ether", 0)
	assert.Equal(t, uint32(0), second.Bonus)

	assert.Equal(t, first.Issued, c.tokens(alice.PublicKey().Address()))
	assert.Equal(t, second.Issued, c.tokens(bob.PublicKey().Address()))
	assert.Equal(t, coin.MustParse("40ether"), c.cash(alice.PublicKey().Address()))
	assert.Equal(t, coin.MustParse("110ether"), c.cash(funds.EscrowAddress()))

	// Funds are locked until the sale is finalized.
	beneficiary := crowdsale.NewAddress([]byte("beneficiary"))
	_, err = c.deliver(&funds.SendValueMsg{Destination: beneficiary, Amount: coin.MustParse("1ether")}, c.owners[0])
	require.Error(t, err)

	c.clock.Advance(7 * 24 * time.Hour)
	_, err = c.deliver(&sale.CheckTimeMsg{}, bob)
	require.NoError(t, err)
	assert.Equal(t, funds.Success, c.escrow().State)
	for _, owner := range c.owners {
		assert.Equal(t, coin.MustParse("1ether"), c.tokens(owner.PublicKey().Address()))
	}

	c.confirm(&funds.SendValueMsg{Destination: beneficiary, Amount: coin.MustParse("110ether")})
	assert.Equal(t, coin.MustParse("110ether"), c.cash(beneficiary))
	assert.True(t, c.cash(funds.EscrowAddress()).IsZero())
}

func TestFailedSaleRefunds(t *testing.T) {
	c := newChain(t)
	alice, bob := c.investors[0], c.investors[1]
	c.clock.Advance(time.Hour)

	c.contribute(alice, "30ether", 0)
	c.contribute(bob, "20ether", 0)

	// Refunds are not available while the sale gathers value.
	_, err := c.deliver(&funds.WithdrawPaymentsMsg{Contributor: alice.PublicKey().Address()}, alice)
	require.Error(t, err)
	assert.True(t, err.(*weavetest.TxError).Is(errors.ErrState), "%+v", err)

	c.clock.Advance(8 * 24 * time.Hour)
	_, err = c.deliver(&sale.CheckTimeMsg{}, alice)
	require.NoError(t, err)
	assert.Equal(t, funds.Refunding, c.escrow().State)

	// Nobody can withdraw on behalf of the contributor.
	_, err = c.deliver(&funds.WithdrawPaymentsMsg{Contributor: alice.PublicKey().Address()}, bob)
	require.Error(t, err)
	assert.True(t, err.(*weavetest.TxError).Is(errors.ErrUnauthorized), "%+v", err)

	for _, investor := range c.investors {
		_, err := c.deliver(&funds.WithdrawPaymentsMsg{Contributor: investor.PublicKey().Address()}, investor)
		require.NoError(t, err)
		assert.Equal(t, coin.MustParse("100ether"), c.cash(investor.PublicKey().Address()))
	}

	_, err = c.deliver(&funds.WithdrawPaymentsMsg{Contributor: alice.PublicKey().Address()}, alice)
	require.Error(t, err)
	assert.True(t, err.(*weavetest.TxError).Is(errors.ErrNothingToWithdraw), "%+v", err)
	assert.True(t, c.cash(funds.EscrowAddress()).IsZero())
}

func TestGenInitOptions(t *testing.T) {
	raw, err := GenInitOptions([]string{"00112233445566778899aabbccddeeff"})
	require.NoError(t, err)

	var opts crowdsale.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	require.NoError(t, Initializers().FromGenesis(opts, store.MemStore()))

	_, err = GenInitOptions([]string{"not hex"})
	require.Error(t, err)
	assert.True(t, errors.ErrInput.Is(err))
}
