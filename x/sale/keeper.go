package sale

import (
	"strconv"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
	"github.com/mixbytes/crowdsale/x/funds"
	"github.com/mixbytes/crowdsale/x/multiowned"
	"github.com/mixbytes/crowdsale/x/token"
)

// Escrow keeps the contributed value until the sale is over.
type Escrow interface {
	Record(ctx crowdsale.Context, db crowdsale.KVStore, contributor crowdsale.Address, amount *coin.Amount) error
	SetState(ctx crowdsale.Context, db crowdsale.KVStore, target funds.State) error
}

// Issuer mints the units bought by contributors.
type Issuer interface {
	Mint(ctx crowdsale.Context, db crowdsale.KVStore, beneficiary crowdsale.Address, amount *coin.Amount) error
	SetTransfersEnabled(ctx crowdsale.Context, db crowdsale.KVStore, enabled bool) error
}

// Gates gives access to the gate owning the sale.
type Gates interface {
	Gate(db crowdsale.ReadOnlyKVStore, name string) (*multiowned.Gate, error)
	AmIOwner(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore, name string) (crowdsale.Address, error)
}

var (
	_ Escrow = funds.Keeper{}
	_ Issuer = token.Keeper{}
	_ Gates  = multiowned.Controller{}
)

// Keeper runs the sale.
type Keeper struct {
	auth        x.Authenticator
	escrow      Escrow
	issuer      Issuer
	gates       Gates
	params      ParamsBucket
	state       StateBucket
	investments InvestmentBucket
	channels    ChannelBucket
}

func NewKeeper(auth x.Authenticator, escrow Escrow, issuer Issuer, gates Gates) Keeper {
	return Keeper{
		auth:        auth,
		escrow:      escrow,
		issuer:      issuer,
		gates:       gates,
		params:      NewParamsBucket(),
		state:       NewStateBucket(),
		investments: NewInvestmentBucket(),
		channels:    NewChannelBucket(),
	}
}

type snapshot struct {
	params *Params
	state  *State
	conf   *Configuration
	now    crowdsale.UnixTime
}

func (k Keeper) load(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore) (*snapshot, error) {
	p, err := k.params.Get(db)
	if err != nil {
		return nil, err
	}
	st, err := k.state.Get(db)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	now := crowdsale.MustBlockTime(ctx)
	if conf.TimeOverride && !st.Now.IsZero() {
		now = st.Now
	}
	return &snapshot{params: p, state: st, conf: conf, now: now}, nil
}

// Phase returns the current phase of the sale.
func (k Keeper) Phase(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore) (Phase, error) {
	s, err := k.load(ctx, db)
	if err != nil {
		return 0, err
	}
	return s.state.Phase(s.params, s.now), nil
}

// Investment returns the contributions and issued units of the contributor.
func (k Keeper) Investment(db crowdsale.ReadOnlyKVStore, contributor crowdsale.Address) (*Investment, error) {
	return k.investments.Get(db, contributor)
}

// InvestmentByChannel returns the value invested through the channel.
func (k Keeper) InvestmentByChannel(db crowdsale.ReadOnlyKVStore, id uint32) (*coin.Amount, error) {
	return k.channels.Get(db, id)
}

// CheckContribution runs the read only part of Contribute. It fails the same
// way Contribute would for a missing signature, a closed sale, an empty
// contribution, an unknown channel or a reached cap.
func (k Keeper) CheckContribution(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore, contributor crowdsale.Address, value *coin.Amount, channel uint32) error {
	_, _, err := k.admit(ctx, db, contributor, value, channel)
	return err
}

// admit loads the sale and checks that the contribution can be taken. A late
// contribution that only finalizes the sale is admitted with phase Ended.
func (k Keeper) admit(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore, contributor crowdsale.Address, value *coin.Amount, channel uint32) (*snapshot, Phase, error) {
	if !k.auth.HasAddress(ctx, contributor) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "contributor must sign")
	}
	s, err := k.load(ctx, db)
	if err != nil {
		return nil, 0, err
	}
	p, st := s.params, s.state

	switch phase := st.Phase(p, s.now); {
	case phase == Ended && s.conf.FinishOnLateTx:
		return s, phase, nil
	case phase != Active:
		return nil, phase, errors.Wrapf(errors.ErrNotActive, "sale is %s", phase)
	}
	if value.IsZero() {
		return nil, 0, errors.Wrap(errors.ErrZeroValue, "contribution")
	}
	if channel > st.Channels {
		return nil, 0, errors.Wrapf(errors.ErrInput, "channel %d not provisioned", channel)
	}
	if _, _, err := SplitCap(value, st.Raised, p.HardCap); err != nil {
		return nil, 0, err
	}
	return s, Active, nil
}

// Contribute buys units for value taken from the contributor's wallet.
// Channel zero means no payment channel. Only the part of value that fits
// below the hard cap is taken, the rest is reported as change.
func (k Keeper) Contribute(ctx crowdsale.Context, db crowdsale.KVStore, contributor crowdsale.Address, value *coin.Amount, channel uint32) (*Receipt, error) {
	s, phase, err := k.admit(ctx, db, contributor, value, channel)
	if err != nil {
		return nil, err
	}
	p, st := s.params, s.state
	if phase == Ended {
		if err := k.finalize(ctx, db, p, st); err != nil {
			return nil, err
		}
		if err := k.state.Save(db, st); err != nil {
			return nil, err
		}
		return &Receipt{Accepted: &coin.Amount{}, Change: value.Clone(), Issued: &coin.Amount{}, Finalized: true}, nil
	}

	accepted, change, err := SplitCap(value, st.Raised, p.HardCap)
	if err != nil {
		return nil, err
	}
	bonus := BonusPercent(p.Tiers, s.now)
	if channel != 0 {
		bonus += p.ChannelBonus
	}
	// both terms are at most MaxBonusPercent, see Params.Validate
	issued := Issue(accepted, p.Rate, bonus)

	saleCtx := withSale(ctx)
	if err := k.escrow.Record(saleCtx, db, contributor, accepted); err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	if err := k.issuer.Mint(saleCtx, db, contributor, issued); err != nil {
		return nil, errors.Wrap(err, "mint")
	}

	inv, err := k.investments.Get(db, contributor)
	if err != nil {
		return nil, err
	}
	inv.Contributed = inv.Contributed.Add(accepted)
	inv.Issued = inv.Issued.Add(issued)
	if err := k.investments.Save(db, contributor, inv); err != nil {
		return nil, err
	}
	if channel != 0 {
		total, err := k.channels.Get(db, channel)
		if err != nil {
			return nil, err
		}
		if err := k.channels.Save(db, channel, total.Add(accepted)); err != nil {
			return nil, err
		}
	}

	st.Raised = st.Raised.Add(accepted)
	receipt := &Receipt{Accepted: accepted, Change: change, Issued: issued, Bonus: bonus}
	if st.Raised.Cmp(p.HardCap) >= 0 {
		if err := k.finalize(ctx, db, p, st); err != nil {
			return nil, err
		}
		receipt.Finalized = true
	}
	if err := k.state.Save(db, st); err != nil {
		return nil, err
	}

	contributions.WithLabelValues(strconv.FormatUint(uint64(channel), 10)).Inc()
	raisedGauge.Set(amountFloat(st.Raised))
	return receipt, nil
}

// CheckTime finalizes the sale if it has ended. It returns true if this call
// finalized the sale. Calling it at any other time does nothing.
func (k Keeper) CheckTime(ctx crowdsale.Context, db crowdsale.KVStore) (bool, error) {
	s, err := k.load(ctx, db)
	if err != nil {
		return false, err
	}
	if s.state.Phase(s.params, s.now) != Ended {
		return false, nil
	}
	if err := k.finalize(ctx, db, s.params, s.state); err != nil {
		return false, err
	}
	return true, k.state.Save(db, s.state)
}

// finalize latches the outcome. The state is modified in place and must be
// saved by the caller.
func (k Keeper) finalize(ctx crowdsale.Context, db crowdsale.KVStore, p *Params, st *State) error {
	if st.Finalized {
		return nil
	}
	st.Finalized = true
	saleCtx := withSale(ctx)

	if st.Raised.Cmp(p.MinCap) < 0 {
		if err := k.escrow.SetState(saleCtx, db, funds.Refunding); err != nil {
			return errors.Wrap(err, "escrow")
		}
		finalizations.WithLabelValues("failure").Inc()
		crowdsale.GetLogger(ctx).Info("sale failed", "raised", st.Raised.String(), "min_cap", p.MinCap.String())
		return nil
	}

	if !st.OwnerBonusMinted && !p.OwnerBonus.IsZero() {
		gate, err := k.gates.Gate(db, p.Gate)
		if err != nil {
			return errors.Wrap(err, "owner gate")
		}
		shares := OwnerShares(p.BonusPolicy, p.OwnerBonus, len(gate.Owners))
		for i, owner := range gate.Owners {
			if err := k.issuer.Mint(saleCtx, db, owner, shares[i]); err != nil {
				return errors.Wrap(err, "owner bonus")
			}
		}
	}
	st.OwnerBonusMinted = true
	if err := k.escrow.SetState(saleCtx, db, funds.Success); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := k.issuer.SetTransfersEnabled(saleCtx, db, true); err != nil {
		return errors.Wrap(err, "enable transfers")
	}
	finalizations.WithLabelValues("success").Inc()
	crowdsale.GetLogger(ctx).Info("sale succeeded", "raised", st.Raised.String())
	return nil
}

// SetTime overrides the time seen by the sale. It is available to the sale
// owners only when the configuration enables it.
func (k Keeper) SetTime(ctx crowdsale.Context, db crowdsale.KVStore, now crowdsale.UnixTime) error {
	s, err := k.load(ctx, db)
	if err != nil {
		return err
	}
	if !s.conf.TimeOverride {
		return errors.Wrap(errors.ErrState, "time override is disabled")
	}
	if _, err := k.gates.AmIOwner(ctx, db, s.params.Gate); err != nil {
		return err
	}
	s.state.Now = now
	return k.state.Save(db, s.state)
}

// ProvisionChannels adds n payment channels. Only the sale gate can do it.
// It returns the ids of the first and the last new channel.
func (k Keeper) ProvisionChannels(ctx crowdsale.Context, db crowdsale.KVStore, n uint32) (uint32, uint32, error) {
	if n == 0 {
		return 0, 0, errors.Wrap(errors.ErrInput, "no channels requested")
	}
	s, err := k.load(ctx, db)
	if err != nil {
		return 0, 0, err
	}
	if !k.auth.HasAddress(ctx, multiowned.Address(s.params.Gate)) {
		return 0, 0, errors.Wrapf(errors.ErrUnauthorized, "gate %q did not confirm", s.params.Gate)
	}
	first := s.state.Channels + 1
	s.state.Channels += n
	if s.state.Channels < first {
		return 0, 0, errors.Wrap(errors.ErrOverflow, "channels")
	}
	if err := k.state.Save(db, s.state); err != nil {
		return 0, 0, err
	}
	return first, s.state.Channels, nil
}
