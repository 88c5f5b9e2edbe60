package sale

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

// BonusPercent returns the percent of the first tier whose boundary has not
// passed yet. Once all boundaries passed there is no bonus.
func BonusPercent(tiers []*BonusTier, now crowdsale.UnixTime) uint32 {
	for _, t := range tiers {
		if now < t.Until {
			return t.Percent
		}
	}
	return 0
}

// SplitCap returns the part of value that fits below the hard cap and the
// change that must stay with the contributor. ErrCapReached is returned
// when there is no room left at all.
func SplitCap(value, raised, hardCap *coin.Amount) (accepted, change *coin.Amount, err error) {
	room, err := hardCap.Sub(raised)
	if err != nil || room.IsZero() {
		return nil, nil, errors.Wrapf(errors.ErrCapReached, "raised %s of %s", raised, hardCap)
	}
	accepted = coin.Min(value, room)
	change, err = value.Sub(accepted)
	if err != nil {
		return nil, nil, err
	}
	return accepted, change, nil
}

// Issue returns the number of units issued for the accepted value.
// The result is truncated, fractions of the smallest unit are dropped.
func Issue(accepted *coin.Amount, rate uint64, bonusPercent uint32) *coin.Amount {
	issued, _ := accepted.Mul(rate).Mul(100 + uint64(bonusPercent)).Div(100)
	return issued
}

// OwnerShares returns the bonus minted for each of n owners.
func OwnerShares(policy BonusPolicy, bonus *coin.Amount, n int) []*coin.Amount {
	if n <= 0 {
		return nil
	}
	share := bonus.Clone()
	if policy == SplitBonus {
		share, _ = bonus.Div(uint64(n))
	}
	shares := make([]*coin.Amount, n)
	for i := range shares {
		shares[i] = share.Clone()
	}
	return shares
}
