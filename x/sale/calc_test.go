package sale

import (
	"testing"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonusPercent(t *testing.T) {
	tiers := []*BonusTier{
		{Until: 100, Percent: 35},
		{Until: 200, Percent: 20},
		{Until: 300, Percent: 5},
	}
	cases := map[string]struct {
		tiers []*BonusTier
		now   crowdsale.UnixTime
		want  uint32
	}{
		"first tier":                   {tiers: tiers, now: 0, want: 35},
		"last second of the first":     {tiers: tiers, now: 99, want: 35},
		"boundary belongs to the next": {tiers: tiers, now: 100, want: 20},
		"last tier":                    {tiers: tiers, now: 299, want: 5},
		"all boundaries passed":        {tiers: tiers, now: 300, want: 0},
		"no tiers":                     {now: 50, want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, BonusPercent(tc.tiers, tc.now))
		})
	}
}

func TestSplitCap(t *testing.T) {
	cases := map[string]struct {
		value, raised, hardCap string
		wantAccepted           string
		wantChange             string
		wantErr                *errors.Error
	}{
		"fits": {
			value: "20finney", raised: "0", hardCap: "400finney",
			wantAccepted: "20finney", wantChange: "0",
		},
		"fills the cap exactly": {
			value: "380finney", raised: "20finney", hardCap: "400finney",
			wantAccepted: "380finney", wantChange: "0",
		},
		"partial acceptance": {
			value: "2000finney", raised: "20finney", hardCap: "400finney",
			wantAccepted: "380finney", wantChange: "1620finney",
		},
		"cap reached": {
			value: "1", raised: "400finney", hardCap: "400finney",
			wantErr: errors.ErrCapReached,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			accepted, change, err := SplitCap(coin.MustParse(tc.value), coin.MustParse(tc.raised), coin.MustParse(tc.hardCap))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, coin.MustParse(tc.wantAccepted), accepted)
			assert.Equal(t, coin.MustParse(tc.wantChange), change)
		})
	}
}

func TestIssue(t *testing.T) {
	cases := map[string]struct {
		accepted string
		rate     uint64
		bonus    uint32
		want     string
	}{
		"with time bonus":  {accepted: "20finney", rate: 100000, bonus: 35, want: "2700ether"},
		"without bonus":    {accepted: "20finney", rate: 100000, bonus: 0, want: "2000ether"},
		"time and channel": {accepted: "20finney", rate: 100000, bonus: 37, want: "2740ether"},
		"truncated":        {accepted: "1", rate: 1, bonus: 35, want: "1"},
		"zero rate":        {accepted: "1", rate: 0, bonus: 99, want: "0"},
		"rounding down":    {accepted: "3", rate: 1, bonus: 50, want: "4"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := Issue(coin.MustParse(tc.accepted), tc.rate, tc.bonus)
			assert.Equal(t, coin.MustParse(tc.want), got)
		})
	}
}

func TestOwnerShares(t *testing.T) {
	bonus := coin.NewAmount(100)

	shares := OwnerShares(PerOwnerBonus, bonus, 3)
	assert.Equal(t, []*coin.Amount{coin.NewAmount(100), coin.NewAmount(100), coin.NewAmount(100)}, shares)

	shares = OwnerShares(SplitBonus, bonus, 3)
	assert.Equal(t, []*coin.Amount{coin.NewAmount(33), coin.NewAmount(33), coin.NewAmount(33)}, shares)

	assert.Nil(t, OwnerShares(SplitBonus, bonus, 0))
}

func TestPhase(t *testing.T) {
	p := &Params{Start: 100, End: 200, HardCap: coin.NewAmount(50), MinCap: coin.NewAmount(10)}
	cases := map[string]struct {
		state State
		now   crowdsale.UnixTime
		want  Phase
	}{
		"before":           {state: State{}, now: 99, want: Before},
		"active at start":  {state: State{}, now: 100, want: Active},
		"ended by time":    {state: State{Raised: coin.NewAmount(20)}, now: 200, want: Ended},
		"ended by cap":     {state: State{Raised: coin.NewAmount(50)}, now: 150, want: Ended},
		"success":          {state: State{Raised: coin.NewAmount(10), Finalized: true}, now: 150, want: Success},
		"failure":          {state: State{Raised: coin.NewAmount(9), Finalized: true}, now: 300, want: Failure},
		"finalized wins":   {state: State{Raised: coin.NewAmount(50), Finalized: true}, now: 0, want: Success},
		"nothing raised":   {state: State{Finalized: true}, now: 300, want: Failure},
		"last active time": {state: State{Raised: coin.NewAmount(49)}, now: 199, want: Active},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.Phase(p, tc.now))
		})
	}
}

func TestParamsValidate(t *testing.T) {
	valid := func() *Params {
		return &Params{
			Start:   100,
			End:     200,
			HardCap: coin.NewAmount(50),
			MinCap:  coin.NewAmount(10),
			Rate:    1,
			Tiers:   []*BonusTier{{Until: 120, Percent: 35}, {Until: 150, Percent: 10}},
			Gate:    "board",
		}
	}
	cases := map[string]struct {
		mutate  func(*Params)
		wantErr *errors.Error
	}{
		"valid":                  {mutate: func(*Params) {}},
		"end before start":       {mutate: func(p *Params) { p.End = 50 }, wantErr: errors.ErrInput},
		"no hard cap":            {mutate: func(p *Params) { p.HardCap = nil }, wantErr: errors.ErrInput},
		"min cap above hard":     {mutate: func(p *Params) { p.MinCap = coin.NewAmount(51) }, wantErr: errors.ErrInput},
		"zero rate":              {mutate: func(p *Params) { p.Rate = 0 }, wantErr: errors.ErrInput},
		"tier boundaries":        {mutate: func(p *Params) { p.Tiers[1].Until = 120 }, wantErr: errors.ErrInput},
		"growing bonus":          {mutate: func(p *Params) { p.Tiers[1].Percent = 35 }, wantErr: errors.ErrInput},
		"bad gate":               {mutate: func(p *Params) { p.Gate = "" }, wantErr: errors.ErrInput},
		"unknown bonus policy":   {mutate: func(p *Params) { p.BonusPolicy = 9 }, wantErr: errors.ErrInput},
		"tier bonus too high":    {mutate: func(p *Params) { p.Tiers[0].Percent = MaxBonusPercent + 1 }, wantErr: errors.ErrInput},
		"channel bonus too high": {mutate: func(p *Params) { p.ChannelBonus = MaxBonusPercent + 1 }, wantErr: errors.ErrInput},
		"largest bonuses":        {mutate: func(p *Params) { p.Tiers[0].Percent = MaxBonusPercent; p.ChannelBonus = MaxBonusPercent }},
		"zero bonus last tier":   {mutate: func(p *Params) { p.Tiers = append(p.Tiers, &BonusTier{Until: 160}) }},
		"a single closing tier":  {mutate: func(p *Params) { p.Tiers = []*BonusTier{{Until: 160}} }},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			err := p.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}
