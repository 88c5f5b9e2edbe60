package funds

import (
	"context"
	"testing"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/mixbytes/crowdsale/x/cash"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeeper(t *testing.T) {
	Convey("Escrow keeper", t, func() {
		auth := &weavetest.CtxAuth{Key: "auth"}
		cashCtrl := cash.NewController()
		keeper := NewKeeper(auth, cashCtrl)
		db := store.MemStore()

		controller := weavetest.NewCondition()
		admin := weavetest.NewCondition()
		alice := weavetest.NewCondition()
		bob := weavetest.NewCondition()
		beneficiary := weavetest.NewCondition().Address()

		So(cashCtrl.IssueCoins(db, alice.Address(), coin.NewAmount(100)), ShouldBeNil)
		So(cashCtrl.IssueCoins(db, bob.Address(), coin.NewAmount(50)), ShouldBeNil)
		So(NewRegistryBucket().Save(db, &Registry{
			State:      Gathering,
			Controller: controller.Address(),
			Admin:      admin.Address(),
		}), ShouldBeNil)

		as := func(c crowdsale.Condition) crowdsale.Context {
			return auth.SetConditions(context.Background(), c)
		}
		balance := func(addr crowdsale.Address) string {
			b, err := cashCtrl.Balance(db, addr)
			So(err, ShouldBeNil)
			return b.String()
		}

		So(keeper.Record(as(controller), db, alice.Address(), coin.NewAmount(30)), ShouldBeNil)
		So(keeper.Record(as(controller), db, bob.Address(), coin.NewAmount(20)), ShouldBeNil)
		So(keeper.Record(as(controller), db, alice.Address(), coin.NewAmount(10)), ShouldBeNil)

		Convey("Recording keeps the ledger and the held value in sync", func() {
			got, err := keeper.Contribution(db, alice.Address())
			So(err, ShouldBeNil)
			So(got.String(), ShouldEqual, "40")

			held, err := keeper.Held(db)
			So(err, ShouldBeNil)
			So(held.String(), ShouldEqual, "60")
			So(balance(alice.Address()), ShouldEqual, "60")
			So(keeper.CheckInvariant(db), ShouldBeNil)

			contributors, err := keeper.Contributors(db)
			So(err, ShouldBeNil)
			So(contributors, ShouldResemble, []crowdsale.Address{alice.Address(), bob.Address()})

			reg, err := keeper.Registry(db)
			So(err, ShouldBeNil)
			So(reg.Contributors, ShouldEqual, 2)
			So(reg.Total.String(), ShouldEqual, "60")
		})

		Convey("Only the controller records", func() {
			err := keeper.Record(as(alice), db, alice.Address(), coin.NewAmount(1))
			So(errors.ErrNotController.Is(err), ShouldBeTrue)
		})

		Convey("Nothing cannot be recorded", func() {
			err := keeper.Record(as(controller), db, alice.Address(), coin.NewAmount(0))
			So(errors.ErrZeroValue.Is(err), ShouldBeTrue)
		})

		Convey("The contribution must be paid", func() {
			err := keeper.Record(as(controller), db, bob.Address(), coin.NewAmount(31))
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Only the controller finishes gathering", func() {
			err := keeper.SetState(as(admin), db, Success)
			So(errors.ErrNotController.Is(err), ShouldBeTrue)

			err = keeper.SetState(as(controller), db, Gathering)
			So(errors.ErrTransition.Is(err), ShouldBeTrue)
		})

		Convey("When refunding", func() {
			So(keeper.SetState(as(controller), db, Refunding), ShouldBeNil)

			Convey("Each contributor withdraws exactly once", func() {
				refund, err := keeper.WithdrawPayments(as(alice), db, alice.Address())
				So(err, ShouldBeNil)
				So(refund.String(), ShouldEqual, "40")
				So(balance(alice.Address()), ShouldEqual, "100")

				_, err = keeper.WithdrawPayments(as(alice), db, alice.Address())
				So(errors.ErrNothingToWithdraw.Is(err), ShouldBeTrue)
				So(balance(alice.Address()), ShouldEqual, "100")
				So(balance(EscrowAddress()), ShouldEqual, "20")

				refund, err = keeper.WithdrawPayments(as(bob), db, bob.Address())
				So(err, ShouldBeNil)
				So(refund.String(), ShouldEqual, "20")
				So(balance(EscrowAddress()), ShouldEqual, "0")
			})

			Convey("Nobody withdraws for somebody else", func() {
				_, err := keeper.WithdrawPayments(as(bob), db, alice.Address())
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})

			Convey("Strangers have nothing to withdraw", func() {
				stranger := weavetest.NewCondition()
				_, err := keeper.WithdrawPayments(as(stranger), db, stranger.Address())
				So(errors.ErrNothingToWithdraw.Is(err), ShouldBeTrue)
			})

			Convey("The state is permanent", func() {
				So(errors.ErrTransition.Is(keeper.SetState(as(controller), db, Success)), ShouldBeTrue)
				So(errors.ErrTransition.Is(keeper.SetState(as(controller), db, Refunding)), ShouldBeTrue)
				So(errors.ErrState.Is(keeper.Record(as(controller), db, alice.Address(), coin.NewAmount(1))), ShouldBeTrue)
				So(errors.ErrState.Is(keeper.SendValue(as(admin), db, beneficiary, coin.NewAmount(1))), ShouldBeTrue)
			})
		})

		Convey("When successful", func() {
			So(keeper.SetState(as(controller), db, Success), ShouldBeNil)

			Convey("The administrator releases the value", func() {
				So(keeper.SendValue(as(admin), db, beneficiary, coin.NewAmount(45)), ShouldBeNil)
				So(balance(beneficiary), ShouldEqual, "45")

				err := keeper.SendValue(as(admin), db, beneficiary, coin.NewAmount(16))
				So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
				So(balance(EscrowAddress()), ShouldEqual, "15")
			})

			Convey("Nobody else releases the value", func() {
				err := keeper.SendValue(as(controller), db, beneficiary, coin.NewAmount(1))
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})

			Convey("Contributors cannot withdraw", func() {
				_, err := keeper.WithdrawPayments(as(alice), db, alice.Address())
				So(errors.ErrState.Is(err), ShouldBeTrue)
			})

			Convey("The state is permanent", func() {
				So(errors.ErrTransition.Is(keeper.SetState(as(controller), db, Refunding)), ShouldBeTrue)
			})
		})

		Convey("The administrator replaces the controller", func() {
			next := weavetest.NewCondition()
			So(errors.ErrUnauthorized.Is(keeper.SetController(as(controller), db, next.Address())), ShouldBeTrue)
			So(keeper.SetController(as(admin), db, next.Address()), ShouldBeNil)

			So(errors.ErrNotController.Is(keeper.SetState(as(controller), db, Success)), ShouldBeTrue)
			So(keeper.SetState(as(next), db, Success), ShouldBeNil)
		})

		Convey("Stray deposits break the invariant", func() {
			So(cashCtrl.MoveCoins(db, bob.Address(), EscrowAddress(), coin.NewAmount(1)), ShouldBeNil)
			So(errors.ErrInvariant.Is(keeper.CheckInvariant(db)), ShouldBeTrue)
		})
	})
}
