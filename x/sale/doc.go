/*
Package sale implements the crowdsale state machine.

A sale accepts contributions between its start and end time until the hard
cap is reached. Every contribution is recorded in the escrow (x/funds) and
the contributor receives issued units (x/token) at the configured rate,
increased by the bonus of the current time tier and, for contributions
arriving through a payment channel, the channel bonus.

The sale is finalized by the first transaction that observes the end time
or the hard cap. If the minimum cap was collected, the owners of the sale
gate receive their bonus, the escrow moves to success and token transfers
are enabled. Otherwise the escrow moves to refunding and every contributor
can withdraw the recorded value.

There is no background scheduling. A sale that nobody touches after its end
time stays unfinalized until somebody sends a CheckTimeMsg.
*/
package sale
