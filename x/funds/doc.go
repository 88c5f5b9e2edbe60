/*
Package funds implements the escrow holding the value collected by the sale.

The escrow is a single registry with a lifecycle. While it is Gathering, its
controller records contributions and the value moves into the escrow wallet.
The controller then moves it to Success, which allows the administrator
(normally a multiowned gate) to send the value out, or to Refunding, which
allows every contributor to withdraw exactly what was recorded for them.
Both terminal states are permanent.
*/
package funds
