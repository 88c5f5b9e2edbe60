/*
Package token is the ledger of the units issued by the sale.

Units are only created by minting, which is reserved to the controller of
the ledger (the sale). Holders can move units between themselves only while
transfers are enabled. The controller toggles that, and the administrator
(normally a multiowned gate) may hand the controller role to someone else.
*/
package token
