/*
Package cash keeps the balance of native value held by every address.

Contributions are paid from these wallets, the escrow is an ordinary wallet
owned by the funds extension, and refunds and releases move value back out
of it. Other extensions only use the Controller, the SendMsg is the way
users move value between themselves.
*/
package cash
