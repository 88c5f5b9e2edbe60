/*
Package multiowned implements N-of-M multi-owner gates.

A gate is a named, ordered set of owners together with the number of
confirmations an action requires. Owners propose actions, which are
serialized messages of any registered kind. Proposing an action that is
already pending for the gate counts as a confirmation. Once enough distinct
owners confirmed, the action is executed in the same transaction with the
gate condition authorized, so any handler that stores the gate address as
its owner or controller accepts it.

Pending operations expire after a configured horizon. An expired operation
cannot be confirmed any more, proposing it again starts a fresh one.
*/
package multiowned
