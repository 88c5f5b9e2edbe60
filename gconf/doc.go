/*
Package gconf keeps per extension configuration objects in the database.

Every extension stores a single configuration under the "_c:<name>" key. It
is loaded from the genesis "conf" section and can later be replaced by its
owner with an update message. The owner may be a multi-owner gate, in which
case an update is applied only once enough gate owners confirmed it.
*/
package gconf
