/*
Package staging implements the Staged Validation Controller.

Full-form validation is expensive and noisy while the user is halfway through
editing a dependent group: with only two of three related values updated the
form is meaningless. The controller therefore keeps one state machine per
group:

	Settled --focus on member--> Editing --focus outside group--> Settled
	                               |  ^
	                               +--+ focus on another member / member edit

While a group is Editing, edits to its members run only the group-local
partial check. When focus leaves the group for a non-member, the deferred
full validation runs exactly once, even if nothing changed. Edits to fields
outside any group always validate immediately.

The controller is not safe for concurrent use; it expects events one at a time,
in the order the host delivers them.
*/
package staging
