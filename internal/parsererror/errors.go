// Package parsererror defines the typed errors surfaced by the transaction
// builder. Malformed rows and unresolved fields never error; the only hard
// failures are the group-mode contracts below.
package parsererror

import "fmt"

// GroupFormatError reports a group submission with fewer than the required
// number of distinct staff entries.
type GroupFormatError struct {
	Entries int
}

func (e *GroupFormatError) Error() string {
	return fmt.Sprintf("group submission needs at least 2 distinct staff entries, found %d: use the block format 'Staff Member: <name>' with an Amount line per member, or a 'Staff Name | YP Name | Amount' table", e.Entries)
}

// DelinquentStaffError blocks a group submission that includes a staff
// member with an unresolved prior liquidation.
type DelinquentStaffError struct {
	StaffName string
}

func (e *DelinquentStaffError) Error() string {
	return fmt.Sprintf("staff member %q has an unacquitted prior liquidation; group submission cannot proceed", e.StaffName)
}
