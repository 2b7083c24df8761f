// Package permission implements the fixed CRUD permission vocabulary
// (read, write, update, delete) and the Set type used by roles and
// per-user grants.
//
// A Set is a bitmask in memory. It is serialised to the comma-joined text
// form only at the storage boundary:
//
//	set, err := permission.ParseList([]string{"read, write"})
//	stored := set.String() // "read,write"
//
// Parsing is case-sensitive and tolerant of surrounding spaces and of
// several tokens packed into one comma separated entry.
package permission
