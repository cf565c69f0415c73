package model

// Cart maps catalog item identifiers to quantities for a single user.
// Quantities are always positive; an entry that drops to zero is removed.
type Cart map[string]int
