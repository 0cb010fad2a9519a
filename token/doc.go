// Package token holds the character-level machinery shared by the
// dialect parsers: a position-tracking scanner, string-literal scanning
// and quoting in each dialect's flavors, and policy-driven numeric
// literal parsing.
package token
