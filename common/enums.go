// Package common holds enumerations shared by the configuration and the
// commands, so that neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --nocase

// Specification of computed style snapshot encoding.
// ENUM(text, yaml, ion)
type SnapshotFormat int

// Ext returns the file extension used for the format.
func (f SnapshotFormat) Ext() string {
	switch f {
	case SnapshotFormatYaml:
		return ".yaml"
	case SnapshotFormatIon:
		return ".ion"
	default:
		return ".txt"
	}
}
