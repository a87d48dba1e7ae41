// Package modules contains the built-in protocol composers. Each file
// registers one Descriptor into the process registry from init, so
// importing this package (for side effects) is all a driver needs to get
// the full protocol table.
package modules

// IPv4 protocol numbers of the built-in modules.
const (
	protoICMP = 1
	protoIGMP = 2
	protoTCP  = 6
	protoUDP  = 17
	protoDCCP = 33
	protoGRE  = 47
)
