// Package cycles is a test fixture for types that embed themselves.
package cycles

// Node embeds a pointer to itself.
type Node struct {
	*Node

	Value int
}

// Ping embeds Pong, which embeds Ping back.
type Ping struct {
	*Pong
}

// Pong embeds Ping.
type Pong struct {
	*Ping
}

// Leaf embeds Node, which is a base despite embedding itself.
type Leaf struct {
	Node
}
