package redis

const (
	// KeyPrefixItem is the prefix for item keys
	KeyPrefixItem = "quicklink:item:"
	// KeyItemOrder is the list of item IDs in stored order
	KeyItemOrder = "quicklink:items:order"
	// KeyCommands holds the JSON-encoded command list
	KeyCommands = "quicklink:commands"
	// KeyUsage is the hash of usage key -> JSON record
	KeyUsage = "quicklink:usage"
)

// ItemKey returns the Redis key for an item by ID
func ItemKey(id string) string {
	return KeyPrefixItem + id
}

