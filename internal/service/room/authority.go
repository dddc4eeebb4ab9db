package room

import "strings"

// ResolveAuthority reports whether username is the authority of the room.
// The authority of a room is the user whose name equals the room id, compared
// case-insensitively.
func ResolveAuthority(roomId, username string) bool {
	return strings.EqualFold(roomId, username)
}
