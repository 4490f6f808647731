package chat

// RoomNameSeparator joins the two participant ids in a private room label.
const RoomNameSeparator = "-"

// DeriveRoomName derives the label for a private two-party channel from the
// participants' connection ids. The ids are sorted lexicographically before
// joining, so both participants compute the identical label from either
// argument order.
func DeriveRoomName(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + RoomNameSeparator + b
}
