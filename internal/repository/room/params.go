package room

type SetRoomParams struct {
	RoomId string
	Room   Room
}

type IncrSongPlaysParams struct {
	VideoId string
	Title   string
}
