package rpc

import "encoding/json"

type JoinRoomParams struct {
	BookingID string `json:"bookingId"`
}

type JoinRoomRpc struct {
	jsonRpcHead
	Params JoinRoomParams `json:"params"`
}

func NewJoinRoomRpc(params JoinRoomParams) *JoinRoomRpc {
	return &JoinRoomRpc{
		jsonRpcHead: newJsonRpcHead(JoinRoomMethod),
		Params:      params,
	}
}

func (r JoinRoomRpc) GetMethod() Method {
	return r.Method
}

func (r JoinRoomRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

type JoinedRoomParams struct {
	RoomID    string `json:"roomId"`
	BookingID string `json:"bookingId"`
}

// JoinedRoomRpc is the ack sent back to the joiner.
type JoinedRoomRpc struct {
	jsonRpcHead
	Params JoinedRoomParams `json:"params"`
}

func NewJoinedRoomRpc(roomID, bookingID string) *JoinedRoomRpc {
	return &JoinedRoomRpc{
		jsonRpcHead: newJsonRpcHead(JoinedRoomMethod),
		Params: JoinedRoomParams{
			RoomID:    roomID,
			BookingID: bookingID,
		},
	}
}

func (r JoinedRoomRpc) GetMethod() Method {
	return r.Method
}

func (r JoinedRoomRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
