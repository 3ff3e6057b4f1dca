package rpc

import (
	"encoding/json"
	"time"
)

// Session-scoped presence: "who is in this call" is derived purely from
// these events, independent of the global online/offline signal.

type SessionUserJoinedParams struct {
	RoomID   string    `json:"roomId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type SessionUserJoinedRpc struct {
	jsonRpcHead
	Params SessionUserJoinedParams `json:"params"`
}

func NewSessionUserJoinedRpc(roomID, userID string, joinedAt time.Time) *SessionUserJoinedRpc {
	return &SessionUserJoinedRpc{
		jsonRpcHead: newJsonRpcHead(SessionUserJoinedMethod),
		Params: SessionUserJoinedParams{
			RoomID:   roomID,
			UserID:   userID,
			JoinedAt: joinedAt,
		},
	}
}

func (r SessionUserJoinedRpc) GetMethod() Method {
	return r.Method
}

func (r SessionUserJoinedRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

type SessionUserLeftParams struct {
	RoomID string    `json:"roomId"`
	UserID string    `json:"userId"`
	LeftAt time.Time `json:"leftAt"`
}

type SessionUserLeftRpc struct {
	jsonRpcHead
	Params SessionUserLeftParams `json:"params"`
}

func NewSessionUserLeftRpc(roomID, userID string, leftAt time.Time) *SessionUserLeftRpc {
	return &SessionUserLeftRpc{
		jsonRpcHead: newJsonRpcHead(SessionUserLeftMethod),
		Params: SessionUserLeftParams{
			RoomID: roomID,
			UserID: userID,
			LeftAt: leftAt,
		},
	}
}

func (r SessionUserLeftRpc) GetMethod() Method {
	return r.Method
}

func (r SessionUserLeftRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

type UserParams struct {
	UserID string `json:"userId"`
}

// UserJoinedRpc is the legacy peer-joined notice kept for older clients.
type UserJoinedRpc struct {
	jsonRpcHead
	Params UserParams `json:"params"`
}

func NewUserJoinedRpc(userID string) *UserJoinedRpc {
	return &UserJoinedRpc{
		jsonRpcHead: newJsonRpcHead(UserJoinedMethod),
		Params:      UserParams{UserID: userID},
	}
}

func (r UserJoinedRpc) GetMethod() Method {
	return r.Method
}

func (r UserJoinedRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// PresenceRpc carries the global user-online / user-offline broadcast.
type PresenceRpc struct {
	jsonRpcHead
	Params UserParams `json:"params"`
}

func NewUserOnlineRpc(userID string) *PresenceRpc {
	return &PresenceRpc{
		jsonRpcHead: newJsonRpcHead(UserOnlineMethod),
		Params:      UserParams{UserID: userID},
	}
}

func NewUserOfflineRpc(userID string) *PresenceRpc {
	return &PresenceRpc{
		jsonRpcHead: newJsonRpcHead(UserOfflineMethod),
		Params:      UserParams{UserID: userID},
	}
}

func (r PresenceRpc) GetMethod() Method {
	return r.Method
}

func (r PresenceRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
