package rpc

import (
	"encoding/json"
	"errors"
	"io"
)

const jsonRpcVersion = "2.0"

type Method string

const (
	// client -> server
	JoinRoomMethod     Method = "join-room"
	OfferMethod        Method = "offer"
	AnswerMethod       Method = "answer"
	ICECandidateMethod Method = "ice-candidate"
	ChatMessageMethod  Method = "chat-message"

	// server -> client
	JoinedRoomMethod        Method = "joined-room"
	SessionUserJoinedMethod Method = "session-user-joined"
	SessionUserLeftMethod   Method = "session-user-left"
	UserJoinedMethod        Method = "user-joined"
	UserOnlineMethod        Method = "user-online"
	UserOfflineMethod       Method = "user-offline"
	ErrorMethod             Method = "error"
)

var (
	ErrUnknownRpcType = errors.New("unknown RPC type")
	ErrMalformedRpc   = errors.New("malformed RPC")
)

type Rpc interface {
	GetMethod() Method
	ToJSON() ([]byte, error)
}

type jsonRpcHead struct {
	Version string `json:"jsonrpc"`
	Method  Method `json:"method"`
}

func newJsonRpcHead(method Method) jsonRpcHead {
	return jsonRpcHead{
		Version: jsonRpcVersion,
		Method:  method,
	}
}

type jsonRpc struct {
	jsonRpcHead
	Params json.RawMessage `json:"params"`
}

// RpcFromReader parses one client message into its typed RPC. Only the
// client -> server half of the method set is accepted here; everything
// else is ErrUnknownRpcType.
func RpcFromReader(reader io.Reader) (Rpc, error) {
	rpc := &jsonRpc{}

	err := json.NewDecoder(reader).Decode(rpc)
	if err != nil {
		return nil, ErrMalformedRpc
	}

	switch rpc.Method {
	case JoinRoomMethod:
		params := JoinRoomParams{}
		if err := json.Unmarshal(rpc.Params, &params); err != nil {
			return nil, ErrMalformedRpc
		}

		return NewJoinRoomRpc(params), nil
	case OfferMethod:
		params := OfferParams{}
		if err := json.Unmarshal(rpc.Params, &params); err != nil {
			return nil, ErrMalformedRpc
		}

		return NewOfferRpc(params), nil
	case AnswerMethod:
		params := AnswerParams{}
		if err := json.Unmarshal(rpc.Params, &params); err != nil {
			return nil, ErrMalformedRpc
		}

		return NewAnswerRpc(params), nil
	case ICECandidateMethod:
		params := ICECandidateParams{}
		if err := json.Unmarshal(rpc.Params, &params); err != nil {
			return nil, ErrMalformedRpc
		}

		return NewICECandidateRpc(params), nil
	case ChatMessageMethod:
		params := ChatMessageParams{}
		if err := json.Unmarshal(rpc.Params, &params); err != nil {
			return nil, ErrMalformedRpc
		}

		return NewChatMessageRpc(params), nil
	default:
		return nil, ErrUnknownRpcType
	}
}
