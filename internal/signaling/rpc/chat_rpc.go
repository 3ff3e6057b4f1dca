package rpc

import "encoding/json"

type ChatMessageParams struct {
	RoomID     string `json:"roomId"`
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
	Timestamp  string `json:"timestamp,omitempty"`
	From       string `json:"from,omitempty"`
}

type ChatMessageRpc struct {
	jsonRpcHead
	Params ChatMessageParams `json:"params"`
}

func NewChatMessageRpc(params ChatMessageParams) *ChatMessageRpc {
	return &ChatMessageRpc{
		jsonRpcHead: newJsonRpcHead(ChatMessageMethod),
		Params:      params,
	}
}

func (r ChatMessageRpc) GetMethod() Method {
	return r.Method
}

func (r ChatMessageRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
