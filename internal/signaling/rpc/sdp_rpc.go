package rpc

import (
	"encoding/json"

	"github.com/pion/webrtc/v3"
)

// The relay forwards SDP payloads untouched; the pion types are used for
// their wire shape only, never inspected.

type OfferParams struct {
	RoomID string                    `json:"roomId"`
	Offer  webrtc.SessionDescription `json:"offer"`
	From   string                    `json:"from,omitempty"`
}

type OfferRpc struct {
	jsonRpcHead
	Params OfferParams `json:"params"`
}

func NewOfferRpc(params OfferParams) *OfferRpc {
	return &OfferRpc{
		jsonRpcHead: newJsonRpcHead(OfferMethod),
		Params:      params,
	}
}

func (r OfferRpc) GetMethod() Method {
	return r.Method
}

func (r OfferRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

type AnswerParams struct {
	RoomID string                    `json:"roomId"`
	Answer webrtc.SessionDescription `json:"answer"`
	From   string                    `json:"from,omitempty"`
}

type AnswerRpc struct {
	jsonRpcHead
	Params AnswerParams `json:"params"`
}

func NewAnswerRpc(params AnswerParams) *AnswerRpc {
	return &AnswerRpc{
		jsonRpcHead: newJsonRpcHead(AnswerMethod),
		Params:      params,
	}
}

func (r AnswerRpc) GetMethod() Method {
	return r.Method
}

func (r AnswerRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
