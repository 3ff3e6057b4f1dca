package rpc

import (
	"encoding/json"

	"github.com/pion/webrtc/v3"
)

type ICECandidateParams struct {
	RoomID    string                  `json:"roomId"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
	From      string                  `json:"from,omitempty"`
}

type ICECandidateRpc struct {
	jsonRpcHead
	Params ICECandidateParams `json:"params"`
}

func NewICECandidateRpc(params ICECandidateParams) *ICECandidateRpc {
	return &ICECandidateRpc{
		jsonRpcHead: newJsonRpcHead(ICECandidateMethod),
		Params:      params,
	}
}

func (r ICECandidateRpc) GetMethod() Method {
	return r.Method
}

func (r ICECandidateRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
