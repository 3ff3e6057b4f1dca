package rpc

import "encoding/json"

type ErrorParams struct {
	Message string `json:"message"`
}

type ErrorRpc struct {
	jsonRpcHead
	Params ErrorParams `json:"params"`
}

func NewErrorRpc(message string) *ErrorRpc {
	return &ErrorRpc{
		jsonRpcHead: newJsonRpcHead(ErrorMethod),
		Params:      ErrorParams{Message: message},
	}
}

func (r ErrorRpc) GetMethod() Method {
	return r.Method
}

func (r ErrorRpc) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
