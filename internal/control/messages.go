// SPDX-License-Identifier: EPL-2.0

package control

// PlayRequest starts an instance playing Key.
type PlayRequest struct {
	Key string `json:"key"`
}

type StopRequest struct {
	ID string `json:"id"`
}

// BankRequest switches the active sound table.
type BankRequest struct {
	Table string `json:"table"`
}

type ParamRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float32 `json:"value"`
}

// Reply is sent back when the request carries a reply subject.
type Reply struct {
	ID    string   `json:"id,omitempty"`
	Value *float32 `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}
