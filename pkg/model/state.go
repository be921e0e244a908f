package model

// QualitySubstituted flags a state value substituted from a declared default
const QualitySubstituted = 0x40

// State is a runtime value held by the state store
type State struct {
	Val  interface{} `json:"val"`
	Ack  bool        `json:"ack"`
	Q    int         `json:"q,omitempty"`
	TS   int64       `json:"ts,omitempty"`
	From string      `json:"from,omitempty"`
}
