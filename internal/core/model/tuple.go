package model

import "fmt"

// Key is the identity of a tuple. Confidence is not part of it.
type Key struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
}

// Query is the search text formed from the key.
func (k Key) Query() string {
	return k.Subject + " " + k.Object
}

// Tuple is a discovered relation instance. Confidence is meaningful only
// when Scored is set.
type Tuple struct {
	Subject    string  `json:"subject"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence,omitempty"`
	Scored     bool    `json:"scored"`
}

func NewScoredTuple(subject, object string, confidence float64) Tuple {
	return Tuple{Subject: subject, Object: object, Confidence: confidence, Scored: true}
}

func NewTuple(subject, object string) Tuple {
	return Tuple{Subject: subject, Object: object}
}

func (t Tuple) Key() Key {
	return Key{Subject: t.Subject, Object: t.Object}
}

func (t Tuple) String() string {
	if t.Scored {
		return fmt.Sprintf("(%s, %s, %.4f)", t.Subject, t.Object, t.Confidence)
	}
	return fmt.Sprintf("(%s, %s)", t.Subject, t.Object)
}
