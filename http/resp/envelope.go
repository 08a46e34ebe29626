package resp

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

const (
	RtKey      = "rt"
	RtMsgKey   = "rtmsg"
	PubDateKey = "pubdate"

	pubDateLayout = "2006-01-02T15:04:05.000Z"
)

// An Envelope is the uniform body of every response.
//
// Fields sit between rtmsg and pubdate, sorted by key.
// A field named rt or rtmsg replaces that member's value in place;
// pubdate always carries PubDate.
type Envelope struct {
	Rt      int
	RtMsg   string
	Fields  map[string]any
	PubDate time.Time
}

// MarshalJSON encodes e keeping rt, rtmsg, fields, pubdate in that order.
func (e Envelope) MarshalJSON() ([]byte, error) {
	b := new(bytes.Buffer)
	b.WriteByte('{')

	var rt, rtmsg any = e.Rt, e.RtMsg
	if v, ok := e.Fields[RtKey]; ok {
		rt = v
	}

	if v, ok := e.Fields[RtMsgKey]; ok {
		rtmsg = v
	}

	if err := writeMember(b, RtKey, rt); err != nil {
		return nil, err
	}

	b.WriteByte(',')
	if err := writeMember(b, RtMsgKey, rtmsg); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		switch k {
		case RtKey, RtMsgKey, PubDateKey:
			continue
		}

		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte(',')
		if err := writeMember(b, k, e.Fields[k]); err != nil {
			return nil, err
		}
	}

	b.WriteByte(',')
	if err := writeMember(b, PubDateKey, e.PubDate.UTC().Format(pubDateLayout)); err != nil {
		return nil, err
	}

	b.WriteByte('}')

	return b.Bytes(), nil
}

func writeMember(b *bytes.Buffer, key string, val any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}

	vb, err := json.Marshal(val)
	if err != nil {
		return err
	}

	b.Write(kb)
	b.WriteByte(':')
	b.Write(vb)

	return nil
}
