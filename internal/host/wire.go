// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package host

import (
	"encoding/json"
	"fmt"
)

// envelope is the framed form of an event on the bridge log: one JSON
// object per line.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEvent parses one framed event line from the host bridge.
func DecodeEvent(line []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("decode event frame: %w", err)
	}
	switch env.Event {
	case "queue.enter":
		var e QueueEnter
		if err := unmarshalData(env.Data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "queue.loadCard":
		var e QueueLoadCard
		if err := unmarshalData(env.Data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "queue.completeCard":
		var e QueueCompleteCard
		if err := unmarshalData(env.Data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "queue.exit":
		return QueueExit{}, nil
	case "global.openRem":
		var e GlobalOpenRem
		if err := unmarshalData(env.Data, &e); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("unknown event %q", env.Event)
}

// EncodeEvent frames an event for the bridge log.
func EncodeEvent(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: Name(e), Data: data})
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	return nil
}
